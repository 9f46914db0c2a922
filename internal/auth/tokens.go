// Package auth issues and verifies identity tokens and password hashes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims of both token kinds. The subject is the user ID.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful signup or login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenIssuer mints stateless HS256 tokens. Nothing is persisted.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueTokenPair returns a short-lived access token and a longer-lived
// refresh token, both bound to userID.
func (ti *TokenIssuer) IssueTokenPair(userID string) (TokenPair, error) {
	access, err := ti.sign(userID, TokenTypeAccess, ti.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := ti.sign(userID, TokenTypeRefresh, ti.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (ti *TokenIssuer) sign(userID, typ string, ttl time.Duration) (string, error) {
	now := ti.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Parse validates signature and expiry and returns the claims.
func (ti *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess accepts only access tokens and returns the user ID.
func (ti *TokenIssuer) ParseAccess(tokenStr string) (string, error) {
	claims, err := ti.Parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Type != TokenTypeAccess {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

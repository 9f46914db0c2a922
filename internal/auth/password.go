package auth

import (
	"errors"
	"fmt"

	apperrors "bookit/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt hash using the given cost.
// Passwords over 72 bytes are rejected with ErrValidation.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("password longer than 72 bytes: %w", apperrors.ErrValidation)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a stored bcrypt hash with a candidate password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

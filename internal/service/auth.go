package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookit/internal/auth"
	apperrors "bookit/internal/errors"
	"bookit/internal/logger"
	"bookit/internal/messaging"
	"bookit/internal/models"
)

type AuthService struct {
	userRepo   UserStore
	issuer     *auth.TokenIssuer
	bcryptCost int
	natsClient messaging.Publisher
}

func NewAuthService(userRepo UserStore, issuer *auth.TokenIssuer, bcryptCost int, natsClient messaging.Publisher) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		natsClient: natsClient,
	}
}

// Signup creates a user and returns a fresh token pair for it. Duplicate
// usernames are allowed.
func (s *AuthService) Signup(ctx context.Context, req *models.CredentialsRequest) (*models.AuthResponse, error) {
	if err := validateCredentials(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issuer.IssueTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	logger.WithContext(ctx).Info("User signed up", "user_id", user.ID)

	publish(ctx, s.natsClient, models.EventUserSignedUp, models.UserSignedUpEvent{
		UserID:    user.ID,
		Username:  user.Username,
		Timestamp: time.Now(),
	})

	return authResponse(user, pair), nil
}

// Login verifies the credentials against the oldest user with that name.
func (s *AuthService) Login(ctx context.Context, req *models.CredentialsRequest) (*models.AuthResponse, error) {
	if err := validateCredentials(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid username or password: %w", apperrors.ErrUnauthorized)
	}

	pair, err := s.issuer.IssueTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return authResponse(user, pair), nil
}

func validateCredentials(req *models.CredentialsRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("username is required: %w", apperrors.ErrValidation)
	}
	if req.Password == "" {
		return fmt.Errorf("password is required: %w", apperrors.ErrValidation)
	}
	return nil
}

func authResponse(user *models.User, pair auth.TokenPair) *models.AuthResponse {
	return &models.AuthResponse{
		User: models.AuthUser{
			Access:   pair.Access,
			Refresh:  pair.Refresh,
			Username: user.Username,
		},
	}
}

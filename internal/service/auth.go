package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"weatherd/internal/crypto"
	"weatherd/internal/models"
	"weatherd/internal/repository"
	"weatherd/internal/token"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, identifier, password string) (string, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Manager
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, tokens *token.Manager, logger *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Register hashes the password and persists the user. Credentials are expected
// to be validated before this point; duplicate username/email surfaces as the
// repository's conflict errors.
func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) || errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully.", zap.String("username", user.Username))

	return user, nil
}

// Login verifies the password for the username or email and issues a session
// token. Unknown identifier and wrong password both return ErrInvalidCredentials;
// for unknown users the password is still verified against a placeholder digest
// so the two cases cost the same.
func (s *authService) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.repo.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			crypto.VerifyPassword(password, crypto.PlaceholderHash)
			return "", ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by identifier", zap.Error(err))
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("username", user.Username))

	return tokenString, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/models"
	"github.com/mmeshcher/shortener-api/internal/repository"
)

type AuthService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenManager
	logger *zap.Logger
}

func NewAuthService(users UserRepository, hasher PasswordHasher, tokens TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// SignIn checks the credentials and returns a signed access token.
// Unknown emails and wrong passwords both give ErrUnauthorized.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", storageError("find user by email", err)
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		s.logger.Debug("Password mismatch", zap.String("userID", user.ID))
		return "", ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Authenticate verifies an access token and that its subject still exists.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	principal, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("Rejected access token", zap.Error(err))
		return models.Principal{}, ErrUnauthorized
	}

	user, err := s.users.FindUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Principal{}, ErrUnauthorized
		}
		return models.Principal{}, storageError("find user by id", err)
	}

	return models.Principal{UserID: user.ID, Email: user.Email}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/models"
	"github.com/mmeshcher/shortener-api/internal/repository"
)

type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	clock  Clock
	logger *zap.Logger
}

func NewUserService(repo UserRepository, hasher PasswordHasher, clock Clock, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		clock:  clock,
		logger: logger,
	}
}

// NormalizeEmail trims and lower-cases an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	_, err := s.repo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserAlreadyExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageError("find user by email", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	now := s.clock.Now()
	user := &models.User{
		ID:           id.String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, storageError("create user", err)
	}

	s.logger.Info("User created", zap.String("userID", user.ID))
	return user, nil
}

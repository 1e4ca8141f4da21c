package service

import (
	"context"
	"time"

	"github.com/mmeshcher/shortener-api/internal/models"
)

// CodeChecker reports whether a short code is already stored.
type CodeChecker interface {
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
}

type ShortURLRepository interface {
	CodeChecker
	CreateShortURL(ctx context.Context, s *models.ShortURL) error
	FindShortURLByCode(ctx context.Context, shortCode string) (*models.ShortURL, error)
	FindShortURLByID(ctx context.Context, id string) (*models.ShortURL, error)
	FindShortURLsByUser(ctx context.Context, userID string) ([]models.ShortURL, error)
	ListShortURLsByUser(ctx context.Context, userID string, params models.ListParams) ([]models.ShortURL, int, error)
	SaveShortURL(ctx context.Context, s *models.ShortURL) error
	IncrementClicks(ctx context.Context, shortCode string, at time.Time) (*models.ShortURL, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hashed string) bool
}

type TokenManager interface {
	Issue(userID, email string) (string, error)
	Parse(token string) (models.Principal, error)
}

type Clock interface {
	Now() time.Time
}

package handler

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/middleware"
	"github.com/mmeshcher/shortener-api/internal/models"
)

// Shortener is the short URL lifecycle the HTTP layer drives.
type Shortener interface {
	Create(ctx context.Context, originalURL, ownerID string) (*models.ShortURL, error)
	Resolve(ctx context.Context, shortCode string) (*models.ShortURL, error)
	Update(ctx context.Context, shortCode, newURL, requesterID string) (*models.ShortURL, error)
	Delete(ctx context.Context, shortCode, requesterID string) error
	List(ctx context.Context, ownerID string, params models.ListParams) (*models.ShortURLPage, error)
}

type UserCreator interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
}

type SignInner interface {
	SignIn(ctx context.Context, email, password string) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	shortener      Shortener
	users          UserCreator
	auth           SignInner
	authMiddleware *middleware.AuthMiddleware
	pinger         Pinger
	baseURL        string
	validate       *validator.Validate
	logger         *zap.Logger
}

func NewHandler(
	shortener Shortener,
	users UserCreator,
	auth SignInner,
	authMiddleware *middleware.AuthMiddleware,
	pinger Pinger,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		shortener:      shortener,
		users:          users,
		auth:           auth,
		authMiddleware: authMiddleware,
		pinger:         pinger,
		baseURL:        strings.TrimRight(baseURL, "/"),
		validate:       newValidator(),
		logger:         logger,
	}
}

// newValidator reports json field names instead of Go field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

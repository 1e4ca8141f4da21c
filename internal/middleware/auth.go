package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/models"
	"github.com/mmeshcher/shortener-api/internal/service"
)

type contextKey string

const principalKey contextKey = "principal"

var errMissingToken = errors.New("missing bearer token")

// Authenticator turns an access token into the caller it was issued to.
// Rejected tokens must wrap service.ErrUnauthorized; any other error is treated as a server failure.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Principal, error)
}

type AuthMiddleware struct {
	auth   Authenticator
	logger *zap.Logger
}

func NewAuthMiddleware(auth Authenticator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		logger: logger,
	}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		principal, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrUnauthorized) {
				m.logger.Error("Failed to authenticate request", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "An error occurred")
				return
			}
			m.logger.Debug("Authentication failed", zap.Error(err))
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth lets anonymous requests through. A token that is present but invalid is still rejected.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		m.RequireAuth(next).ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Success: false,
		Message: message,
	})
}

func WithPrincipal(ctx context.Context, principal models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func GetPrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(models.Principal)
	return principal, ok
}

// GetUserIDFromContext returns the authenticated user id, or "" with false for anonymous requests.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	principal, ok := GetPrincipalFromContext(ctx)
	if !ok || principal.UserID == "" {
		return "", false
	}
	return principal.UserID, true
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/auth"
	"github.com/mmeshcher/shortener-api/internal/repository"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := NewUserService(repo, plainHasher{}, newFakeClock(), zap.NewNop())

	user, err := svc.Create(ctx, " John ", "  John@Example.COM ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "John", user.Name)
	assert.Equal(t, "john@example.com", user.Email)
	assert.Equal(t, "hashed:secret1", user.PasswordHash)
	assert.Equal(t, baseTime, user.CreatedAt)

	_, err = svc.Create(ctx, "Other", "john@example.com", "secret2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Create(ctx, "Other", "JOHN@example.com", "secret2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	stored, err := repo.FindUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID, "no second row")
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	clock := newFakeClock()
	tokens := auth.NewJWTManager("test-secret", time.Hour).WithNow(clock.Now)

	users := NewUserService(repo, plainHasher{}, clock, zap.NewNop())
	svc := NewAuthService(repo, plainHasher{}, tokens, zap.NewNop())

	user, err := users.Create(ctx, "John", "john@example.com", "secret1")
	require.NoError(t, err)

	t.Run("sign in", func(t *testing.T) {
		tests := []struct {
			name     string
			email    string
			password string
			wantErr  error
		}{
			{name: "valid credentials", email: "john@example.com", password: "secret1"},
			{name: "email is case insensitive", email: " JOHN@example.com", password: "secret1"},
			{name: "wrong password", email: "john@example.com", password: "secret2", wantErr: ErrUnauthorized},
			{name: "unknown email", email: "jane@example.com", password: "secret1", wantErr: ErrUnauthorized},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				token, err := svc.SignIn(ctx, tt.email, tt.password)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					assert.Empty(t, token)
					return
				}

				require.NoError(t, err)
				principal, err := svc.Authenticate(ctx, token)
				require.NoError(t, err)
				assert.Equal(t, user.ID, principal.UserID)
				assert.Equal(t, "john@example.com", principal.Email)
			})
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token for missing user", func(t *testing.T) {
		token, err := tokens.Issue("0198a0b2-0000-7000-8000-00000000dead", "ghost@example.com")
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.SignIn(ctx, "john@example.com", "secret1")
		require.NoError(t, err)

		clock.Advance(2 * time.Hour)
		_, err = svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hashed)

	assert.True(t, hasher.Compare("password123", hashed))
	assert.False(t, hasher.Compare("wrong-password", hashed))
	assert.False(t, hasher.Compare("password123", "not-a-bcrypt-hash"))
}

func TestNewBcryptHasherFallsBackToDefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(1000)

	hashed, err := hasher.Hash("password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, DefaultHashCost, cost)
}

func TestJWTManager(t *testing.T) {
	issuedAt := time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC)

	type want struct {
		userID string
		email  string
		err    bool
	}

	tests := []struct {
		name   string
		token  func(t *testing.T) string
		parser *JWTManager
		want   want
	}{
		{
			name: "positive: round trip",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("secret", time.Hour).
					WithNow(func() time.Time { return issuedAt }).
					Issue("user-1", "john@example.com")
				require.NoError(t, err)
				return token
			},
			parser: NewJWTManager("secret", time.Hour).
				WithNow(func() time.Time { return issuedAt.Add(time.Minute) }),
			want: want{userID: "user-1", email: "john@example.com"},
		},
		{
			name: "negative: expired",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("secret", time.Hour).
					WithNow(func() time.Time { return issuedAt }).
					Issue("user-1", "john@example.com")
				require.NoError(t, err)
				return token
			},
			parser: NewJWTManager("secret", time.Hour).
				WithNow(func() time.Time { return issuedAt.Add(2 * time.Hour) }),
			want: want{err: true},
		},
		{
			name: "negative: wrong secret",
			token: func(t *testing.T) string {
				token, err := NewJWTManager("other", time.Hour).
					WithNow(func() time.Time { return issuedAt }).
					Issue("user-1", "john@example.com")
				require.NoError(t, err)
				return token
			},
			parser: NewJWTManager("secret", time.Hour).
				WithNow(func() time.Time { return issuedAt }),
			want: want{err: true},
		},
		{
			name: "negative: none algorithm",
			token: func(t *testing.T) string {
				claims := &Claims{
					Email: "john@example.com",
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "user-1",
						ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
					},
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
					SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return token
			},
			parser: NewJWTManager("secret", time.Hour).
				WithNow(func() time.Time { return issuedAt }),
			want: want{err: true},
		},
		{
			name:   "negative: garbage",
			token:  func(t *testing.T) string { return "not.a.token" },
			parser: NewJWTManager("secret", time.Hour),
			want:   want{err: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := tt.parser.Parse(tt.token(t))

			if tt.want.err {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want.userID, principal.UserID)
			assert.Equal(t, tt.want.email, principal.Email)
		})
	}
}

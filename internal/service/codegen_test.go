package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCodeAllocator_Generate(t *testing.T) {
	a := NewCodeAllocator(&mockChecker{}, zap.NewNop())

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code, err := a.Generate()
		require.NoError(t, err)
		require.Len(t, code, ShortCodeLength)
		for _, c := range code {
			assert.True(t, strings.ContainsRune(ShortCodeAlphabet, c), "unexpected character %q in %q", c, code)
		}
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 490, "codes should rarely repeat")
}

func TestCodeAllocator_GenerateRandomFailure(t *testing.T) {
	a := NewCodeAllocator(&mockChecker{}, zap.NewNop())
	a.random = strings.NewReader("")

	_, err := a.Generate()
	require.Error(t, err)
}

func TestCodeAllocator_Allocate(t *testing.T) {
	type want struct {
		err   error
		calls int
	}

	tests := []struct {
		name        string
		maxAttempts int
		setup       func(m *mockChecker)
		want        want
	}{
		{
			name:        "first candidate free",
			maxAttempts: 10,
			setup: func(m *mockChecker) {
				m.On("ShortCodeExists", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
			want: want{calls: 1},
		},
		{
			name:        "free after two collisions",
			maxAttempts: 10,
			setup: func(m *mockChecker) {
				m.On("ShortCodeExists", mock.Anything, mock.Anything).Return(true, nil).Twice()
				m.On("ShortCodeExists", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
			want: want{calls: 3},
		},
		{
			name:        "every candidate taken",
			maxAttempts: 4,
			setup: func(m *mockChecker) {
				m.On("ShortCodeExists", mock.Anything, mock.Anything).Return(true, nil)
			},
			want: want{err: ErrMaxRetriesExceeded, calls: 4},
		},
		{
			name:        "zero attempts uses default",
			maxAttempts: 0,
			setup: func(m *mockChecker) {
				m.On("ShortCodeExists", mock.Anything, mock.Anything).Return(true, nil)
			},
			want: want{err: ErrMaxRetriesExceeded, calls: DefaultMaxAttempts},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := &mockChecker{}
			tt.setup(checker)

			a := NewCodeAllocator(checker, zap.NewNop())
			code, err := a.Allocate(context.Background(), tt.maxAttempts)

			if tt.want.err != nil {
				assert.ErrorIs(t, err, tt.want.err)
				assert.Empty(t, code)
			} else {
				require.NoError(t, err)
				assert.Len(t, code, ShortCodeLength)
			}
			checker.AssertNumberOfCalls(t, "ShortCodeExists", tt.want.calls)
		})
	}
}

func TestCodeAllocator_AllocateStorageFailure(t *testing.T) {
	checker := &mockChecker{}
	checker.On("ShortCodeExists", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))

	a := NewCodeAllocator(checker, zap.NewNop())
	_, err := a.Allocate(context.Background(), 3)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "check short code", storageErr.Op)
	checker.AssertNumberOfCalls(t, "ShortCodeExists", 1)
}

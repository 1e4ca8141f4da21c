package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mmeshcher/shortener-api/internal/models"
	"github.com/mmeshcher/shortener-api/internal/repository"
)

var baseTime = time.Date(2025, 7, 18, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: baseTime}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	args := m.Called(ctx, shortCode)
	return args.Bool(0), args.Error(1)
}

// plainHasher stores passwords with a visible prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (plainHasher) Compare(plain, hashed string) bool {
	return hashed == "hashed:"+plain
}

// conflictingRepository loses the first conflicts inserts to a simulated concurrent writer.
type conflictingRepository struct {
	*repository.MemoryRepository
	conflicts int
	inserts   int
	insertErr error
}

func (r *conflictingRepository) CreateShortURL(ctx context.Context, s *models.ShortURL) error {
	r.inserts++
	if r.insertErr != nil {
		return r.insertErr
	}
	if r.inserts <= r.conflicts {
		return repository.ErrShortCodeConflict
	}
	return r.MemoryRepository.CreateShortURL(ctx, s)
}

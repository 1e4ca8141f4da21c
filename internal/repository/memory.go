package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mmeshcher/shortener-api/internal/models"
)

// MemoryRepository keeps users and short URLs in process memory.
// It is used when no database is configured and in tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	shortURLs  map[string]*models.ShortURL // by id
	codeIndex  map[string]string           // short code -> id, deleted rows included
	users      map[string]*models.User     // by id
	emailIndex map[string]string           // email -> id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		shortURLs:  make(map[string]*models.ShortURL),
		codeIndex:  make(map[string]string),
		users:      make(map[string]*models.User),
		emailIndex: make(map[string]string),
	}
}

func copyShortURL(s *models.ShortURL) *models.ShortURL {
	c := *s
	if s.DeletedAt != nil {
		t := *s.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func (m *MemoryRepository) CreateShortURL(_ context.Context, s *models.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.codeIndex[s.ShortCode]; exists {
		return ErrShortCodeConflict
	}

	m.shortURLs[s.ID] = copyShortURL(s)
	m.codeIndex[s.ShortCode] = s.ID

	return nil
}

func (m *MemoryRepository) ShortCodeExists(_ context.Context, shortCode string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.codeIndex[shortCode]
	return exists, nil
}

func (m *MemoryRepository) FindShortURLByCode(_ context.Context, shortCode string) (*models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.activeByCode(shortCode)
	if !ok {
		return nil, ErrNotFound
	}
	return copyShortURL(s), nil
}

func (m *MemoryRepository) activeByCode(shortCode string) (*models.ShortURL, bool) {
	id, ok := m.codeIndex[shortCode]
	if !ok {
		return nil, false
	}
	s := m.shortURLs[id]
	if s == nil || s.IsDeleted() {
		return nil, false
	}
	return s, true
}

func (m *MemoryRepository) FindShortURLByID(_ context.Context, id string) (*models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shortURLs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyShortURL(s), nil
}

func (m *MemoryRepository) FindShortURLsByUser(_ context.Context, userID string) ([]models.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := m.activeForUser(userID)
	slices.SortFunc(result, func(a, b models.ShortURL) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

func (m *MemoryRepository) activeForUser(userID string) []models.ShortURL {
	result := make([]models.ShortURL, 0)
	for _, s := range m.shortURLs {
		if s.UserID == userID && !s.IsDeleted() {
			result = append(result, *copyShortURL(s))
		}
	}
	return result
}

func (m *MemoryRepository) ListShortURLsByUser(_ context.Context, userID string, params models.ListParams) ([]models.ShortURL, int, error) {
	if !params.SortBy.Valid() {
		return nil, 0, fmt.Errorf("unsupported sort field %q", params.SortBy)
	}

	m.mu.RLock()
	all := m.activeForUser(userID)
	m.mu.RUnlock()

	slices.SortFunc(all, func(a, b models.ShortURL) int {
		c := compareBy(params.SortBy, a, b)
		if params.SortOrder == models.SortDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	total := len(all)
	start := params.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := min(start+params.Limit, total)

	return all[start:end], total, nil
}

func compareBy(field models.SortField, a, b models.ShortURL) int {
	switch field {
	case models.SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case models.SortByClickCount:
		return cmp.Compare(a.ClickCount, b.ClickCount)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (m *MemoryRepository) SaveShortURL(_ context.Context, s *models.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.shortURLs[s.ID]
	if !ok || stored.IsDeleted() {
		return ErrNotFound
	}

	updated := copyShortURL(stored)
	updated.OriginalURL = s.OriginalURL
	updated.UpdatedAt = s.UpdatedAt
	if s.DeletedAt != nil {
		t := *s.DeletedAt
		updated.DeletedAt = &t
	} else {
		updated.DeletedAt = nil
	}
	m.shortURLs[s.ID] = updated

	return nil
}

func (m *MemoryRepository) IncrementClicks(_ context.Context, shortCode string, at time.Time) (*models.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.activeByCode(shortCode)
	if !ok {
		return nil, ErrNotFound
	}

	s.ClickCount++
	s.UpdatedAt = at

	return copyShortURL(s), nil
}

func (m *MemoryRepository) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emailIndex[u.Email]; exists {
		return ErrEmailConflict
	}

	c := *u
	m.users[u.ID] = &c
	m.emailIndex[u.Email] = u.ID

	return nil
}

func (m *MemoryRepository) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[email]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m.users[id]
	return &c, nil
}

func (m *MemoryRepository) FindUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}

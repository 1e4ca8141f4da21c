package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/models"
	"github.com/mmeshcher/shortener-api/internal/repository"
)

// createAttempts bounds how many times Create re-runs allocate+insert after
// losing a short code to a concurrent insert.
const createAttempts = 3

type ShortenerService struct {
	repo      ShortURLRepository
	allocator *CodeAllocator
	clock     Clock
	logger    *zap.Logger
}

func NewShortenerService(repo ShortURLRepository, clock Clock, logger *zap.Logger) *ShortenerService {
	return &ShortenerService{
		repo:      repo,
		allocator: NewCodeAllocator(repo, logger),
		clock:     clock,
		logger:    logger,
	}
}

// Create stores a new short URL for originalURL. ownerID is empty for anonymous links.
func (s *ShortenerService) Create(ctx context.Context, originalURL, ownerID string) (*models.ShortURL, error) {
	var lastErr error

	for attempt := 1; attempt <= createAttempts; attempt++ {
		code, err := s.allocator.Allocate(ctx, DefaultMaxAttempts)
		if err != nil {
			return nil, err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate id: %w", err)
		}

		now := s.clock.Now()
		shortURL := &models.ShortURL{
			ID:          id.String(),
			OriginalURL: originalURL,
			ShortCode:   code,
			UserID:      ownerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = s.repo.CreateShortURL(ctx, shortURL)
		if err == nil {
			s.logger.Info("Short URL created",
				zap.String("shortCode", code),
				zap.String("userID", ownerID))
			return shortURL, nil
		}

		if !errors.Is(err, repository.ErrShortCodeConflict) {
			return nil, storageError("create short url", err)
		}

		s.logger.Warn("Short code taken by concurrent insert, retrying",
			zap.String("shortCode", code),
			zap.Int("attempt", attempt))
		lastErr = err
	}

	return nil, storageError("create short url", lastErr)
}

// Resolve records a click on an active short URL and returns the updated record.
func (s *ShortenerService) Resolve(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	shortURL, err := s.repo.IncrementClicks(ctx, shortCode, s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("increment clicks", err)
	}

	return shortURL, nil
}

func (s *ShortenerService) Update(ctx context.Context, shortCode, newURL, requesterID string) (*models.ShortURL, error) {
	shortURL, err := s.findOwned(ctx, shortCode, requesterID)
	if err != nil {
		return nil, err
	}

	shortURL.OriginalURL = newURL
	shortURL.UpdatedAt = s.clock.Now()

	if err := s.save(ctx, shortURL); err != nil {
		return nil, err
	}

	s.logger.Info("Short URL updated", zap.String("shortCode", shortCode))
	return shortURL, nil
}

// Delete marks the short URL as deleted. The row stays in storage.
func (s *ShortenerService) Delete(ctx context.Context, shortCode, requesterID string) error {
	shortURL, err := s.findOwned(ctx, shortCode, requesterID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	shortURL.UpdatedAt = now
	shortURL.DeletedAt = &now

	if err := s.save(ctx, shortURL); err != nil {
		return err
	}

	s.logger.Info("Short URL deleted", zap.String("shortCode", shortCode))
	return nil
}

// findOwned returns the active record only when requesterID owns it.
// Records owned by someone else are reported as missing.
func (s *ShortenerService) findOwned(ctx context.Context, shortCode, requesterID string) (*models.ShortURL, error) {
	shortURL, err := s.repo.FindShortURLByCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("find short url", err)
	}

	if !shortURL.IsOwnedBy(requesterID) {
		return nil, ErrNotFound
	}

	return shortURL, nil
}

func (s *ShortenerService) save(ctx context.Context, shortURL *models.ShortURL) error {
	if err := s.repo.SaveShortURL(ctx, shortURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return storageError("save short url", err)
	}
	return nil
}

// FindByID returns a record by id, soft-deleted records included.
func (s *ShortenerService) FindByID(ctx context.Context, id string) (*models.ShortURL, error) {
	shortURL, err := s.repo.FindShortURLByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("find short url by id", err)
	}
	return shortURL, nil
}

func (s *ShortenerService) List(ctx context.Context, ownerID string, params models.ListParams) (*models.ShortURLPage, error) {
	params, err := NormalizeListParams(params)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.ListShortURLsByUser(ctx, ownerID, params)
	if err != nil {
		return nil, storageError("list short urls", err)
	}

	return &models.ShortURLPage{
		Items:      items,
		Pagination: Paginate(params.Page, params.Limit, total),
	}, nil
}

// NormalizeListParams fills zero values with defaults and rejects values out of range.
func NormalizeListParams(p models.ListParams) (models.ListParams, error) {
	if p.Page == 0 {
		p.Page = models.DefaultPage
	}
	if p.Limit == 0 {
		p.Limit = models.DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = models.SortByCreatedAt
	}
	if p.SortOrder == "" {
		p.SortOrder = models.SortDesc
	}

	switch {
	case p.Page < 1:
		return p, fmt.Errorf("%w: page must be at least 1", ErrInvalidListParams)
	case p.Limit < 1 || p.Limit > models.MaxLimit:
		return p, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidListParams, models.MaxLimit)
	case p.Page-1 > math.MaxInt/p.Limit:
		return p, fmt.Errorf("%w: page is out of range", ErrInvalidListParams)
	case !p.SortBy.Valid():
		return p, fmt.Errorf("%w: unsupported sortBy %q", ErrInvalidListParams, p.SortBy)
	case !p.SortOrder.Valid():
		return p, fmt.Errorf("%w: unsupported sortOrder %q", ErrInvalidListParams, p.SortOrder)
	}

	return p, nil
}

// Paginate builds page metadata. A total of zero gives zero pages and no neighbours.
func Paginate(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}

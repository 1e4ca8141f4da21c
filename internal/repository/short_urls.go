package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mmeshcher/shortener-api/internal/models"
)

const shortURLsTable = "short_urls"

var shortURLColumns = []string{
	"id::text",
	"original_url",
	"short_code",
	"user_id::text",
	"click_count",
	"created_at",
	"updated_at",
	"deleted_at",
}

var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt:  "created_at",
	models.SortByUpdatedAt:  "updated_at",
	models.SortByClickCount: "click_count",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShortURL(row rowScanner) (*models.ShortURL, error) {
	var (
		s         models.ShortURL
		userID    pgtype.Text
		deletedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&s.ID,
		&s.OriginalURL,
		&s.ShortCode,
		&userID,
		&s.ClickCount,
		&s.CreatedAt,
		&s.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		s.UserID = userID.String
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		s.DeletedAt = &t
	}

	return &s, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (p *PostgresRepository) CreateShortURL(ctx context.Context, s *models.ShortURL) error {
	query, args, err := p.sb.
		Insert(shortURLsTable).
		Columns("id", "original_url", "short_code", "user_id", "click_count", "created_at", "updated_at", "deleted_at").
		Values(s.ID, s.OriginalURL, s.ShortCode, nullable(s.UserID), s.ClickCount, s.CreatedAt, s.UpdatedAt, s.DeletedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == shortCodeConstraint {
			return ErrShortCodeConflict
		}
		return fmt.Errorf("execute query: %w", err)
	}

	return nil
}

// ShortCodeExists checks every row, soft-deleted ones included.
func (p *PostgresRepository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	query, args, err := p.sb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(shortURLsTable).
		Where(squirrel.Eq{"short_code": shortCode}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists bool
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("query row: %w", err)
	}

	return exists, nil
}

func (p *PostgresRepository) FindShortURLByCode(ctx context.Context, shortCode string) (*models.ShortURL, error) {
	return p.findOne(ctx, squirrel.Eq{"short_code": shortCode, "deleted_at": nil})
}

func (p *PostgresRepository) FindShortURLByID(ctx context.Context, id string) (*models.ShortURL, error) {
	return p.findOne(ctx, squirrel.Eq{"id": id})
}

func (p *PostgresRepository) findOne(ctx context.Context, where squirrel.Eq) (*models.ShortURL, error) {
	query, args, err := p.sb.
		Select(shortURLColumns...).
		From(shortURLsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s, err := scanShortURL(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}

	return s, nil
}

func (p *PostgresRepository) FindShortURLsByUser(ctx context.Context, userID string) ([]models.ShortURL, error) {
	query, args, err := p.sb.
		Select(shortURLColumns...).
		From(shortURLsTable).
		Where(squirrel.Eq{"user_id": userID, "deleted_at": nil}).
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return p.queryShortURLs(ctx, query, args)
}

func (p *PostgresRepository) ListShortURLsByUser(ctx context.Context, userID string, params models.ListParams) ([]models.ShortURL, int, error) {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort field %q", params.SortBy)
	}
	if params.Limit < 1 || params.Offset() < 0 {
		return nil, 0, fmt.Errorf("page %d with limit %d is out of range", params.Page, params.Limit)
	}
	direction := "DESC"
	if params.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	where := squirrel.Eq{"user_id": userID, "deleted_at": nil}

	countQuery, countArgs, err := p.sb.
		Select("COUNT(*)").
		From(shortURLsTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int64
	if err := p.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rows: %w", err)
	}

	if total == 0 {
		return []models.ShortURL{}, 0, nil
	}

	query, args, err := p.sb.
		Select(shortURLColumns...).
		From(shortURLsTable).
		Where(where).
		OrderBy(strings.Join([]string{column, direction}, " "), "id ASC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	items, err := p.queryShortURLs(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}

	return items, int(total), nil
}

func (p *PostgresRepository) queryShortURLs(ctx context.Context, query string, args []any) ([]models.ShortURL, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query short urls: %w", err)
	}
	defer rows.Close()

	result := make([]models.ShortURL, 0)
	for rows.Next() {
		s, err := scanShortURL(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// SaveShortURL persists the mutable fields of an active record.
// A record soft-deleted since it was read is left untouched and reported as ErrNotFound.
func (p *PostgresRepository) SaveShortURL(ctx context.Context, s *models.ShortURL) error {
	query, args, err := p.sb.
		Update(shortURLsTable).
		Set("original_url", s.OriginalURL).
		Set("updated_at", s.UpdatedAt).
		Set("deleted_at", s.DeletedAt).
		Where(squirrel.Eq{"id": s.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	cmdTag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementClicks bumps click_count in a single statement so concurrent redirects never lose updates.
func (p *PostgresRepository) IncrementClicks(ctx context.Context, shortCode string, at time.Time) (*models.ShortURL, error) {
	query, args, err := p.sb.
		Update(shortURLsTable).
		Set("click_count", squirrel.Expr("click_count + 1")).
		Set("updated_at", at).
		Where(squirrel.Eq{"short_code": shortCode, "deleted_at": nil}).
		Suffix("RETURNING " + strings.Join(shortURLColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	s, err := scanShortURL(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}

	return s, nil
}

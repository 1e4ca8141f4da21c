package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/shortener-api/internal/models"
)

const usersTable = "users"

var userColumns = []string{"id::text", "name", "email", "password", "created_at", "updated_at"}

func (p *PostgresRepository) CreateUser(ctx context.Context, u *models.User) error {
	query, args, err := p.sb.
		Insert(usersTable).
		Columns("id", "name", "email", "password", "created_at", "updated_at").
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == emailConstraint {
			return ErrEmailConflict
		}
		return fmt.Errorf("execute query: %w", err)
	}

	return nil
}

func (p *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return p.findUser(ctx, squirrel.Eq{"email": email})
}

func (p *PostgresRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return p.findUser(ctx, squirrel.Eq{"id": id})
}

func (p *PostgresRepository) findUser(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query, args, err := p.sb.
		Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u models.User
	err = p.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query row: %w", err)
	}

	return &u, nil
}

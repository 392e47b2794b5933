package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/database"
	"catalog-service/internal/errs"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user and sets its ID and timestamps. A duplicate username
// yields errs.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *database.User) error {
	now := time.Now().UTC()
	query := `
        INSERT INTO users (username, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, now, now).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", user.Username, errs.ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*database.User, error) {
	query := `
        SELECT id, username, password_hash, created_at, updated_at
        FROM users
        WHERE username = $1
    `
	return r.scanOne(ctx, query, username)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg interface{}) (*database.User, error) {
	var user database.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	return &user, nil
}

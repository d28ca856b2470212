package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resume-builder/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a user; a duplicate email yields ErrEmailTaken.
func (r *PGRepo) Create(ctx context.Context, user User) (int64, error) {
	const query = `
INSERT INTO users (full_name, email, password)
VALUES ($1, $2, $3)
RETURNING user_id`
	var id int64
	err := r.DB.QueryRowContext(ctx, query, user.FullName, user.Email, user.PasswordHash).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID int64) (User, error) {
	const query = `
SELECT user_id, full_name, email, password, created_at
FROM users
WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT user_id, full_name, email, password, created_at
FROM users
WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PGRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)

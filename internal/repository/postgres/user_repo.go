package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// ExistsByUsernameOrEmail reports whether the username or the email is taken.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1 OR email=$2)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, username, email).Scan(&exists); err != nil {
		return false, errs.Storage("users exists", err)
	}
	return exists, nil
}

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, email, pwd_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Username, u.Email, u.PwdHash, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return errs.Storage("users insert", err)
}

// GetByUsernameOrEmail selects a user whose username or email equals identifier.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	const q = `
SELECT id, username, email, pwd_hash, created_at, updated_at
FROM users WHERE username=$1 OR email=$1
LIMIT 1`
	var u model.User
	err := r.db.Pool.QueryRow(ctx, q, identifier).
		Scan(&u.ID, &u.Username, &u.Email, &u.PwdHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("users select", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

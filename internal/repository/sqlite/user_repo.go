package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
)

// UserRepo implements UserRepository on SQLite.
type UserRepo struct{ s *Store }

// NewUserRepo constructs a user repository.
func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

// ExistsByUsernameOrEmail reports whether the username or the email is taken.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username = ? OR email = ?)`
	var exists bool
	if err := r.s.db.QueryRowContext(ctx, q, username, email).Scan(&exists); err != nil {
		return false, errs.Storage("users exists", err)
	}
	return exists, nil
}

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, username, email, pwd_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.s.db.ExecContext(ctx, q,
		u.ID, u.Username, u.Email, u.PwdHash, toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return errs.Storage("users insert", err)
}

// GetByUsernameOrEmail selects a user whose username or email equals identifier.
func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	const q = `
SELECT id, username, email, pwd_hash, created_at, updated_at
FROM users WHERE username = ?1 OR email = ?1
LIMIT 1`
	var (
		u                model.User
		created, updated int64
	)
	err := r.s.db.QueryRowContext(ctx, q, identifier).
		Scan(&u.ID, &u.Username, &u.Email, &u.PwdHash, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Storage("users select", err)
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return &u, nil
}

// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/task-keeper/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// ExistsByUsernameOrEmail reports whether any user holds the username or the email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	// Create inserts a new user. A taken username or email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	// GetByUsernameOrEmail loads the user whose username or email equals identifier.
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
}

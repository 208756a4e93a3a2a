// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects an issued access token.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for clients caching the token)
}

// Identity is the verified principal carried by an access token.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// User represents an account stored on the server. The password is stored only as a bcrypt digest.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	Email     string    // unique
	PwdHash   string    // bcrypt digest
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View strips the password digest.
func (u User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserView is the externally visible part of a user.
type UserView struct {
	ID        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Registration is a sign-up request.
type Registration struct {
	Username string `validate:"required,min=3,max=64,username"`
	Email    string `validate:"required,max=254,email"`
	Password string `validate:"required"`
}

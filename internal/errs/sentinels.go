// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation")

	// ErrWeakPassword indicates a password that does not satisfy the password policy.
	ErrWeakPassword = fmt.Errorf("%w: weak password", ErrValidation)

	// ErrNotFound indicates the requested entity does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (username or email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication (unknown user or wrong password).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken indicates a token with a bad signature, shape or claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a token whose expiry has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrStorage indicates a persistence failure. The cause is kept for logs only.
	ErrStorage = errors.New("storage failure")
)

// Validation returns an ErrValidation carrying a human readable reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Storage wraps a persistence failure as ErrStorage while keeping the cause
// reachable for errors.Is (e.g. context.Canceled).
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// IsUnauthenticated reports whether err should be surfaced as "unauthenticated".
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken)
}

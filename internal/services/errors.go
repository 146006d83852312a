package services

import (
	"errors"
	"fmt"

	"foodgram/internal/repositories"
)

var (
	// ErrNotFound is returned when a recipe, user, catalog entry or relation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateRelation is returned when a favorite, cart entry or follow already exists.
	ErrDuplicateRelation = errors.New("already exists")
	// ErrPermissionDenied is returned when the actor is neither the author nor an admin.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot subscribe to yourself")
	// ErrUnauthenticated is returned when an operation needs an identified actor.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrUserExists is returned on registration with a taken username or email.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed or out-of-range input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// lookupErr maps a repository not-found condition to ErrNotFound and wraps anything else.
func lookupErr(what string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

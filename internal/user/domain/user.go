// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sessions/internal/errors"
)

// User is a registered account. Username is the token subject.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string // Argon2id hash, never the plain password
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterUserInput contains the input data for user registration.
type RegisterUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same username or email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username already registered")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrInvalidCredentials indicates the username and password pair did not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)

// Package domain defines domain-level errors for the auth feature.
package domain

import "task_backend/internal/platform/apperr"

// Validation errors returned by registration and login.
var (
	ErrCredentialsRequired = apperr.New(apperr.InvalidInput, "Email and password are required")
	ErrInvalidEmail        = apperr.New(apperr.InvalidInput, "Please enter a valid email address")
	ErrPasswordTooShort    = apperr.New(apperr.InvalidInput, "Password must be at least 6 characters long")
)

var (
	// ErrUserAlreadyExists indicates that a user with the given email already exists.
	// Stores return it when the unique email constraint rejects an insert.
	ErrUserAlreadyExists = apperr.New(apperr.Conflict, "User with this email already exists")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = apperr.New(apperr.InvalidCredentials, "Invalid email or password")
)

// Authentication gate errors. All three surface as 401; the caller cannot
// tell them apart by status.
var (
	ErrNoToken      = apperr.New(apperr.Unauthenticated, "No token provided")
	ErrInvalidToken = apperr.New(apperr.Unauthenticated, "Invalid or expired token")

	// ErrUserNotFound is returned by stores when no user matches, and by the
	// gate when a token's subject has been deleted.
	ErrUserNotFound = apperr.New(apperr.Unauthenticated, "User not found")
)

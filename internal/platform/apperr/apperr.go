// Package apperr defines the error taxonomy shared by every feature.
//
// Each fallible operation returns an error that carries exactly one Kind.
// The HTTP boundary maps the kind to a status code and a public message;
// errors that carry no kind are treated as Internal.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// Internal is an unexpected fault. Its detail is never shown to the caller.
	Internal Kind = iota
	// InvalidInput means a field is missing or malformed.
	InvalidInput
	// Conflict means a unique key is already taken.
	Conflict
	// InvalidCredentials means login failed. Unknown email and wrong
	// password are deliberately the same.
	InvalidCredentials
	// Unauthenticated means the bearer token is missing, invalid, expired,
	// or its subject no longer exists.
	Unauthenticated
	// NotFound means the resource does not exist or is not owned by the caller.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case InvalidCredentials:
		return "invalid_credentials"
	case Unauthenticated:
		return "unauthenticated"
	case NotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is an error tagged with a Kind and a message that is safe to return
// to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns a sentinel error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags err with a kind and a public message. The wrapped error stays
// reachable through errors.Is / errors.As.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of err. Untagged errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// PublicMessage returns the message that may be shown to the client.
// Internal faults always collapse to a generic message.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "Internal server error"
}

// HTTPStatus maps a kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case InvalidCredentials, Unauthenticated:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

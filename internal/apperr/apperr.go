// Package apperr defines the error taxonomy shared by all request paths.
// Handlers map kinds to HTTP statuses in one place instead of sprinkling
// status codes through the service layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for boundary reporting.
type Kind int

const (
	// Server is the catch-all for unexpected faults.
	Server Kind = iota
	// Unauthorized covers missing, malformed, or unverifiable credentials.
	Unauthorized
	// NotFound covers missing users and recipes.
	NotFound
	// Validation covers request bodies that fail schema checks.
	Validation
	// RateLimited signals an admission-control rejection.
	RateLimited
	// GenerationService covers faults from the text or image provider,
	// including an image call that yields zero results.
	GenerationService
	// Persistence covers datastore write/read failures.
	Persistence
)

// Error is a kind-tagged error that optionally wraps a cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, defaulting to Server for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Server
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code reported at the boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case RateLimited:
		return http.StatusTooManyRequests
	case GenerationService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible message for err. Unexpected faults are
// masked with a generic message; their detail belongs in logs only.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Server && e.Kind != Persistence {
		return e.Msg
	}
	return "Server Error"
}

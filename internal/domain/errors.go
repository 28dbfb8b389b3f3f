package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource conflict")
)

// Error pairs an error kind with a caller-visible message, so flows that must
// distinguish cases of the same kind (e.g. "Email already registered" vs
// "Account already exists via SSO") can surface the right text at the boundary.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Conflictf returns a Conflict-kind error with the given message.
func Conflictf(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// NotFoundf returns a NotFound-kind error with the given message.
func NotFoundf(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Unauthorizedf returns an Unauthorized-kind error with the given message.
func Unauthorizedf(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// Invalidf returns an InvalidInput-kind error with the given message.
func Invalidf(msg string) error { return &Error{Kind: ErrInvalidInput, Message: msg} }

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

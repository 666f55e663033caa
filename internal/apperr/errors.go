// Package apperr holds the error kinds shared by the stores, the services,
// the HTTP layer and the API client.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Compare with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrTransient    = errors.New("temporarily unavailable")
	ErrTooLarge     = errors.New("request body is too large")
)

// Error is a user-facing failure of a known kind.
type Error struct {
	Kind    error
	Message string
	// Fields maps an input field to the reason it was rejected.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New returns an *Error of the given kind.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation returns a validation error with per-field reasons.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// Kind reports which of the known kinds err belongs to, or nil when it is an
// unexpected failure.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrConflict, ErrUnauthorized, ErrNotFound, ErrTransient, ErrTooLarge} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the user-facing message carried by err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	if k := Kind(err); k != nil {
		return k.Error()
	}
	return "something went wrong"
}

// FieldErrors returns the per-field reasons carried by err, if any.
func FieldErrors(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Package apperror holds the two error kinds every service returns.
//
// A Standard error is caused by the caller (missing input, broken business
// rule) and its message is safe to show. An Internal error wraps an
// unexpected lower-layer failure; only a generic message reaches clients and
// the cause is kept for logging.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Kind int

const (
	KindStandard Kind = iota
	KindInternal
)

func (k Kind) String() string {
	if k == KindInternal {
		return "internal"
	}
	return "standard"
}

// Error is the application error carried from services to the HTTP layer.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Data       map[string]any
	Cause      error
	At         time.Time
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Standard builds a client-input error with status 400.
func Standard(msg string, data map[string]any) *Error {
	return &Error{Kind: KindStandard, Message: msg, StatusCode: http.StatusBadRequest, Data: data, At: time.Now().UTC()}
}

// WithStatus overrides the HTTP status of a standard error.
func (e *Error) WithStatus(code int) *Error {
	e.StatusCode = code
	return e
}

func NotFound(msg string, data map[string]any) *Error {
	return Standard(msg, data).WithStatus(http.StatusNotFound)
}

func Conflict(msg string, data map[string]any) *Error {
	return Standard(msg, data).WithStatus(http.StatusConflict)
}

func Unauthorized(msg string, data map[string]any) *Error {
	return Standard(msg, data).WithStatus(http.StatusUnauthorized)
}

func Forbidden(msg string, data map[string]any) *Error {
	return Standard(msg, data).WithStatus(http.StatusForbidden)
}

// Internal builds a 500 error around cause.
func Internal(msg string, cause error, data map[string]any) *Error {
	return &Error{Kind: KindInternal, Message: msg, StatusCode: http.StatusInternalServerError, Data: data, Cause: cause, At: time.Now().UTC()}
}

// Wrap returns err untouched when it already is an *Error anywhere in its
// chain, so a failure is classified once by the layer that first saw it.
// Anything else becomes an Internal error with err as the cause.
func Wrap(err error, msg string, data map[string]any) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(msg, err, data)
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsStandard reports whether err carries a client-input error.
func IsStandard(err error) bool {
	ae, ok := As(err)
	return ok && ae.Kind == KindStandard
}

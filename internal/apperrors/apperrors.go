// Package apperrors defines the error taxonomy shared by the chat core and its
// transports. Every error leaving internal/chat is an *AppError (or wraps one).
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.
type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindAccessDenied Kind = "ACCESS_DENIED"
	KindNotFound     Kind = "NOT_FOUND"
	// KindConflict is raised by the storage layer on unique violations. The chat
	// service resolves it internally; it should never reach a client.
	KindConflict    Kind = "CONFLICT"
	KindUnavailable Kind = "UNAVAILABLE"
	KindInternal    Kind = "INTERNAL_ERROR"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status a transport should use for this error.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindAccessDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func InvalidInput(message string) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: message}
}

func AccessDenied(message string) *AppError {
	return &AppError{Kind: KindAccessDenied, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Err: err}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{Kind: KindUnavailable, Message: message, Err: err}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// Is reports whether any error in err's chain is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// From returns the AppError in err's chain, or wraps err as an internal error.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

// HTTPStatus returns the status code for any error; foreign errors map to 500.
func HTTPStatus(err error) int {
	return From(err).Status()
}

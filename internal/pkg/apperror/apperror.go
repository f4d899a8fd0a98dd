package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the client. The HTTP status code follows from it.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindStore        Kind = "store"
	KindAuthRequired Kind = "auth_required"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Kind    Kind   // Error taxonomy bucket
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match sentinel AppErrors by identity or by kind+message,
// so a wrapped copy of a sentinel still matches it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e == t || (e.Kind == t.Kind && e.Message == t.Message)
}

// New creates a new AppError with a status code and message.
// The kind is derived from the status code.
func New(code int, message string) *AppError {
	return &AppError{
		Kind:    kindFromCode(code),
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Kind:    kindFromCode(code),
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports bad input caught before any store call.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Code: http.StatusBadRequest, Message: message}
}

// Conflict reports a reservation overlap or a duplicate membership.
func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Code: http.StatusConflict, Message: message}
}

// Forbidden reports an action the caller's capabilities do not allow.
func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: http.StatusForbidden, Message: message}
}

// NotFound reports a missing record.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: http.StatusNotFound, Message: message}
}

// AuthRequired reports a missing or invalid session.
func AuthRequired(message string) *AppError {
	return &AppError{Kind: KindAuthRequired, Code: http.StatusUnauthorized, Message: message}
}

// Store wraps a backend failure. The underlying message is kept visible to the user.
func Store(err error, action string) *AppError {
	return &AppError{
		Kind:    KindStore,
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("%s: %v", action, err),
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindStore for errors that are not AppErrors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStore
}

func kindFromCode(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnauthorized:
		return KindAuthRequired
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindStore
	}
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so controllers can map it to an HTTP status
// without inspecting error strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindValidation
	KindUnauthorized
	KindForbidden
	KindUnavailable
)

// Error is a domain error with a classification and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound creates a not-found error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// InvalidState creates an error for operations attempted in the wrong state.
func InvalidState(message string) *Error { return New(KindInvalidState, message) }

// Conflict creates an error for lost races on shared records.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Validation creates an error for rejected input.
func Validation(message string) *Error { return New(KindValidation, message) }

// Unauthorized creates an error for failed authentication.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// Forbidden creates an error for insufficient permissions.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// Unavailable creates an error for unreachable backing services.
func Unavailable(message string) *Error { return New(KindUnavailable, message) }

// KindOf extracts the Kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether the error chain carries KindNotFound.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether the error chain carries KindConflict.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// HTTPStatus maps an error to the HTTP status code controllers should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode maps an error to the short machine-readable code used in
// API response envelopes.
func StatusCode(err error) string {
	switch KindOf(err) {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindConflict:
		return "CONFLICT"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a caller-visible error category. The string values are part
// of the API contract and are returned verbatim in response bodies.
type Code string

const (
	CodeUnauthenticated  Code = "unauthenticated"
	CodePermissionDenied Code = "permission-denied"
	CodeInvalidArgument  Code = "invalid-argument"
	CodeAlreadyExists    Code = "already-exists"
	CodeNotFound         Code = "not-found"
	CodeInternal         Code = "internal"
)

// Error is a typed application error with a fixed code and a human-readable message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated creates an unauthenticated error.
func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }

// PermissionDenied creates a permission-denied error.
func PermissionDenied(message string) *Error { return New(CodePermissionDenied, message) }

// InvalidArgument creates an invalid-argument error.
func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

// AlreadyExists creates an already-exists error.
func AlreadyExists(message string) *Error { return New(CodeAlreadyExists, message) }

// NotFound creates a not-found error.
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// Internal creates an internal error with a generic message so details never
// leak to callers.
func Internal() *Error { return New(CodeInternal, "something went wrong") }

// HTTPStatus returns the HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// From extracts an *Error from err, or wraps it as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal()
}

// Package apperr provides the typed error taxonomy shared by the service
// and storage layers and its mapping to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of application error.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeAuth       Code = "AUTH_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error is an application error with a code and a user-safe message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap wraps an existing error with a code and a user-safe message.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Validation is shorthand for a VALIDATION_ERROR.
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// NotFound is shorthand for a NOT_FOUND error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Auth is shorthand for an AUTH_ERROR.
func Auth(message string) *Error {
	return New(CodeAuth, message)
}

// Conflict is shorthand for a CONFLICT error.
func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// Internal wraps an unexpected failure. The message is what clients see;
// the wrapped error stays server-side.
func Internal(err error) *Error {
	return Wrap(CodeInternal, "internal error", err)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// HTTPStatus maps an error to the status code the API boundary responds with.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAuth:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the user-safe message for err. Errors outside the
// taxonomy never leak their text to clients.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return e.Message
	}
	return "internal error"
}

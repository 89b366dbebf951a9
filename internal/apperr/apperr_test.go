package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(CodeNotFound, "note not found")
	assert.Equal(t, "[NOT_FOUND] note not found", plain.Error())

	wrapped := Wrap(CodeInternal, "query failed", errors.New("disk I/O error"))
	assert.Equal(t, "[INTERNAL_ERROR] query failed: disk I/O error", wrapped.Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("no such table")
	err := Wrap(CodeInternal, "query failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIs(t *testing.T) {
	err := Validation("title is required")
	assert.True(t, Is(err, CodeValidation))
	assert.False(t, Is(err, CodeNotFound))
	assert.False(t, Is(errors.New("plain"), CodeValidation))

	// Is sees through wrapping.
	assert.True(t, Is(fmt.Errorf("create note: %w", err), CodeValidation))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Auth("invalid or missing token"), http.StatusUnauthorized},
		{NotFound("category not found"), http.StatusNotFound},
		{Conflict("email already registered"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "for %v", tt.err)
	}
}

func TestUserMessageNeverLeaksInternals(t *testing.T) {
	assert.Equal(t, "internal error", UserMessage(Internal(errors.New("password_hash column missing"))))
	assert.Equal(t, "internal error", UserMessage(errors.New("stack trace here")))
	assert.Equal(t, "invalid credentials", UserMessage(Auth("invalid credentials")))
}

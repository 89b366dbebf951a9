package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notamente/backend/internal/apperr"
)

func TestWriteErrorUsesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req = req.WithContext(context.WithValue(req.Context(), loggerKey, log))
	rec := httptest.NewRecorder()

	writeError(rec, req, apperr.Internal(errors.New("disk full")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The cause lands in the injected logger, never in the response.
	assert.Contains(t, buf.String(), "request failed")
	assert.Contains(t, buf.String(), "disk full")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal error", body["error"])
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestWriteErrorSkipsLoggingClientErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req = req.WithContext(context.WithValue(req.Context(), loggerKey, log))
	rec := httptest.NewRecorder()

	writeError(rec, req, apperr.NotFound("note not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, buf.Len())
}

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/notamente/backend/internal/auth"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/events"
)

// newTestStack boots the full router over an in-memory database and
// returns the event hub alongside, for tests that watch the feed.
func newTestStack(t *testing.T) (*httptest.Server, *events.Hub) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.NewMigrator(sqlDB).Up())

	repo := db.NewRepository(sqlDB)
	t.Cleanup(func() { repo.Close() })

	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenService("test-secret", 0)
	authSvc := auth.NewService(repo, hasher, tokens)
	guard := NewGuard(tokens)

	log := logrus.New()
	log.SetOutput(io.Discard)
	hub := events.NewHub(log)

	srv := httptest.NewServer(NewRouter(repo, authSvc, guard, hub, log))
	t.Cleanup(srv.Close)
	return srv, hub
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, _ := newTestStack(t)
	return srv
}

// request sends a JSON request and decodes the JSON response body.
func request(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

// registerAndLogin creates a fresh user and returns a session token.
func registerAndLogin(t *testing.T, srv *httptest.Server, name, email, password string) string {
	t.Helper()

	status, _ := request(t, srv, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := request(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "body: %v", body)
	return d
}

func dataList(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	d, ok := body["data"].([]interface{})
	require.True(t, ok, "body: %v", body)
	return d
}

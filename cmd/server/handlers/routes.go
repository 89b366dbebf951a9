package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/notamente/backend/internal/auth"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/events"
)

// NewRouter wires every route. All entity routes sit behind the guard;
// only registration, login, and the health check are open.
func NewRouter(repo *db.Repository, authSvc *auth.Service, guard *Guard, hub *events.Hub, log *logrus.Logger) http.Handler {
	authHandler := NewAuthHandler(authSvc, repo)
	categoryHandler := NewCategoryHandler(repo, hub)
	noteHandler := NewNoteHandler(repo, hub)
	wsHandler := NewWSHandler(guard, hub)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/me", guard.Require(authHandler.Me))

	mux.HandleFunc("GET /categories", guard.Require(categoryHandler.List))
	mux.HandleFunc("POST /categories", guard.Require(categoryHandler.Create))
	mux.HandleFunc("PUT /categories/{id}", guard.Require(categoryHandler.Update))
	mux.HandleFunc("DELETE /categories/{id}", guard.Require(categoryHandler.Delete))

	mux.HandleFunc("GET /notes", guard.Require(noteHandler.List))
	mux.HandleFunc("POST /notes", guard.Require(noteHandler.Create))
	// The literal /notes/search pattern wins over /notes/{id}.
	mux.HandleFunc("GET /notes/search", guard.Require(noteHandler.Search))
	mux.HandleFunc("GET /notes/{id}", guard.Require(noteHandler.Get))
	mux.HandleFunc("PUT /notes/{id}", guard.Require(noteHandler.Update))
	mux.HandleFunc("DELETE /notes/{id}", guard.Require(noteHandler.Delete))
	mux.HandleFunc("GET /notes/{id}/export", guard.Require(noteHandler.Export))

	mux.HandleFunc("GET /ws", wsHandler.Connect)

	return RequestLogger(log, mux)
}

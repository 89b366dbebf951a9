package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/auth"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/models"
)

// AuthHandler serves registration, login, and the current-user lookup.
type AuthHandler struct {
	auth *auth.Service
	repo *db.Repository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc *auth.Service, repo *db.Repository) *AuthHandler {
	return &AuthHandler{auth: authSvc, repo: repo}
}

func publicUser(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "user created",
		"user":    publicUser(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Auth("invalid credentials"))
		return
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    publicUser(user),
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	user, err := h.repo.GetUser(caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    publicUser(user),
	})
}

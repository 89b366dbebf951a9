package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/events"
)

// CategoryHandler serves the owner-scoped category operations.
type CategoryHandler struct {
	repo *db.Repository
	hub  *events.Hub
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(repo *db.Repository, hub *events.Hub) *CategoryHandler {
	return &CategoryHandler{repo: repo, hub: hub}
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	categories, err := h.repo.ListCategories(caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, categories)
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Validation("invalid request body"))
		return
	}

	category, err := h.repo.CreateCategory(caller.UserID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.Publish(caller.UserID, events.EventCategoryCreated, category)
	writeData(w, http.StatusCreated, category)
}

// Update handles PUT /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	id := r.PathValue("id")

	var req struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Validation("invalid request body"))
		return
	}

	if err := h.repo.UpdateCategory(caller.UserID, id, db.CategoryPatch{Name: req.Name}); err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.Publish(caller.UserID, events.EventCategoryUpdated, map[string]string{"id": id})
	writeMessage(w, "category updated")
}

// Delete handles DELETE /categories/{id}. Soft delete: the record stays as
// a tombstone.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	id := r.PathValue("id")

	if err := h.repo.SoftDeleteCategory(caller.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.Publish(caller.UserID, events.EventCategoryDeleted, map[string]string{"id": id})
	writeMessage(w, "category deleted")
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/db"
	"github.com/notamente/backend/internal/events"
	"github.com/notamente/backend/internal/markdown"
	"github.com/notamente/backend/internal/models"
)

// NoteHandler serves the owner-scoped note operations, search, and export.
type NoteHandler struct {
	repo *db.Repository
	hub  *events.Hub
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(repo *db.Repository, hub *events.Hub) *NoteHandler {
	return &NoteHandler{repo: repo, hub: hub}
}

// List handles GET /notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	notes, err := h.repo.ListNotes(caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, notes)
}

// Create handles POST /notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	var req struct {
		Title      string  `json:"title"`
		Content    string  `json:"content"`
		Kind       string  `json:"kind"`
		CategoryID *string `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Validation("invalid request body"))
		return
	}

	note, err := h.repo.CreateNote(caller.UserID, req.Title, req.Content,
		models.NoteKind(req.Kind), req.CategoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.Publish(caller.UserID, events.EventNoteCreated, note)
	writeData(w, http.StatusCreated, note)
}

// Get handles GET /notes/{id}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	note, err := h.repo.GetNote(caller.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, note)
}

// Update handles PUT /notes/{id}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	id := r.PathValue("id")

	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		Kind       *string `json:"kind"`
		CategoryID *string `json:"category_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, apperr.Validation("invalid request body"))
		return
	}

	patch := db.NotePatch{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	}
	if req.Kind != nil {
		kind := models.NoteKind(*req.Kind)
		patch.Kind = &kind
	}

	if err := h.repo.UpdateNote(caller.UserID, id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.Publish(caller.UserID, events.EventNoteUpdated, map[string]string{"id": id})
	writeMessage(w, "note updated")
}

// Delete handles DELETE /notes/{id}. Soft delete: the record stays as a
// tombstone.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	id := r.PathValue("id")

	if err := h.repo.SoftDeleteNote(caller.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	h.hub.Publish(caller.UserID, events.EventNoteDeleted, map[string]string{"id": id})
	writeMessage(w, "note deleted")
}

// Search handles GET /notes/search?q=.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	notes, err := h.repo.SearchNotes(caller.UserID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, notes)
}

// Export handles GET /notes/{id}/export?format=markdown|html, returning the
// note as a downloadable document.
func (h *NoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	note, err := h.repo.GetNote(caller.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}

	switch format {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", note.ID+".md"))
		fmt.Fprint(w, markdown.ToMarkdown(note))
	case "html":
		rendered, err := markdown.ToHTML(note)
		if err != nil {
			writeError(w, r, apperr.Internal(err))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, rendered)
	default:
		writeError(w, r, apperr.Validation("unsupported export format"))
	}
}

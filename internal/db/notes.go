package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/models"
	"github.com/notamente/backend/internal/uuid"
)

// NotePatch carries a partial note update. Nil fields keep their prior
// value. A non-nil CategoryID is re-validated against the owner's visible
// categories; clearing a category reference is not supported.
type NotePatch struct {
	Title      *string
	Content    *string
	Kind       *models.NoteKind
	CategoryID *string
}

// noteColumns selects a note joined with its category reference. The join
// only resolves visible categories, so a note pointing at a soft-deleted
// category comes back with no category.
const noteColumns = `
	SELECT n.id, n.title, n.content, n.kind, n.category_id, n.owner_id,
		   n.created_at, n.updated_at, c.id, c.name
	FROM notes n
	LEFT JOIN categories c
		ON c.id = n.category_id AND c.owner_id = n.owner_id AND c.deleted_at IS NULL
`

func scanNote(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Note, error) {
	var n models.Note
	var categoryID, refID, refName sql.NullString
	err := scanner.Scan(&n.ID, &n.Title, &n.Content, &n.Kind, &categoryID,
		&n.OwnerID, &n.CreatedAt, &n.UpdatedAt, &refID, &refName)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		n.CategoryID = &categoryID.String
	}
	if refID.Valid {
		n.Category = &models.CategoryRef{ID: refID.String, Name: refName.String}
	}
	return &n, nil
}

// ListNotes returns the owner's non-deleted notes, most recently updated
// first.
func (r *Repository) ListNotes(ownerID string) ([]*models.Note, error) {
	query := noteColumns + `
	WHERE n.owner_id = ? AND n.deleted_at IS NULL
	ORDER BY n.updated_at DESC
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	rows, err := stmt.Query(ownerID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return notes, nil
}

// GetNote retrieves one of the owner's notes. A note that is absent,
// soft-deleted, or owned by someone else reports not found either way, so
// callers cannot probe for foreign ids.
func (r *Repository) GetNote(ownerID, id string) (*models.Note, error) {
	query := noteColumns + `
	WHERE n.id = ? AND n.owner_id = ? AND n.deleted_at IS NULL
	`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	note, err := scanNote(stmt.QueryRow(id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("note not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return note, nil
}

// CreateNote creates a note for the owner. A category reference must point
// at one of the owner's visible categories at write time; there is no live
// foreign key afterwards.
func (r *Repository) CreateNote(ownerID, title, content string, kind models.NoteKind, categoryID *string) (*models.Note, error) {
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if kind == "" {
		kind = models.KindPlain
	}
	if !kind.Valid() {
		return nil, apperr.Validation("invalid note kind")
	}
	if categoryID != nil {
		visible, err := r.categoryVisible(ownerID, *categoryID)
		if err != nil {
			return nil, err
		}
		if !visible {
			return nil, apperr.Validation("category not found")
		}
	}

	now := time.Now().Unix()
	note := &models.Note{
		ID:         uuid.New(),
		Title:      title,
		Content:    content,
		Kind:       kind,
		CategoryID: categoryID,
		OwnerID:    ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	query := `
	INSERT INTO notes (id, title, content, kind, category_id, owner_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	var catArg interface{}
	if categoryID != nil {
		catArg = *categoryID
	}
	if _, err := r.db.Exec(query, note.ID, note.Title, note.Content, note.Kind,
		catArg, note.OwnerID, note.CreatedAt, note.UpdatedAt); err != nil {
		return nil, apperr.Internal(err)
	}

	// Return with the resolved category reference.
	return r.GetNote(ownerID, note.ID)
}

// UpdateNote merges the patch into the owner's note. An empty patch still
// refreshes updated_at.
func (r *Repository) UpdateNote(ownerID, id string, patch NotePatch) error {
	if patch.Title != nil && *patch.Title == "" {
		return apperr.Validation("title is required")
	}
	if patch.Kind != nil && !patch.Kind.Valid() {
		return apperr.Validation("invalid note kind")
	}
	if patch.CategoryID != nil {
		visible, err := r.categoryVisible(ownerID, *patch.CategoryID)
		if err != nil {
			return err
		}
		if !visible {
			return apperr.Validation("category not found")
		}
	}

	set := "updated_at = ?"
	args := []interface{}{time.Now().Unix()}
	if patch.Title != nil {
		set += ", title = ?"
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		set += ", content = ?"
		args = append(args, *patch.Content)
	}
	if patch.Kind != nil {
		set += ", kind = ?"
		args = append(args, *patch.Kind)
	}
	if patch.CategoryID != nil {
		set += ", category_id = ?"
		args = append(args, *patch.CategoryID)
	}
	args = append(args, id, ownerID)

	query := `UPDATE notes SET ` + set + ` WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return apperr.Internal(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.NotFound("note not found")
	}
	return nil
}

// SoftDeleteNote tombstones the owner's note. A second delete reports not
// found, same as categories.
func (r *Repository) SoftDeleteNote(ownerID, id string) error {
	now := time.Now().Unix()
	query := `UPDATE notes SET deleted_at = ?, updated_at = ?
			  WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`
	result, err := r.db.Exec(query, now, now, id, ownerID)
	if err != nil {
		return apperr.Internal(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.NotFound("note not found")
	}
	return nil
}

package db

import (
	"time"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/models"
	"github.com/notamente/backend/internal/uuid"
)

// CategoryPatch carries a partial category update. Nil fields keep their
// prior value.
type CategoryPatch struct {
	Name *string
}

// ListCategories returns the owner's non-deleted categories ordered by name,
// each annotated with its live count of non-deleted notes.
func (r *Repository) ListCategories(ownerID string) ([]*models.Category, error) {
	query := `
	SELECT c.id, c.name, c.owner_id, c.created_at, c.updated_at,
		   (SELECT COUNT(*) FROM notes n
			WHERE n.category_id = c.id AND n.deleted_at IS NULL) AS note_count
	FROM categories c
	WHERE c.owner_id = ? AND c.deleted_at IS NULL
	ORDER BY c.name
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

	categories := []*models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt, &c.NoteCount); err != nil {
			return nil, apperr.Internal(err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// CreateCategory creates a new category for the owner.
func (r *Repository) CreateCategory(ownerID, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperr.Validation("name is required")
	}

	now := time.Now().Unix()
	category := &models.Category{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
	INSERT INTO categories (id, name, owner_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, category.ID, category.Name, category.OwnerID,
		category.CreatedAt, category.UpdatedAt); err != nil {
		return nil, apperr.Internal(err)
	}
	return category, nil
}

// UpdateCategory merges the patch into the owner's category. A provided but
// empty name is rejected; an empty patch still refreshes updated_at.
func (r *Repository) UpdateCategory(ownerID, id string, patch CategoryPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return apperr.Validation("name is required")
	}

	set := "updated_at = ?"
	args := []interface{}{time.Now().Unix()}
	if patch.Name != nil {
		set += ", name = ?"
		args = append(args, *patch.Name)
	}
	args = append(args, id, ownerID)

	query := `UPDATE categories SET ` + set + ` WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return apperr.Internal(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

// SoftDeleteCategory tombstones the owner's category. Deleting an already
// deleted category reports not found; the row is already invisible.
// Notes referencing the category keep their reference (it just stops
// resolving in lookups).
func (r *Repository) SoftDeleteCategory(ownerID, id string) error {
	now := time.Now().Unix()
	query := `UPDATE categories SET deleted_at = ?, updated_at = ?
			  WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`
	result, err := r.db.Exec(query, now, now, id, ownerID)
	if err != nil {
		return apperr.Internal(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

// categoryVisible reports whether the category exists, belongs to ownerID,
// and is not deleted. Used to validate note references at write time.
func (r *Repository) categoryVisible(ownerID, id string) (bool, error) {
	query := `SELECT COUNT(*) FROM categories WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`
	stmt, err := r.PrepareStmt(query)
	if err != nil {
		return false, apperr.Internal(err)
	}

	var count int
	if err := stmt.QueryRow(id, ownerID).Scan(&count); err != nil {
		return false, apperr.Internal(err)
	}
	return count > 0, nil
}

package db

import (
	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/models"
)

// SearchNotes returns the owner's non-deleted notes whose title or content
// contains the query, case-insensitively. This is a plain substring match,
// not tokenized or ranked, and the full matching set comes back ordered by
// updated_at descending.
func (r *Repository) SearchNotes(ownerID, query string) ([]*models.Note, error) {
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}

	// instr over lower() sidesteps LIKE wildcard escaping. lower() folds
	// ASCII only, which matches SQLite's own LIKE behavior.
	sqlQuery := noteColumns + `
	WHERE n.owner_id = ? AND n.deleted_at IS NULL
	  AND (instr(lower(n.title), lower(?)) > 0 OR instr(lower(n.content), lower(?)) > 0)
	ORDER BY n.updated_at DESC
	`
	stmt, err := r.PrepareStmt(sqlQuery)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	rows, err := stmt.Query(ownerID, query, query)
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

package models

import "time"

// NoteKind distinguishes plain-text notes from markdown ones.
type NoteKind string

const (
	KindPlain    NoteKind = "PLAIN"
	KindMarkdown NoteKind = "MARKDOWN"
)

// Valid reports whether k is a known note kind.
func (k NoteKind) Valid() bool {
	return k == KindPlain || k == KindMarkdown
}

// CategoryRef is the minimal category shape embedded in note responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Note is an owner-scoped note. CategoryID may reference a category that
// was soft-deleted later; the reference is kept and simply stops resolving.
type Note struct {
	ID         string   `db:"id" json:"id"`
	Title      string   `db:"title" json:"title"`
	Content    string   `db:"content" json:"content"`
	Kind       NoteKind `db:"kind" json:"kind"`
	CategoryID *string  `db:"category_id" json:"category_id"`
	OwnerID    string   `db:"owner_id" json:"owner_id"`
	CreatedAt  int64    `db:"created_at" json:"created_at"`
	UpdatedAt  int64    `db:"updated_at" json:"updated_at"`
	DeletedAt  *int64   `db:"deleted_at" json:"-"`

	// Category is the resolved reference, present only when CategoryID
	// points at a visible category. Populated by read queries.
	Category *CategoryRef `db:"-" json:"category,omitempty"`
}

// TableName returns the table name for Note.
func (Note) TableName() string {
	return "notes"
}

// Touch refreshes the UpdatedAt timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().Unix()
}

// Deleted reports whether the note is a tombstone.
func (n *Note) Deleted() bool {
	return n.DeletedAt != nil
}

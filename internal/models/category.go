package models

import "time"

// Category is an owner-scoped label for notes. A non-nil DeletedAt marks a
// tombstone: the row stays in the store but is invisible to every normal
// listing and lookup.
type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	OwnerID   string `db:"owner_id" json:"owner_id"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
	UpdatedAt int64  `db:"updated_at" json:"updated_at"`
	DeletedAt *int64 `db:"deleted_at" json:"-"`

	// NoteCount is the live count of non-deleted notes in this category.
	// Populated by list queries only.
	NoteCount int `db:"-" json:"note_count"`
}

// TableName returns the table name for Category.
func (Category) TableName() string {
	return "categories"
}

// Touch refreshes the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().Unix()
}

// Deleted reports whether the category is a tombstone.
func (c *Category) Deleted() bool {
	return c.DeletedAt != nil
}

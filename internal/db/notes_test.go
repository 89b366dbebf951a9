package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notamente/backend/internal/apperr"
	"github.com/notamente/backend/internal/models"
)

// backdate shifts a note's updated_at so ordering and timestamp-refresh
// assertions don't depend on sub-second timing.
func backdate(t *testing.T, repo *Repository, noteID string, unix int64) {
	t.Helper()
	_, err := repo.db.Exec("UPDATE notes SET updated_at = ? WHERE id = ?", unix, noteID)
	require.NoError(t, err)
}

func noteUpdatedAt(t *testing.T, repo *Repository, noteID string) int64 {
	t.Helper()
	var updatedAt int64
	require.NoError(t, repo.db.QueryRow("SELECT updated_at FROM notes WHERE id = ?", noteID).Scan(&updatedAt))
	return updatedAt
}

func TestCreateNote(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")

	note, err := repo.CreateNote(owner.ID, "T1", "C1", models.KindPlain, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, models.KindPlain, note.Kind)
	assert.Nil(t, note.CategoryID)
	assert.Nil(t, note.Category)

	// Kind defaults to PLAIN when omitted.
	note, err = repo.CreateNote(owner.ID, "T2", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.KindPlain, note.Kind)

	_, err = repo.CreateNote(owner.ID, "", "content", models.KindPlain, nil)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = repo.CreateNote(owner.ID, "T3", "", models.NoteKind("HTML"), nil)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestCreateNoteWithCategory(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")
	category, err := repo.CreateCategory(owner.ID, "Work")
	require.NoError(t, err)

	note, err := repo.CreateNote(owner.ID, "T1", "C1", models.KindMarkdown, &category.ID)
	require.NoError(t, err)
	require.NotNil(t, note.Category)
	assert.Equal(t, category.ID, note.Category.ID)
	assert.Equal(t, "Work", note.Category.Name)
}

func TestCreateNoteRejectsInvisibleCategory(t *testing.T) {
	repo := newTestRepo(t)
	ana := createTestUser(t, repo, "Ana", "ana@x.com")
	bob := createTestUser(t, repo, "Bob", "bob@x.com")

	// Another owner's category.
	bobs, err := repo.CreateCategory(bob.ID, "Bob's")
	require.NoError(t, err)
	_, err = repo.CreateNote(ana.ID, "T", "", models.KindPlain, &bobs.ID)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	// A soft-deleted category.
	gone, err := repo.CreateCategory(ana.ID, "Gone")
	require.NoError(t, err)
	require.NoError(t, repo.SoftDeleteCategory(ana.ID, gone.ID))
	_, err = repo.CreateNote(ana.ID, "T", "", models.KindPlain, &gone.ID)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	// An unknown id.
	unknown := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	_, err = repo.CreateNote(ana.ID, "T", "", models.KindPlain, &unknown)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestGetNoteOwnershipIndistinguishable(t *testing.T) {
	repo := newTestRepo(t)
	ana := createTestUser(t, repo, "Ana", "ana@x.com")
	bob := createTestUser(t, repo, "Bob", "bob@x.com")

	note, err := repo.CreateNote(ana.ID, "Secret", "", models.KindPlain, nil)
	require.NoError(t, err)

	// Bob guessing the right id gets the same not-found as a bogus id.
	_, foreignErr := repo.GetNote(bob.ID, note.ID)
	_, bogusErr := repo.GetNote(bob.ID, "f47ac10b-58cc-4372-a567-0e02b2c3d479")
	require.Error(t, foreignErr)
	require.Error(t, bogusErr)
	assert.Equal(t, foreignErr.Error(), bogusErr.Error())
}

func TestListNotesOrdering(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")

	first, err := repo.CreateNote(owner.ID, "first", "", models.KindPlain, nil)
	require.NoError(t, err)
	second, err := repo.CreateNote(owner.ID, "second", "", models.KindPlain, nil)
	require.NoError(t, err)
	backdate(t, repo, first.ID, 1000)
	backdate(t, repo, second.ID, 2000)

	notes, err := repo.ListNotes(owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID)
	assert.Equal(t, first.ID, notes[1].ID)
}

func TestListNotesDanglingCategoryReference(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")
	category, err := repo.CreateCategory(owner.ID, "Work")
	require.NoError(t, err)
	note, err := repo.CreateNote(owner.ID, "T", "", models.KindPlain, &category.ID)
	require.NoError(t, err)

	require.NoError(t, repo.SoftDeleteCategory(owner.ID, category.ID))

	// The raw reference survives the category's deletion, it just no
	// longer resolves.
	got, err := repo.GetNote(owner.ID, note.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, category.ID, *got.CategoryID)
	assert.Nil(t, got.Category)
}

func TestUpdateNoteMergesFields(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")
	note, err := repo.CreateNote(owner.ID, "T1", "C1", models.KindPlain, nil)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateNote(owner.ID, note.ID, NotePatch{Title: strptr("T2")}))

	got, err := repo.GetNote(owner.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "C1", got.Content, "unspecified fields keep their prior value")
	assert.Equal(t, models.KindPlain, got.Kind)
}

func TestUpdateNoteEmptyPatchRefreshesTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")
	note, err := repo.CreateNote(owner.ID, "T", "C", models.KindPlain, nil)
	require.NoError(t, err)
	backdate(t, repo, note.ID, 1000)

	require.NoError(t, repo.UpdateNote(owner.ID, note.ID, NotePatch{}))

	got, err := repo.GetNote(owner.ID, note.ID)
	require.NoError(t, err)
	assert.Greater(t, got.UpdatedAt, int64(1000))
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
}

func TestUpdateNoteValidation(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")
	note, err := repo.CreateNote(owner.ID, "T", "", models.KindPlain, nil)
	require.NoError(t, err)

	err = repo.UpdateNote(owner.ID, note.ID, NotePatch{Title: strptr("")})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	badKind := models.NoteKind("HTML")
	err = repo.UpdateNote(owner.ID, note.ID, NotePatch{Kind: &badKind})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	// A changed category reference is re-validated.
	unknown := "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	err = repo.UpdateNote(owner.ID, note.ID, NotePatch{CategoryID: &unknown})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestUpdateNoteGate(t *testing.T) {
	repo := newTestRepo(t)
	ana := createTestUser(t, repo, "Ana", "ana@x.com")
	bob := createTestUser(t, repo, "Bob", "bob@x.com")
	note, err := repo.CreateNote(ana.ID, "T", "", models.KindPlain, nil)
	require.NoError(t, err)

	err = repo.UpdateNote(bob.ID, note.ID, NotePatch{Title: strptr("taken")})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	require.NoError(t, repo.SoftDeleteNote(ana.ID, note.ID))
	err = repo.UpdateNote(ana.ID, note.ID, NotePatch{Title: strptr("back")})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestSoftDeleteNote(t *testing.T) {
	repo := newTestRepo(t)
	owner := createTestUser(t, repo, "Ana", "ana@x.com")
	note, err := repo.CreateNote(owner.ID, "T", "C", models.KindPlain, nil)
	require.NoError(t, err)

	require.NoError(t, repo.SoftDeleteNote(owner.ID, note.ID))

	_, err = repo.GetNote(owner.ID, note.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	notes, err := repo.ListNotes(owner.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)

	// Second delete fails rather than succeeding silently.
	err = repo.SoftDeleteNote(owner.ID, note.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	// The tombstone persists and the delete refreshed updated_at.
	var deletedAt *int64
	var updatedAt int64
	require.NoError(t, repo.db.QueryRow(
		"SELECT deleted_at, updated_at FROM notes WHERE id = ?", note.ID).Scan(&deletedAt, &updatedAt))
	require.NotNil(t, deletedAt)
	assert.Equal(t, *deletedAt, updatedAt)
}

func TestSoftDeleteNoteOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ana := createTestUser(t, repo, "Ana", "ana@x.com")
	bob := createTestUser(t, repo, "Bob", "bob@x.com")
	note, err := repo.CreateNote(ana.ID, "T", "", models.KindPlain, nil)
	require.NoError(t, err)

	err = repo.SoftDeleteNote(bob.ID, note.ID)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	// Ana still sees it.
	_, err = repo.GetNote(ana.ID, note.ID)
	require.NoError(t, err)
}

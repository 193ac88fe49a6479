package notes

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_notes_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Note{},
		&entities.Tag{},
		&entities.Tombstone{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func newNote(userID uint) *entities.Note {
	return &entities.Note{
		UserID:  userID,
		BookID:  19,
		Chapter: 23,
		Verse:   1,
		Title:   "Shepherd",
		Body:    "The LORD is my shepherd",
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	note := newNote(1)
	require.NoError(t, repo.Create(note))
	assert.Equal(t, 1, note.Version)

	got, err := repo.GetByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shepherd", got.Title)
}

func TestRepository_Update_VersionArithmetic(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	note := newNote(1)
	require.NoError(t, repo.Create(note))

	require.NoError(t, repo.Update(note.ID, "Shepherd", "The LORD is my shepherd; I shall not want."))
	// Identical payload retried: must not bump.
	require.NoError(t, repo.Update(note.ID, "Shepherd", "The LORD is my shepherd; I shall not want."))
	require.NoError(t, repo.Update(note.ID, "Psalm 23", "The LORD is my shepherd; I shall not want."))

	got, err := repo.GetByID(note.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version, "1 + two content changes")
}

func TestRepository_Delete_CascadesTagLinksWithoutTombstoningThem(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	note := newNote(1)
	require.NoError(t, repo.Create(note))
	require.NoError(t, repo.MarkSynced(note.ID, 900))

	tag := entities.Tag{UserID: 1, Name: "comfort"}
	require.NoError(t, db.Create(&tag).Error)
	require.NoError(t, repo.AddTag(note.ID, tag.ID))

	var joinCount int64
	require.NoError(t, db.Table("note_tags").Count(&joinCount).Error)
	require.Equal(t, int64(1), joinCount)

	require.NoError(t, repo.Delete(note.ID))

	require.NoError(t, db.Table("note_tags").Count(&joinCount).Error)
	assert.Zero(t, joinCount, "join rows go with the note")

	ts, err := repo.Tombstones(1)
	require.NoError(t, err)
	require.Len(t, ts, 1, "only the note row is tombstoned")
	assert.Equal(t, "notes", ts[0].Table)
	assert.Equal(t, int64(900), ts[0].ServerID)

	// The tag itself survives the cascade.
	var tagCount int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(1), tagCount)
}

func TestRepository_Delete_UnsyncedNoteLeavesNoTombstone(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	note := newNote(1)
	require.NoError(t, repo.Create(note))
	require.NoError(t, repo.Delete(note.ID))

	var count int64
	require.NoError(t, db.Model(&entities.Tombstone{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_AddRemoveTag(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	note := newNote(1)
	require.NoError(t, repo.Create(note))
	tag := entities.Tag{UserID: 1, Name: "psalms"}
	require.NoError(t, db.Create(&tag).Error)

	require.NoError(t, repo.AddTag(note.ID, tag.ID))
	got, err := repo.GetByID(note.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)

	require.NoError(t, repo.RemoveTag(note.ID, tag.ID))
	got, err = repo.GetByID(note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestRepository_GetForVerse(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(newNote(1)))
	other := newNote(1)
	other.Verse = 2
	require.NoError(t, repo.Create(other))
	require.NoError(t, repo.Create(newNote(2)))

	notes, err := repo.GetForVerse(1, 19, 23, 1)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

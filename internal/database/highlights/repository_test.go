package highlights

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
	dbPath := "./test_highlights_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Highlight{},
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

func yellowOn316(userID uint) *entities.Highlight {
	return &entities.Highlight{
		UserID:  userID,
		BookID:  43,
		Chapter: 3,
		Verse:   16,
		Color:   "yellow",
	}
}

func TestRepository_Create(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	err := repo.Create(h)

	require.NoError(t, err)
	assert.NotZero(t, h.ID)
	assert.Equal(t, 1, h.Version)
	assert.Nil(t, h.ServerID)
}

func TestRepository_Create_DuplicateColorRejected(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(yellowOn316(1)))

	// Second color on the same verse is fine.
	blue := yellowOn316(1)
	blue.Color = "blue"
	require.NoError(t, repo.Create(blue))

	// Same color again is not.
	err := repo.Create(yellowOn316(1))
	assert.ErrorIs(t, err, ErrDuplicateHighlight)

	// A different user may hold the same color.
	require.NoError(t, repo.Create(yellowOn316(2)))
}

func TestRepository_UpdateColor_VersionArithmetic(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	require.NoError(t, repo.Create(h))
	initial := h.Version

	// Two content changes and one no-op retry in between.
	require.NoError(t, repo.UpdateColor(h.ID, "blue"))
	require.NoError(t, repo.UpdateColor(h.ID, "blue"))
	require.NoError(t, repo.UpdateColor(h.ID, "green"))

	got, err := repo.GetByID(h.ID)
	require.NoError(t, err)
	assert.Equal(t, "green", got.Color)
	assert.Equal(t, 2, got.Version-initial, "version delta must equal content changes")
}

func TestRepository_UpdateColor_ClashRejected(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	require.NoError(t, repo.Create(h))
	blue := yellowOn316(1)
	blue.Color = "blue"
	require.NoError(t, repo.Create(blue))

	err := repo.UpdateColor(h.ID, "blue")
	assert.ErrorIs(t, err, ErrDuplicateHighlight)
}

func TestRepository_MarkSynced(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	require.NoError(t, repo.Create(h))

	require.NoError(t, repo.MarkSynced(h.ID, 555))
	// Confirming the same id again is idempotent.
	require.NoError(t, repo.MarkSynced(h.ID, 555))
	// A different id is a protocol violation.
	assert.ErrorIs(t, repo.MarkSynced(h.ID, 556), ErrAlreadySynced)

	got, err := repo.GetByID(h.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ServerID)
	assert.Equal(t, int64(555), *got.ServerID)
}

func TestRepository_Delete_SyncedRowLeavesTombstone(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	require.NoError(t, repo.Create(h))
	require.NoError(t, repo.MarkSynced(h.ID, 555))

	require.NoError(t, repo.Delete(h.ID))

	_, err := repo.GetByID(h.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ts, err := repo.Tombstones(1)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, int64(555), ts[0].ServerID)
	assert.Equal(t, "highlights", ts[0].Table)

	var count int64
	require.NoError(t, db.Model(&entities.Tombstone{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "exactly one tombstone")
}

func TestRepository_Delete_LocalRowLeavesNothing(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	require.NoError(t, repo.Create(h))

	require.NoError(t, repo.Delete(h.ID))

	var count int64
	require.NoError(t, db.Model(&entities.Tombstone{}).Count(&count).Error)
	assert.Zero(t, count, "local-only rows are not reconciled remotely")
}

func TestRepository_GetForVerse(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(yellowOn316(1)))
	blue := yellowOn316(1)
	blue.Color = "blue"
	require.NoError(t, repo.Create(blue))
	other := yellowOn316(1)
	other.Verse = 17
	require.NoError(t, repo.Create(other))

	hs, err := repo.GetForVerse(1, 43, 3, 16)
	require.NoError(t, err)
	assert.Len(t, hs, 2)
}

func TestRepository_Create_NormalizesColor(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	h.Color = "Yellow"
	require.NoError(t, repo.Create(h))
	assert.Equal(t, "yellow", h.Color)

	// The normalized form collides with an existing lowercase row.
	dup := yellowOn316(1)
	dup.Color = "YELLOW"
	assert.ErrorIs(t, repo.Create(dup), ErrDuplicateHighlight)
}

func TestRepository_Create_RejectsUnknownColor(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	h := yellowOn316(1)
	h.Color = "chartreuse"
	assert.Error(t, repo.Create(h))

	err := repo.UpdateColor(1, "not-a-color")
	assert.Error(t, err)
}

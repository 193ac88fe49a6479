package updates

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/database/settings"
	"github.com/The-Way-koinonia/luke-14-28-30-sub001/internal/entities"
)

func setupTestStore(t *testing.T) (*database.Database, func()) {
	dbPath := "./test_updates_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	require.NoError(t, db.DB.Create(&entities.Verse{
		BookID: 1, Chapter: 1, Verse: 1,
		Text: "In the beginnng God created the heaven and the earth.",
	}).Error)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestClient_Apply_UpdateKeepsFTSInSync(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	client := NewClient(db.DB, nil)
	err := client.Apply([]ChangeDirective{{
		Table:     "verses",
		Operation: OpUpdate,
		Where:     map[string]any{"book_id": 1, "chapter": 1, "verse": 1},
		Data:      map[string]any{"text": "In the beginning God created the heaven and the earth."},
	}})
	require.NoError(t, err)

	hits, err := db.SearchVerses("beginning", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, uint(1), hits[0].BookID)

	// The misspelled shadow row is gone.
	stale, err := db.SearchVerses("beginnng", 0)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestClient_Apply_InsertIsIdempotent(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	client := NewClient(db.DB, nil)
	directive := ChangeDirective{
		Table:     "lexicon_entries",
		Operation: OpInsert,
		Data: map[string]any{
			"strongs_id": "H430",
			"lemma":      "אֱלֹהִים",
			"definition": "gods, God",
		},
	}

	require.NoError(t, client.Apply([]ChangeDirective{directive}))
	require.NoError(t, client.Apply([]ChangeDirective{directive}))

	count, err := db.CountRows("lexicon_entries")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestClient_Apply_BadDirectiveRollsBackWholeBatch(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	client := NewClient(db.DB, nil)
	err := client.Apply([]ChangeDirective{
		{
			Table:     "lexicon_entries",
			Operation: OpInsert,
			Data:      map[string]any{"strongs_id": "G26", "definition": "love"},
		},
		{
			Table:     "settings",
			Operation: OpInsert,
			Data:      map[string]any{"key": "version", "value": "999"},
		},
	})

	require.ErrorIs(t, err, ErrUnknownTable)

	count, err := db.CountRows("lexicon_entries")
	require.NoError(t, err)
	assert.Zero(t, count, "valid change in a failed batch must roll back")
}

func TestClient_Apply_RejectsUnscopedDelete(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	client := NewClient(db.DB, nil)
	err := client.Apply([]ChangeDirective{{Table: "verses", Operation: OpDelete}})
	require.ErrorIs(t, err, ErrUnscopedDirective)
}

func TestClient_CheckAndApply_AdvancesMarkerAfterCommit(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	dir := t.TempDir()
	writeManifest(t, dir, "v1.json", `{
		"latest_version": 1, "description": "lexicon fix",
		"changes": [{"table": "lexicon_entries", "operation": "insert",
			"data": {"strongs_id": "G2316", "definition": "a deity, God"}}]
	}`)
	writeManifest(t, dir, "v2.json", `{
		"latest_version": 2, "description": "verse fix",
		"changes": [{"table": "verses", "operation": "update",
			"where": {"book_id": 1, "chapter": 1, "verse": 1},
			"data": {"text": "In the beginning God created the heaven and the earth."}}]
	}`)

	client := NewClient(db.DB, NewStore(dir))
	result, err := client.CheckAndApply()

	require.NoError(t, err)
	assert.False(t, result.UpToDate)
	assert.Equal(t, 0, result.FromVersion)
	assert.Equal(t, 2, result.ToVersion)
	assert.Equal(t, 2, result.Applied)

	version, err := settings.NewRepository(db.DB).GetVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// Second pass is a no-op.
	result, err = client.CheckAndApply()
	require.NoError(t, err)
	assert.True(t, result.UpToDate)
	assert.Equal(t, 2, result.ToVersion)
}

func TestClient_CheckAndApply_FailedApplyLeavesMarker(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	dir := t.TempDir()
	writeManifest(t, dir, "v1.json", `{
		"latest_version": 1,
		"changes": [{"table": "users", "operation": "insert", "data": {"id": 1}}]
	}`)

	client := NewClient(db.DB, NewStore(dir))
	_, err := client.CheckAndApply()
	require.Error(t, err)

	version, verr := settings.NewRepository(db.DB).GetVersion()
	require.NoError(t, verr)
	assert.Zero(t, version, "marker must not advance past uncommitted content")
}

var _ Source = (*Store)(nil)
var _ Source = (*HTTPSource)(nil)

func TestApplyDirective_RejectsBadColumnNames(t *testing.T) {
	db, cleanup := setupTestStore(t)
	defer cleanup()

	client := NewClient(db.DB, nil)
	err := client.Apply([]ChangeDirective{{
		Table:     "verses",
		Operation: OpInsert,
		Data:      map[string]any{"text); DROP TABLE verses;--": "x"},
	}})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Verse{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

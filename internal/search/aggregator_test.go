package search

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/store"
)

func setupSearchDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.InitDBWithPath(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGlobalEmptyQueryShortCircuits(t *testing.T) {
	db := setupSearchDB(t)

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := Global(db, q, Options{})
		require.NoError(t, err)
		assert.Empty(t, results.Activities)
		assert.Empty(t, results.Documents)
	}
}

func TestGlobalMergesBothKinds(t *testing.T) {
	db := setupSearchDB(t)
	now := time.Now().UnixMilli()

	_, err := store.CreateActivity(db, now, "deploy", "deploy rollout started", "", "success", nil)
	require.NoError(t, err)
	_, err = store.CreateActivity(db, now, "build", "compile step", "rollout details mention deploy", "success", nil)
	require.NoError(t, err)
	_, err = store.UpsertDocument(db, "deploy runbook", "how to deploy safely", "manual", "", now)
	require.NoError(t, err)

	results, err := Global(db, "deploy", Options{})
	require.NoError(t, err)

	assert.Len(t, results.Activities, 2)
	assert.Len(t, results.Documents, 1)

	// Title matches rank ahead of details-only matches.
	assert.Equal(t, "deploy rollout started", results.Activities[0].Title)
}

func TestGlobalNoDuplicateIDs(t *testing.T) {
	db := setupSearchDB(t)
	now := time.Now().UnixMilli()

	// Matches on both title and details: must appear once.
	_, err := store.CreateActivity(db, now, "deploy", "deploy started", "deploy of api finished", "success", nil)
	require.NoError(t, err)

	results, err := Global(db, "deploy", Options{})
	require.NoError(t, err)
	require.Len(t, results.Activities, 1)
}

func TestGlobalActionTypePostFilter(t *testing.T) {
	db := setupSearchDB(t)
	now := time.Now().UnixMilli()

	_, err := store.CreateActivity(db, now, "deploy", "deploy api", "", "success", nil)
	require.NoError(t, err)
	_, err = store.CreateActivity(db, now, "build", "deploy assets", "", "success", nil)
	require.NoError(t, err)

	results, err := Global(db, "deploy", Options{ActionType: "deploy"})
	require.NoError(t, err)
	require.Len(t, results.Activities, 1)
	assert.Equal(t, "deploy", results.Activities[0].ActionType)
}

func TestGlobalSourcePostFilter(t *testing.T) {
	db := setupSearchDB(t)
	now := time.Now().UnixMilli()

	_, err := store.UpsertDocument(db, "notes", "kubernetes cluster notes", "manual", "", now)
	require.NoError(t, err)
	_, err = store.UpsertDocument(db, "wiki", "kubernetes cluster wiki", "confluence", "", now)
	require.NoError(t, err)

	results, err := Global(db, "kubernetes", Options{Source: "manual"})
	require.NoError(t, err)
	require.Len(t, results.Documents, 1)
	assert.Equal(t, "manual", results.Documents[0].Source)
}

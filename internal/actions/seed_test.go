package actions

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/store"
)

func setupActionsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.InitDBWithPath(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSeedDemoDataPopulatesEveryView(t *testing.T) {
	db := setupActionsDB(t)

	now := time.Now().UnixMilli()
	summary, err := SeedDemoData(db, now)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Agents)
	assert.Equal(t, 2, summary.Tasks)
	assert.Equal(t, 3, summary.Activities)
	assert.Equal(t, 2, summary.Documents)
	assert.Equal(t, 3, summary.ScheduledTasks)

	agents, err := store.ListAgents(db)
	require.NoError(t, err)
	assert.Len(t, agents, 3)

	// The mention fan-out produced at least one notification.
	notifs, err := store.ListUndelivered(db, "forge")
	require.NoError(t, err)
	assert.NotEmpty(t, notifs)

	// Seeded documents are findable through the search index.
	docs, err := store.SearchDocumentsByTitle(db, "runbook", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, docs)
}

func TestSeedDemoDataRerunKeepsAgents(t *testing.T) {
	db := setupActionsDB(t)

	now := time.Now().UnixMilli()
	_, err := SeedDemoData(db, now)
	require.NoError(t, err)

	summary, err := SeedDemoData(db, now+1000)
	require.NoError(t, err)
	assert.Zero(t, summary.Agents)

	agents, err := store.ListAgents(db)
	require.NoError(t, err)
	assert.Len(t, agents, 3)
}

func TestClearDemoDataEmptiesSeedableTables(t *testing.T) {
	db := setupActionsDB(t)

	_, err := SeedDemoData(db, time.Now().UnixMilli())
	require.NoError(t, err)
	require.NoError(t, store.ClearDemoData(db))

	activities, err := store.ListActivities(db, "", 10)
	require.NoError(t, err)
	assert.Empty(t, activities)

	jobs, err := store.ListScheduledTasks(db, "")
	require.NoError(t, err)
	assert.Empty(t, jobs)

	docs, err := store.SearchDocumentsByTitle(db, "runbook", 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

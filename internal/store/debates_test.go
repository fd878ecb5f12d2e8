package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func TestAddDebateEntryUpsertsPerAgent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	debate, err := CreateDebate(db, "task_1", "monolith vs services", "agent-a", now)
	require.NoError(t, err)

	first, err := AddDebateEntry(db, debate.ID, "agent-b", "monolith", 70, "", now+1)
	require.NoError(t, err)
	require.NoError(t, VoteDebateEntry(db, first.ID))

	// Re-submission updates the entry in place and keeps the votes.
	second, err := AddDebateEntry(db, debate.ID, "agent-b", "services after all", 60, "new data", now+2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	entries, err := ListDebateEntries(db, debate.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "services after all", entries[0].Position)
	assert.Equal(t, 60, entries[0].Confidence)
	assert.Equal(t, 1, entries[0].Votes)
}

func TestResolvedDebateRejectsEntries(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	debate, err := CreateDebate(db, "task_1", "tabs vs spaces", "agent-a", now)
	require.NoError(t, err)

	resolved, err := ResolveDebate(db, debate.ID, "tabs", "agent-a", now+1)
	require.NoError(t, err)
	assert.Equal(t, models.DebateStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = AddDebateEntry(db, debate.ID, "agent-b", "spaces", 90, "", now+2)
	require.Error(t, err)

	var invalid *models.InvalidStateError
	assert.True(t, errors.As(err, &invalid))
}

func TestListDebatesByStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	open, err := CreateDebate(db, "task_1", "open question", "agent-a", now)
	require.NoError(t, err)
	closed, err := CreateDebate(db, "task_1", "settled question", "agent-a", now+1)
	require.NoError(t, err)
	_, err = ResolveDebate(db, closed.ID, "done", "agent-a", now+2)
	require.NoError(t, err)

	openOnly, err := ListDebates(db, models.DebateStatusOpen)
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, open.ID, openOnly[0].ID)

	all, err := ListDebates(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

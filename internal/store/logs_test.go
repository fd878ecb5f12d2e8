package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func TestAppendAgentLogDefaultsType(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	entry, err := AppendAgentLog(db, "agent-1", "", "shipped the release", "", nil, nowTestMs())
	require.NoError(t, err)
	assert.Equal(t, models.AgentLogAction, entry.Type)
	assert.Empty(t, entry.TaskID)
}

func TestAppendAgentLogRejectsBadMetadata(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := AppendAgentLog(db, "agent-1", models.AgentLogAction, "oops", "", json.RawMessage(`{not json`), nowTestMs())
	assert.Error(t, err)
}

func TestListAgentLogsFiltersByType(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := AppendAgentLog(db, "agent-1", models.AgentLogAction, "did a thing", "", nil, now)
	require.NoError(t, err)
	_, err = AppendAgentLog(db, "agent-1", models.AgentLogThinking, "chose postgres", "", json.RawMessage(`{"confidence":0.9}`), now+1)
	require.NoError(t, err)
	_, err = AppendAgentLog(db, "agent-2", models.AgentLogAction, "other agent", "", nil, now+2)
	require.NoError(t, err)

	logs, err := ListAgentLogs(db, "agent-1", models.AgentLogThinking, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "chose postgres", logs[0].Content)
	assert.JSONEq(t, `{"confidence":0.9}`, string(logs[0].Metadata))

	all, err := ListAgentLogs(db, "agent-1", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListLogsInWindowOrdersAscending(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := AppendAgentLog(db, "agent-1", models.AgentLogAction, "second", "", nil, now+500)
	require.NoError(t, err)
	_, err = AppendAgentLog(db, "agent-1", models.AgentLogAction, "first", "", nil, now)
	require.NoError(t, err)
	_, err = AppendAgentLog(db, "agent-1", models.AgentLogAction, "outside", "", nil, now+5000)
	require.NoError(t, err)

	logs, err := ListLogsInWindow(db, "agent-1", now, now+1000)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "first", logs[0].Content)
	assert.Equal(t, "second", logs[1].Content)
}

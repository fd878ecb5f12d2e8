package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func TestRegisterAgent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	agent, err := RegisterAgent(db, "Scout", "researcher", "🔭", "scout-1", models.AgentLevelSpecialist, nowTestMs())
	require.NoError(t, err)
	require.NotNil(t, agent)

	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "Scout", agent.Name)
	assert.Equal(t, "scout-1", agent.SessionKey)
	assert.Equal(t, models.AgentStatusIdle, agent.Status)
}

func TestGetAgentNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	agent, err := GetAgent(db, "nope")
	assert.Nil(t, agent)

	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "agent", nf.Kind)
}

func TestUpdateAgentStatus(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := RegisterAgent(db, "Scout", "researcher", "🔭", "scout-1", models.AgentLevelSpecialist, nowTestMs())
	require.NoError(t, err)

	now := nowTestMs()
	require.NoError(t, UpdateAgentStatus(db, "scout-1", models.AgentStatusActive, now))

	agent, err := GetAgent(db, "scout-1")
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusActive, agent.Status)
	assert.Equal(t, now, agent.LastHeartbeat)
}

func TestGetAgentStats(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	_, err := RegisterAgent(db, "Scout", "researcher", "🔭", "scout-1", models.AgentLevelSpecialist, now)
	require.NoError(t, err)

	task, err := CreateTask(db, "Research", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)
	_, err = AssignTask(db, task.ID, "scout-1", now)
	require.NoError(t, err)

	_, err = AppendAgentLog(db, "scout-1", models.AgentLogAction, "started research", task.ID, nil, now+10)
	require.NoError(t, err)

	stats, err := GetAgentStats(db, "scout-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TaskCount)
	assert.Equal(t, 1, stats.LogCount)
	assert.Equal(t, now+10, stats.LastActivity)
}

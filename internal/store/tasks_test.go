package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

var taskIDPattern = regexp.MustCompile(`^task_\d+_[0-9a-f]{12}$`)

func TestCreateTask(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Ship dashboard", "v1 scope", "You", "", []string{"frontend"}, nil, "", now)
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.Regexp(t, taskIDPattern, task.ID)
	assert.Equal(t, models.TaskStatusInbox, task.Status)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Empty(t, task.AssigneeIDs)
	assert.Equal(t, []string{"frontend"}, task.Tags)
	assert.Equal(t, now, task.CreatedAt)
}

func TestAssignTaskPromotesInbox(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Triage", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInbox, task.Status)

	assigned, err := AssignTask(db, task.ID, "scout-1", now+1)
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusAssigned, assigned.Status)
	assert.True(t, assigned.HasAssignee("scout-1"))

	// Assignment implicitly subscribes the agent to the thread.
	subs, err := ListThreadSubscribers(db, task.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "scout-1", subs[0].AgentSessionKey)
}

func TestAssignTaskDoesNotDemoteLaterStatuses(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "WIP", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)
	require.NoError(t, UpdateTaskStatus(db, task.ID, models.TaskStatusInProgress, now+1))

	assigned, err := AssignTask(db, task.ID, "scout-1", now+2)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, assigned.Status)
}

func TestAssignTaskIdempotentPerAgent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Repeat", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)

	_, err = AssignTask(db, task.ID, "scout-1", now+1)
	require.NoError(t, err)
	again, err := AssignTask(db, task.ID, "scout-1", now+2)
	require.NoError(t, err)

	assert.Equal(t, []string{"scout-1"}, again.AssigneeIDs)
}

func TestListTasksByAssignee(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	mine, err := CreateTask(db, "Mine", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)
	_, err = CreateTask(db, "Theirs", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)

	_, err = AssignTask(db, mine.ID, "scout-1", now+1)
	require.NoError(t, err)

	tasks, err := ListTasksByAssignee(db, "scout-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Mine", tasks[0].Title)
}

func TestUpdateTaskPartial(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Old title", "desc", "You", models.TaskPriorityLow, nil, nil, "", now)
	require.NoError(t, err)

	newTitle := "New title"
	high := models.TaskPriorityHigh
	updated, err := UpdateTask(db, task.ID, TaskUpdate{Title: &newTitle, Priority: &high}, now+5)
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, models.TaskPriorityHigh, updated.Priority)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, now+5, updated.UpdatedAt)
}

func TestDeleteTaskNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := DeleteTask(db, "task_missing")
	assert.Error(t, err)
}

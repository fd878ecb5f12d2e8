package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func TestCreateMessagePersistsFanOut(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Thread", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)

	// agent-b is assigned (and thus subscribed), agent-c only mentioned.
	_, err = AssignTask(db, task.ID, "agent-b", now)
	require.NoError(t, err)

	msg, notifs, err := CreateMessage(db, task.ID, "agent-a", "decision: ship it", []string{"agent-c"}, nil, now+1)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Len(t, notifs, 2)

	// Notification rows are persisted, undelivered.
	forC, err := ListUndelivered(db, "agent-c")
	require.NoError(t, err)
	require.Len(t, forC, 1)
	assert.Equal(t, models.NotificationMention, forC[0].Type)

	forB, err := ListUndelivered(db, "agent-b")
	require.NoError(t, err)
	require.Len(t, forB, 1)
	assert.Equal(t, models.NotificationComment, forB[0].Type)
}

func TestCreateMessageUnknownTask(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, _, err := CreateMessage(db, "task_missing", "agent-a", "hello", nil, nil, nowTestMs())
	assert.Error(t, err)
}

func TestCreateMessageFanOutIsAtLeastOnce(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Thread", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)

	_, _, err = CreateMessage(db, task.ID, "agent-a", "ping", []string{"agent-b"}, nil, now+1)
	require.NoError(t, err)
	_, _, err = CreateMessage(db, task.ID, "agent-a", "ping", []string{"agent-b"}, nil, now+2)
	require.NoError(t, err)

	// Same message content twice still produces two notification rows.
	notifs, err := ListUndelivered(db, "agent-b")
	require.NoError(t, err)
	assert.Len(t, notifs, 2)
}

func TestListMessagesByTaskAscending(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Thread", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)

	_, _, err = CreateMessage(db, task.ID, "agent-a", "first", nil, nil, now+1)
	require.NoError(t, err)
	_, _, err = CreateMessage(db, task.ID, "agent-b", "second", nil, nil, now+2)
	require.NoError(t, err)

	msgs, err := ListMessagesByTask(db, task.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}

func TestSearchMessagesMatchesLiteralText(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	now := nowTestMs()
	task, err := CreateTask(db, "Thread", "", "You", "", nil, nil, "", now)
	require.NoError(t, err)

	_, _, err = CreateMessage(db, task.ID, "agent-a", "coverage hit 100% today", nil, nil, now+1)
	require.NoError(t, err)
	_, _, err = CreateMessage(db, task.ID, "agent-a", "unrelated note", nil, nil, now+2)
	require.NoError(t, err)
	_, _, err = CreateMessage(db, task.ID, "agent-a", "renamed task_id column", nil, nil, now+3)
	require.NoError(t, err)

	// % and _ in the query are literal characters, not wildcards.
	msgs, err := SearchMessages(db, "100%", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "coverage hit 100% today", msgs[0].Content)

	msgs, err = SearchMessages(db, "task_id", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "renamed task_id column", msgs[0].Content)

	// "_" must not act as a single-character wildcard.
	msgs, err = SearchMessages(db, "task_i_", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike(`100%`))
	assert.Equal(t, `task\_id`, escapeLike(`task_id`))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
	assert.Equal(t, `plain`, escapeLike(`plain`))
}

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func subs(taskID string, keys ...string) []*models.ThreadSubscription {
	out := make([]*models.ThreadSubscription, len(keys))
	for i, k := range keys {
		out[i] = &models.ThreadSubscription{TaskID: taskID, AgentSessionKey: k}
	}
	return out
}

func TestFanOutMentionAndCommentExclusive(t *testing.T) {
	msg := &models.Message{
		TaskID:    "task_1",
		FromAgent: "agent-a",
		Content:   "per discussion",
		Mentions:  []string{"agent-b", "agent-c"},
	}
	// agent-c is both mentioned and subscribed, agent-d only subscribed.
	notifs := FanOut(msg, subs("task_1", "agent-a", "agent-c", "agent-d"), 1000)

	require.Len(t, notifs, 3)

	byTarget := make(map[string]*models.Notification)
	for _, n := range notifs {
		byTarget[n.TargetAgent] = n
	}

	assert.Equal(t, models.NotificationMention, byTarget["agent-b"].Type)
	assert.Equal(t, models.NotificationMention, byTarget["agent-c"].Type)
	assert.Equal(t, models.NotificationComment, byTarget["agent-d"].Type)
	// Author is never notified, even as a subscriber.
	assert.NotContains(t, byTarget, "agent-a")
}

func TestFanOutAuthorMentionIgnored(t *testing.T) {
	msg := &models.Message{
		TaskID:    "task_1",
		FromAgent: "agent-a",
		Content:   "self ping",
		Mentions:  []string{"agent-a"},
	}
	notifs := FanOut(msg, nil, 1000)
	assert.Empty(t, notifs)
}

func TestFanOutDuplicateMentionsCollapse(t *testing.T) {
	msg := &models.Message{
		TaskID:    "task_1",
		FromAgent: "agent-a",
		Content:   "double ping",
		Mentions:  []string{"agent-b", "agent-b"},
	}
	notifs := FanOut(msg, nil, 1000)
	require.Len(t, notifs, 1)
	assert.Equal(t, "agent-b", notifs[0].TargetAgent)
}

func TestFanOutStartsUndelivered(t *testing.T) {
	msg := &models.Message{
		TaskID:    "task_1",
		FromAgent: "agent-a",
		Content:   "hello",
		Mentions:  []string{"agent-b"},
	}
	notifs := FanOut(msg, subs("task_1", "agent-c"), 42)
	require.Len(t, notifs, 2)
	for _, n := range notifs {
		assert.False(t, n.Delivered)
		assert.Nil(t, n.ReadAt)
		assert.Equal(t, int64(42), n.Timestamp)
		assert.Equal(t, "agent-a", n.SourceAgent)
		assert.Equal(t, "task_1", n.TaskID)
	}
}

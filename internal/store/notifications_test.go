package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/missionctl/internal/models"
)

func seedNotification(t *testing.T, db *sql.DB, target string) *models.Notification {
	t.Helper()
	n, err := CreateNotification(db, &models.Notification{
		TargetAgent: target,
		SourceAgent: "agent-a",
		Type:        models.NotificationComment,
		Content:     "test",
		Timestamp:   nowTestMs(),
	})
	require.NoError(t, err)
	return n
}

func TestMarkReadImpliesDelivered(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	n := seedNotification(t, db, "agent-b")
	require.False(t, n.Delivered)

	require.NoError(t, MarkRead(db, n.ID, nowTestMs()))

	notifs, err := ListNotifications(db, "agent-b", 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.True(t, notifs[0].Delivered)
	assert.True(t, notifs[0].IsRead())
}

func TestMarkAllDelivered(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	seedNotification(t, db, "agent-b")
	seedNotification(t, db, "agent-b")
	seedNotification(t, db, "agent-c")

	count, err := MarkAllDelivered(db, "agent-b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	pending, err := ListUndelivered(db, "agent-b")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Other agents' notifications are untouched.
	other, err := ListUndelivered(db, "agent-c")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMarkDeliveredNotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Error(t, MarkDelivered(db, "notif_missing"))
}

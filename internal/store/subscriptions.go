package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

// SubscribeThread adds a (task, agent) thread subscription.
// Subscribing twice is a no-op: the original subscribed_at is kept.
func SubscribeThread(db *sql.DB, taskID, sessionKey string, now int64) error {
	return RetryWithBackoff(func() error {
		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if err := subscribeThreadTx(tx, taskID, sessionKey, now); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func subscribeThreadTx(tx *sql.Tx, taskID, sessionKey string, now int64) error {
	_, err := tx.ExecContext(context.Background(), `
		INSERT INTO thread_subscriptions (task_id, agent_session_key, subscribed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (task_id, agent_session_key) DO NOTHING
	`, taskID, sessionKey, now)
	if err != nil {
		return fmt.Errorf("failed to subscribe thread: %w", err)
	}
	return nil
}

// UnsubscribeThread removes a (task, agent) subscription if present.
func UnsubscribeThread(db *sql.DB, taskID, sessionKey string) error {
	return RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			DELETE FROM thread_subscriptions WHERE task_id = ? AND agent_session_key = ?
		`, taskID, sessionKey)
		if err != nil {
			return fmt.Errorf("failed to unsubscribe thread: %w", err)
		}
		return nil
	})
}

// ListThreadSubscribers returns all subscriptions for a task.
func ListThreadSubscribers(q Querier, taskID string) ([]*models.ThreadSubscription, error) {
	rows, err := q.Query(`
		SELECT task_id, agent_session_key, subscribed_at
		FROM thread_subscriptions
		WHERE task_id = ?
		ORDER BY subscribed_at ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []*models.ThreadSubscription
	for rows.Next() {
		var s models.ThreadSubscription
		if scanErr := rows.Scan(&s.TaskID, &s.AgentSessionKey, &s.SubscribedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", scanErr)
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const notificationColumns = `id, target_agent, source_agent, type, content, task_id, timestamp, delivered, read_at`

// CreateNotification inserts a single notification (undelivered).
func CreateNotification(db *sql.DB, n *models.Notification) (*models.Notification, error) {
	if n.TargetAgent == "" {
		return nil, errors.New("target agent is required")
	}
	if n.ID == "" {
		n.ID = generatePrefixedID("notif")
	}
	n.Delivered = false

	err := Transact(db, func(tx *sql.Tx) error {
		return insertNotificationTx(tx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func insertNotificationTx(tx *sql.Tx, n *models.Notification) error {
	var taskVal any
	if n.TaskID != "" {
		taskVal = n.TaskID
	}
	_, err := tx.ExecContext(context.Background(), `
		INSERT INTO notifications (id, target_agent, source_agent, type, content, task_id, timestamp, delivered, read_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL)
	`, n.ID, n.TargetAgent, n.SourceAgent, n.Type, n.Content, taskVal, n.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListUndelivered returns undelivered notifications for an agent, newest first.
func ListUndelivered(db *sql.DB, targetAgent string) ([]*models.Notification, error) {
	return queryNotifications(db, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE target_agent = ? AND delivered = 0
		ORDER BY timestamp DESC
	`, targetAgent)
}

// ListNotifications returns all notifications for an agent, newest first,
// capped at limit when limit > 0.
func ListNotifications(db *sql.DB, targetAgent string, limit int) ([]*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE target_agent = ? ORDER BY timestamp DESC`
	args := []any{targetAgent}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return queryNotifications(db, query, args...)
}

// MarkDelivered flags a notification delivered.
// Fails fast when the notification does not exist.
func MarkDelivered(db *sql.DB, notificationID string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE notifications SET delivered = 1 WHERE id = ?
		`, notificationID)
		if err != nil {
			return fmt.Errorf("failed to mark notification delivered: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "notification", ID: notificationID}
		}
		return nil
	})
}

// MarkRead records the read timestamp. Reading implies delivery, so the
// delivered flag is set in the same update.
func MarkRead(db *sql.DB, notificationID string, now int64) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE notifications SET read_at = ?, delivered = 1 WHERE id = ?
		`, now, notificationID)
		if err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "notification", ID: notificationID}
		}
		return nil
	})
}

// MarkAllDelivered flags every undelivered notification for an agent and
// returns how many rows changed.
func MarkAllDelivered(db *sql.DB, targetAgent string) (int64, error) {
	var count int64
	err := RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE notifications SET delivered = 1 WHERE target_agent = ? AND delivered = 0
		`, targetAgent)
		if err != nil {
			return fmt.Errorf("failed to mark notifications delivered: %w", err)
		}
		count, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	return count, err
}

func queryNotifications(db *sql.DB, query string, args ...any) ([]*models.Notification, error) {
	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		var taskID sql.NullString
		var readAt sql.NullInt64
		if scanErr := rows.Scan(&n.ID, &n.TargetAgent, &n.SourceAgent, &n.Type, &n.Content,
			&taskID, &n.Timestamp, &n.Delivered, &readAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", scanErr)
		}
		n.TaskID = taskID.String
		if readAt.Valid {
			n.ReadAt = &readAt.Int64
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

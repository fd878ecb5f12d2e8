package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/notify"
)

// escapeLike backslash-escapes LIKE metacharacters so user text is
// matched literally. Pair with ESCAPE '\'.
func escapeLike(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(text)
}

const messageColumns = `id, task_id, from_agent, content, timestamp, mentions, attachment_ids`

// CreateMessage appends a comment to a task's thread and fans out
// notifications to mentioned agents and thread subscribers in the same
// transaction. The referenced task must exist. Returns the message and
// the notifications that were inserted.
func CreateMessage(db *sql.DB, taskID, fromAgent, content string, mentions, attachmentIDs []string, now int64) (*models.Message, []*models.Notification, error) {
	if content == "" {
		return nil, nil, errors.New("message content is required")
	}
	if fromAgent == "" {
		return nil, nil, errors.New("message author is required")
	}

	msg := &models.Message{
		ID:            generatePrefixedID("msg"),
		TaskID:        taskID,
		FromAgent:     fromAgent,
		Content:       content,
		Timestamp:     now,
		Mentions:      mentions,
		AttachmentIDs: attachmentIDs,
	}
	if msg.Mentions == nil {
		msg.Mentions = []string{}
	}

	var notifications []*models.Notification
	err := Transact(db, func(tx *sql.Tx) error {
		if _, err := GetTask(tx, taskID); err != nil {
			return err
		}

		var attachVal any
		if len(attachmentIDs) > 0 {
			attachVal = encodeStringList(attachmentIDs)
		}
		_, err := tx.ExecContext(context.Background(), `
			INSERT INTO messages (id, task_id, from_agent, content, timestamp, mentions, attachment_ids)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, msg.ID, msg.TaskID, msg.FromAgent, msg.Content, msg.Timestamp, encodeStringList(msg.Mentions), attachVal)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}

		subscribers, err := ListThreadSubscribers(tx, taskID)
		if err != nil {
			return err
		}

		notifications = notify.FanOut(msg, subscribers, now)
		for _, n := range notifications {
			n.ID = generatePrefixedID("notif")
			if err := insertNotificationTx(tx, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return msg, notifications, nil
}

// ListMessagesByTask returns a task's thread ordered by timestamp ascending.
func ListMessagesByTask(db *sql.DB, taskID string) ([]*models.Message, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT `+messageColumns+` FROM messages WHERE task_id = ? ORDER BY timestamp ASC
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*models.Message
	for rows.Next() {
		msg, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", scanErr)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// ListMessagesInWindow returns all messages with timestamp in
// [start, end], ordered ascending. Used by the standup aggregator.
func ListMessagesInWindow(db *sql.DB, start, end int64) ([]*models.Message, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT `+messageColumns+` FROM messages WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*models.Message
	for rows.Next() {
		msg, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", scanErr)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// SearchMessages runs a full-text-style substring search over message
// content, newest first. Message content is not FTS-indexed; the thread
// view only needs exact substring lookup.
func SearchMessages(db *sql.DB, text string, limit int) ([]*models.Message, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT `+messageColumns+` FROM messages
		WHERE content LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY timestamp DESC LIMIT ?
	`, escapeLike(text), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*models.Message
	for rows.Next() {
		msg, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", scanErr)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var m models.Message
	var mentions string
	var attachments sql.NullString

	err := row.Scan(&m.ID, &m.TaskID, &m.FromAgent, &m.Content, &m.Timestamp, &mentions, &attachments)
	if err != nil {
		return nil, err
	}

	if m.Mentions, err = decodeStringList(mentions); err != nil {
		return nil, err
	}
	if attachments.Valid {
		if m.AttachmentIDs, err = decodeStringList(attachments.String); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

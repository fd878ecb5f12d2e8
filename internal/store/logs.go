package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const agentLogColumns = `id, agent_session_key, type, content, task_id, timestamp, metadata`

// AppendAgentLog records a worklog entry for an agent.
func AppendAgentLog(db *sql.DB, sessionKey string, logType models.AgentLogType, content, taskID string, metadata json.RawMessage, now int64) (*models.AgentLog, error) {
	if content == "" {
		return nil, errors.New("log content is required")
	}
	if logType == "" {
		logType = models.AgentLogAction
	}
	if len(metadata) > 0 && !json.Valid(metadata) {
		return nil, errors.New("log metadata must be valid JSON")
	}

	entry := &models.AgentLog{
		ID:              generatePrefixedID("log"),
		AgentSessionKey: sessionKey,
		Type:            logType,
		Content:         content,
		TaskID:          taskID,
		Timestamp:       now,
		Metadata:        metadata,
	}
	var taskVal, metaVal any
	if taskID != "" {
		taskVal = taskID
	}
	if len(metadata) > 0 {
		metaVal = string(metadata)
	}
	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO agent_logs (id, agent_session_key, type, content, task_id, timestamp, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.AgentSessionKey, entry.Type, entry.Content, taskVal, entry.Timestamp, metaVal)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert agent log: %w", err)
	}
	return entry, nil
}

// ListAgentLogs returns an agent's log entries newest first, optionally
// filtered by type. limit <= 0 means no limit.
func ListAgentLogs(db *sql.DB, sessionKey string, logType models.AgentLogType, limit int) ([]*models.AgentLog, error) {
	query := `SELECT ` + agentLogColumns + ` FROM agent_logs WHERE agent_session_key = ?`
	args := []any{sessionKey}
	if logType != "" {
		query += ` AND type = ?`
		args = append(args, logType)
	}
	query += ` ORDER BY timestamp DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return queryAgentLogs(db, query, args...)
}

// ListRecentLogs returns the most recent log entries across all agents.
func ListRecentLogs(db *sql.DB, limit int) ([]*models.AgentLog, error) {
	if limit <= 0 {
		limit = 50
	}
	return queryAgentLogs(db, `
		SELECT `+agentLogColumns+` FROM agent_logs ORDER BY timestamp DESC LIMIT ?
	`, limit)
}

// ListLogsInWindow returns an agent's logs inside [start, end], oldest first.
func ListLogsInWindow(db *sql.DB, sessionKey string, start, end int64) ([]*models.AgentLog, error) {
	return queryAgentLogs(db, `
		SELECT `+agentLogColumns+` FROM agent_logs
		WHERE agent_session_key = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, sessionKey, start, end)
}

func queryAgentLogs(db *sql.DB, query string, args ...any) ([]*models.AgentLog, error) {
	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.AgentLog
	for rows.Next() {
		var entry models.AgentLog
		var taskID, metadata sql.NullString
		if scanErr := rows.Scan(&entry.ID, &entry.AgentSessionKey, &entry.Type, &entry.Content, &taskID, &entry.Timestamp, &metadata); scanErr != nil {
			return nil, fmt.Errorf("failed to scan agent log row: %w", scanErr)
		}
		entry.TaskID = taskID.String
		if metadata.Valid && metadata.String != "" {
			entry.Metadata = json.RawMessage(metadata.String)
		}
		out = append(out, &entry)
	}
	return out, rows.Err()
}

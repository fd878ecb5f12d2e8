package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const agentColumns = `id, name, role, emoji, status, session_key, current_task_id, last_heartbeat, level`

// RegisterAgent creates a new agent row. New agents start idle with the
// heartbeat stamped at now.
func RegisterAgent(db *sql.DB, name, role, emoji, sessionKey string, level models.AgentLevel, now int64) (*models.Agent, error) {
	if sessionKey == "" {
		return nil, errors.New("session key is required")
	}
	if name == "" {
		return nil, errors.New("agent name is required")
	}

	agentID := generatePrefixedID("agent")
	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO agents (id, name, role, emoji, status, session_key, current_task_id, last_heartbeat, level)
			VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?)
		`, agentID, name, role, emoji, models.AgentStatusIdle, sessionKey, now, level)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert agent: %w", err)
	}

	return GetAgent(db, sessionKey)
}

// GetAgent retrieves an agent by session key.
func GetAgent(q Querier, sessionKey string) (*models.Agent, error) {
	row := q.QueryRow(`SELECT `+agentColumns+` FROM agents WHERE session_key = ?`, sessionKey)

	agent, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "agent", ID: sessionKey}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query agent: %w", err)
	}
	return agent, nil
}

// ListAgents retrieves all agents ordered by name.
func ListAgents(db *sql.DB) ([]*models.Agent, error) {
	rows, err := db.QueryContext(context.Background(), `SELECT `+agentColumns+` FROM agents ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var agents []*models.Agent
	for rows.Next() {
		agent, scanErr := scanAgent(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan agent row: %w", scanErr)
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// UpdateAgentStatus patches status and heartbeat for an agent.
// Fails fast when the session key is unknown.
func UpdateAgentStatus(db *sql.DB, sessionKey string, status models.AgentStatus, heartbeat int64) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE agents SET status = ?, last_heartbeat = ? WHERE session_key = ?
		`, status, heartbeat, sessionKey)
		if err != nil {
			return fmt.Errorf("failed to update agent status: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "agent", ID: sessionKey}
		}
		return nil
	})
}

// UpdateAgentCurrentTask points the agent at a new current task (empty
// taskID clears it) and refreshes the heartbeat.
func UpdateAgentCurrentTask(db *sql.DB, sessionKey, taskID string, heartbeat int64) error {
	var taskVal any
	if taskID != "" {
		taskVal = taskID
	}
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE agents SET current_task_id = ?, last_heartbeat = ? WHERE session_key = ?
		`, taskVal, heartbeat, sessionKey)
		if err != nil {
			return fmt.Errorf("failed to update agent current task: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "agent", ID: sessionKey}
		}
		return nil
	})
}

// AgentStats is the aggregate view used by agent detail pages.
type AgentStats struct {
	Agent        *models.Agent `json:"agent"`
	TaskCount    int           `json:"task_count"`
	LogCount     int           `json:"log_count"`
	LastActivity int64         `json:"last_activity"`
}

// GetAgentStats returns the agent plus assigned-task count, log count,
// and the most recent log timestamp (falling back to the heartbeat when
// the agent has no logs).
func GetAgentStats(db *sql.DB, sessionKey string) (*AgentStats, error) {
	agent, err := GetAgent(db, sessionKey)
	if err != nil {
		return nil, err
	}

	// Assignees are a JSON array column; membership is decided in Go the
	// same way the board does it, not with LIKE on the raw JSON.
	tasks, err := ListTasksByAssignee(db, sessionKey)
	if err != nil {
		return nil, err
	}

	var logCount int
	var lastLog sql.NullInt64
	err = db.QueryRowContext(context.Background(), `
		SELECT COUNT(*), MAX(timestamp) FROM agent_logs WHERE agent_session_key = ?
	`, sessionKey).Scan(&logCount, &lastLog)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent log stats: %w", err)
	}

	lastActivity := agent.LastHeartbeat
	if lastLog.Valid {
		lastActivity = lastLog.Int64
	}

	return &AgentStats{
		Agent:        agent,
		TaskCount:    len(tasks),
		LogCount:     logCount,
		LastActivity: lastActivity,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*models.Agent, error) {
	var a models.Agent
	var currentTask sql.NullString
	err := row.Scan(&a.ID, &a.Name, &a.Role, &a.Emoji, &a.Status, &a.SessionKey, &currentTask, &a.LastHeartbeat, &a.Level)
	if err != nil {
		return nil, err
	}
	a.CurrentTaskID = currentTask.String
	return &a, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const debateColumns = `id, task_id, topic, status, created_by, created_at, resolved_at, resolution, resolved_by`
const debateEntryColumns = `id, debate_id, agent_session_key, position, confidence, evidence, timestamp, votes`

// CreateDebate opens a new debate on a task.
func CreateDebate(db *sql.DB, taskID, topic, createdBy string, now int64) (*models.Debate, error) {
	if topic == "" {
		return nil, errors.New("debate topic is required")
	}

	d := &models.Debate{
		ID:        generatePrefixedID("debate"),
		TaskID:    taskID,
		Topic:     topic,
		Status:    models.DebateStatusOpen,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO debates (id, task_id, topic, status, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, d.ID, d.TaskID, d.Topic, d.Status, d.CreatedBy, d.CreatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert debate: %w", err)
	}
	return d, nil
}

// GetDebate retrieves a debate by ID.
func GetDebate(q Querier, debateID string) (*models.Debate, error) {
	row := q.QueryRow(`SELECT `+debateColumns+` FROM debates WHERE id = ?`, debateID)
	d, err := scanDebate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "debate", ID: debateID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query debate: %w", err)
	}
	return d, nil
}

// ListDebates returns debates newest first, optionally filtered by status.
func ListDebates(db *sql.DB, status models.DebateStatus) ([]*models.Debate, error) {
	query := `SELECT ` + debateColumns + ` FROM debates`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Debate
	for rows.Next() {
		d, scanErr := scanDebate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan debate row: %w", scanErr)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AddDebateEntry records an agent's position. Each agent gets at most one
// entry per debate: re-submission updates the existing entry in place
// (votes are kept). Entries are rejected once the debate is resolved.
func AddDebateEntry(db *sql.DB, debateID, sessionKey, position string, confidence int, evidence string, now int64) (*models.DebateEntry, error) {
	if position == "" {
		return nil, errors.New("debate position is required")
	}

	var entry *models.DebateEntry
	err := Transact(db, func(tx *sql.Tx) error {
		debate, err := GetDebate(tx, debateID)
		if err != nil {
			return err
		}
		if debate.IsResolved() {
			return &models.InvalidStateError{Kind: "debate", ID: debateID, State: string(debate.Status), Action: "add entry to"}
		}

		row := tx.QueryRowContext(context.Background(), `
			SELECT `+debateEntryColumns+` FROM debate_entries WHERE debate_id = ? AND agent_session_key = ?
		`, debateID, sessionKey)
		existing, err := scanDebateEntry(row)
		switch {
		case err == nil:
			existing.Position = position
			existing.Confidence = confidence
			existing.Evidence = evidence
			existing.Timestamp = now
			var evidenceVal any
			if evidence != "" {
				evidenceVal = evidence
			}
			_, err = tx.ExecContext(context.Background(), `
				UPDATE debate_entries SET position = ?, confidence = ?, evidence = ?, timestamp = ? WHERE id = ?
			`, position, confidence, evidenceVal, now, existing.ID)
			if err != nil {
				return fmt.Errorf("failed to update debate entry: %w", err)
			}
			entry = existing
			return nil
		case errors.Is(err, sql.ErrNoRows):
			entry = &models.DebateEntry{
				ID:              generatePrefixedID("entry"),
				DebateID:        debateID,
				AgentSessionKey: sessionKey,
				Position:        position,
				Confidence:      confidence,
				Evidence:        evidence,
				Timestamp:       now,
			}
			var evidenceVal any
			if evidence != "" {
				evidenceVal = evidence
			}
			_, err = tx.ExecContext(context.Background(), `
				INSERT INTO debate_entries (id, debate_id, agent_session_key, position, confidence, evidence, timestamp, votes)
				VALUES (?, ?, ?, ?, ?, ?, ?, 0)
			`, entry.ID, entry.DebateID, entry.AgentSessionKey, entry.Position, entry.Confidence, evidenceVal, entry.Timestamp)
			if err != nil {
				return fmt.Errorf("failed to insert debate entry: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("failed to query debate entry: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// VoteDebateEntry increments the vote count on an entry.
func VoteDebateEntry(db *sql.DB, entryID string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE debate_entries SET votes = votes + 1 WHERE id = ?
		`, entryID)
		if err != nil {
			return fmt.Errorf("failed to vote on debate entry: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "debate entry", ID: entryID}
		}
		return nil
	})
}

// ResolveDebate moves a debate to its terminal resolved state.
func ResolveDebate(db *sql.DB, debateID, resolution, resolvedBy string, now int64) (*models.Debate, error) {
	var debate *models.Debate
	err := Transact(db, func(tx *sql.Tx) error {
		existing, err := GetDebate(tx, debateID)
		if err != nil {
			return err
		}

		existing.Status = models.DebateStatusResolved
		existing.Resolution = resolution
		existing.ResolvedBy = resolvedBy
		existing.ResolvedAt = &now

		_, err = tx.ExecContext(context.Background(), `
			UPDATE debates SET status = ?, resolution = ?, resolved_by = ?, resolved_at = ? WHERE id = ?
		`, existing.Status, resolution, resolvedBy, now, debateID)
		if err != nil {
			return fmt.Errorf("failed to resolve debate: %w", err)
		}
		debate = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return debate, nil
}

// ListDebateEntries returns a debate's entries ordered by timestamp.
func ListDebateEntries(db *sql.DB, debateID string) ([]*models.DebateEntry, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT `+debateEntryColumns+` FROM debate_entries WHERE debate_id = ? ORDER BY timestamp ASC
	`, debateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debate entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.DebateEntry
	for rows.Next() {
		e, scanErr := scanDebateEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan debate entry row: %w", scanErr)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanDebate(row rowScanner) (*models.Debate, error) {
	var d models.Debate
	var resolvedAt sql.NullInt64
	var resolution, resolvedBy sql.NullString
	err := row.Scan(&d.ID, &d.TaskID, &d.Topic, &d.Status, &d.CreatedBy, &d.CreatedAt, &resolvedAt, &resolution, &resolvedBy)
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		d.ResolvedAt = &resolvedAt.Int64
	}
	d.Resolution = resolution.String
	d.ResolvedBy = resolvedBy.String
	return &d, nil
}

func scanDebateEntry(row rowScanner) (*models.DebateEntry, error) {
	var e models.DebateEntry
	var evidence sql.NullString
	err := row.Scan(&e.ID, &e.DebateID, &e.AgentSessionKey, &e.Position, &e.Confidence, &evidence, &e.Timestamp, &e.Votes)
	if err != nil {
		return nil, err
	}
	e.Evidence = evidence.String
	return &e, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const improvementColumns = `id, agent_session_key, type, title, description, status, created_at, reviewed_by, reviewed_at`

// ProposeImprovement files a new self-improvement proposal.
func ProposeImprovement(db *sql.DB, sessionKey string, impType models.ImprovementType, title, description string, now int64) (*models.Improvement, error) {
	if title == "" {
		return nil, errors.New("improvement title is required")
	}
	if impType == "" {
		return nil, errors.New("improvement type is required")
	}

	imp := &models.Improvement{
		ID:              generatePrefixedID("imp"),
		AgentSessionKey: sessionKey,
		Type:            impType,
		Title:           title,
		Description:     description,
		Status:          models.ImprovementProposed,
		CreatedAt:       now,
	}
	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO improvements (id, agent_session_key, type, title, description, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, imp.ID, imp.AgentSessionKey, imp.Type, imp.Title, imp.Description, imp.Status, imp.CreatedAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert improvement: %w", err)
	}
	return imp, nil
}

// GetImprovement retrieves a proposal by ID.
func GetImprovement(q Querier, id string) (*models.Improvement, error) {
	row := q.QueryRow(`SELECT `+improvementColumns+` FROM improvements WHERE id = ?`, id)
	imp, err := scanImprovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "improvement", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query improvement: %w", err)
	}
	return imp, nil
}

// ListImprovements returns proposals newest first, optionally filtered
// by status and type.
func ListImprovements(db *sql.DB, status models.ImprovementStatus, impType models.ImprovementType) ([]*models.Improvement, error) {
	query := `SELECT ` + improvementColumns + ` FROM improvements WHERE 1=1`
	var args []any
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	if impType != "" {
		query += ` AND type = ?`
		args = append(args, impType)
	}
	query += ` ORDER BY created_at DESC`
	return queryImprovements(db, query, args...)
}

// ListImprovementsByAgent returns one agent's proposals newest first.
func ListImprovementsByAgent(db *sql.DB, sessionKey string) ([]*models.Improvement, error) {
	return queryImprovements(db, `
		SELECT `+improvementColumns+` FROM improvements
		WHERE agent_session_key = ? ORDER BY created_at DESC
	`, sessionKey)
}

// ReviewImprovement records a review verdict. Reviewing an
// already-reviewed proposal overwrites the previous verdict.
func ReviewImprovement(db *sql.DB, id string, status models.ImprovementStatus, reviewedBy string, now int64) (*models.Improvement, error) {
	switch status {
	case models.ImprovementApproved, models.ImprovementRejected, models.ImprovementImplemented:
	default:
		return nil, fmt.Errorf("invalid review status %q", status)
	}

	var imp *models.Improvement
	err := Transact(db, func(tx *sql.Tx) error {
		existing, err := GetImprovement(tx, id)
		if err != nil {
			return err
		}
		existing.Status = status
		existing.ReviewedBy = reviewedBy
		existing.ReviewedAt = &now
		_, err = tx.ExecContext(context.Background(), `
			UPDATE improvements SET status = ?, reviewed_by = ?, reviewed_at = ? WHERE id = ?
		`, status, reviewedBy, now, id)
		if err != nil {
			return fmt.Errorf("failed to review improvement: %w", err)
		}
		imp = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return imp, nil
}

func queryImprovements(db *sql.DB, query string, args ...any) ([]*models.Improvement, error) {
	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query improvements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Improvement
	for rows.Next() {
		imp, scanErr := scanImprovement(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan improvement row: %w", scanErr)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

func scanImprovement(row rowScanner) (*models.Improvement, error) {
	var imp models.Improvement
	var reviewedBy sql.NullString
	var reviewedAt sql.NullInt64
	err := row.Scan(&imp.ID, &imp.AgentSessionKey, &imp.Type, &imp.Title, &imp.Description, &imp.Status, &imp.CreatedAt, &reviewedBy, &reviewedAt)
	if err != nil {
		return nil, err
	}
	imp.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		imp.ReviewedAt = &reviewedAt.Int64
	}
	return &imp, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const activityColumns = `id, timestamp, action_type, title, details, status, metadata`

// CreateActivity appends an entry to the activity stream.
func CreateActivity(db *sql.DB, timestamp int64, actionType, title, details, status string, metadata json.RawMessage) (*models.Activity, error) {
	if actionType == "" {
		return nil, errors.New("action type is required")
	}
	if title == "" {
		return nil, errors.New("activity title is required")
	}
	if len(metadata) > 0 && !json.Valid(metadata) {
		return nil, errors.New("activity metadata must be valid JSON")
	}

	a := &models.Activity{
		ID:         generatePrefixedID("act"),
		Timestamp:  timestamp,
		ActionType: actionType,
		Title:      title,
		Details:    details,
		Status:     status,
		Metadata:   metadata,
	}

	var detailsVal, metaVal any
	if details != "" {
		detailsVal = details
	}
	if len(metadata) > 0 {
		metaVal = string(metadata)
	}

	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO activities (id, timestamp, action_type, title, details, status, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.Timestamp, a.ActionType, a.Title, detailsVal, a.Status, metaVal)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert activity: %w", err)
	}
	return a, nil
}

// GetActivity retrieves one activity by ID.
func GetActivity(db *sql.DB, id string) (*models.Activity, error) {
	row := db.QueryRowContext(context.Background(), `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "activity", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	return a, nil
}

// ListActivities returns activities newest first, optionally filtered by
// action type, capped at limit (defaults to 100 when limit <= 0).
func ListActivities(db *sql.DB, actionType string, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + activityColumns + ` FROM activities`
	var args []any
	if actionType != "" {
		query += ` WHERE action_type = ?`
		args = append(args, actionType)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	return queryActivities(db, query, args...)
}

// UpdateActivityStatus patches the status of an activity; everything else
// on the stream is immutable.
func UpdateActivityStatus(db *sql.DB, id, status string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `UPDATE activities SET status = ? WHERE id = ?`, status, id)
		if err != nil {
			return fmt.Errorf("failed to update activity status: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "activity", ID: id}
		}
		return nil
	})
}

// DeleteActivity removes one activity from the stream.
func DeleteActivity(db *sql.DB, id string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `DELETE FROM activities WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "activity", ID: id}
		}
		return nil
	})
}

// ListActionTypes returns the distinct action types seen in the stream,
// sorted ascending.
func ListActionTypes(db *sql.DB) ([]string, error) {
	types, err := queryStringColumn(db, `SELECT DISTINCT action_type FROM activities ORDER BY action_type ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query action types: %w", err)
	}
	return types, nil
}

func queryActivities(q Querier, query string, args ...any) ([]*models.Activity, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Activity
	for rows.Next() {
		a, scanErr := scanActivity(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", scanErr)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	var details, metadata sql.NullString
	err := row.Scan(&a.ID, &a.Timestamp, &a.ActionType, &a.Title, &details, &a.Status, &metadata)
	if err != nil {
		return nil, err
	}
	a.Details = details.String
	if metadata.Valid && metadata.String != "" {
		a.Metadata = json.RawMessage(metadata.String)
	}
	return &a, nil
}

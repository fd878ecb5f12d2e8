package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const scheduledTaskColumns = `id, name, description, schedule_type, schedule, next_run, task_type, status, metadata`

// CreateScheduledTask registers a cron, recurring, or one-shot job.
func CreateScheduledTask(db *sql.DB, t *models.ScheduledTask) (*models.ScheduledTask, error) {
	if t.Name == "" {
		return nil, errors.New("scheduled task name is required")
	}
	if t.Schedule == "" {
		return nil, errors.New("schedule is required")
	}
	if t.TaskType == "" {
		return nil, errors.New("task type is required")
	}
	switch t.ScheduleType {
	case models.ScheduleTypeCron, models.ScheduleTypeRecurring, models.ScheduleTypeOnce:
	default:
		return nil, fmt.Errorf("invalid schedule type %q", t.ScheduleType)
	}
	if t.Status == "" {
		t.Status = models.ScheduledActive
	}
	if len(t.Metadata) > 0 && !json.Valid(t.Metadata) {
		return nil, errors.New("scheduled task metadata must be valid JSON")
	}
	if t.ID == "" {
		t.ID = generatePrefixedID("sched")
	}

	var nextRun, metadata any
	if t.NextRun != nil {
		nextRun = *t.NextRun
	}
	if len(t.Metadata) > 0 {
		metadata = string(t.Metadata)
	}
	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO scheduled_tasks (id, name, description, schedule_type, schedule, next_run, task_type, status, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, t.Description, t.ScheduleType, t.Schedule, nextRun, t.TaskType, t.Status, metadata)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert scheduled task: %w", err)
	}
	return t, nil
}

// GetScheduledTask retrieves a scheduled task by ID.
func GetScheduledTask(q Querier, id string) (*models.ScheduledTask, error) {
	row := q.QueryRow(`SELECT `+scheduledTaskColumns+` FROM scheduled_tasks WHERE id = ?`, id)
	t, err := scanScheduledTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "scheduled task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled task: %w", err)
	}
	return t, nil
}

// ListScheduledTasks returns all scheduled tasks, optionally filtered
// by status.
func ListScheduledTasks(db *sql.DB, status models.ScheduledTaskStatus) ([]*models.ScheduledTask, error) {
	query := `SELECT ` + scheduledTaskColumns + ` FROM scheduled_tasks`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY name ASC`
	return queryScheduledTasks(db, query, args...)
}

// ListWeekTasks returns the jobs visible in a calendar week: active
// cron/recurring jobs always show, one-shot jobs only when next_run
// falls inside [weekStart, weekEnd]. Jobs without a next_run and no
// repeating schedule are hidden.
func ListWeekTasks(db *sql.DB, weekStart, weekEnd int64) ([]*models.ScheduledTask, error) {
	return queryScheduledTasks(db, `
		SELECT `+scheduledTaskColumns+` FROM scheduled_tasks
		WHERE (status = ? AND schedule_type IN (?, ?))
		   OR (next_run IS NOT NULL AND next_run >= ? AND next_run <= ?)
		ORDER BY next_run ASC
	`, models.ScheduledActive, models.ScheduleTypeCron, models.ScheduleTypeRecurring, weekStart, weekEnd)
}

// UpdateScheduledTaskStatus patches a job's status.
func UpdateScheduledTaskStatus(db *sql.DB, id string, status models.ScheduledTaskStatus) error {
	return RetryWithBackoff(func() error {
		res, err := db.ExecContext(context.Background(), `
			UPDATE scheduled_tasks SET status = ? WHERE id = ?
		`, status, id)
		if err != nil {
			return fmt.Errorf("failed to update scheduled task status: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "scheduled task", ID: id}
		}
		return nil
	})
}

// DeleteScheduledTask removes a job.
func DeleteScheduledTask(db *sql.DB, id string) error {
	return RetryWithBackoff(func() error {
		res, err := db.ExecContext(context.Background(), `DELETE FROM scheduled_tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete scheduled task: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "scheduled task", ID: id}
		}
		return nil
	})
}

func queryScheduledTasks(db *sql.DB, query string, args ...any) ([]*models.ScheduledTask, error) {
	rows, err := db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.ScheduledTask
	for rows.Next() {
		t, scanErr := scanScheduledTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan scheduled task row: %w", scanErr)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanScheduledTask(row rowScanner) (*models.ScheduledTask, error) {
	var t models.ScheduledTask
	var description, metadata sql.NullString
	var nextRun sql.NullInt64
	err := row.Scan(&t.ID, &t.Name, &description, &t.ScheduleType, &t.Schedule,
		&nextRun, &t.TaskType, &t.Status, &metadata)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	if nextRun.Valid {
		n := nextRun.Int64
		t.NextRun = &n
	}
	if metadata.Valid && metadata.String != "" {
		t.Metadata = json.RawMessage(metadata.String)
	}
	return &t, nil
}

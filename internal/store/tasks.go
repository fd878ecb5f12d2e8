package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dotcommander/missionctl/internal/models"
)

const taskColumns = `id, title, description, status, priority, assignee_ids, created_by, created_at, updated_at, due_at, tags, parent_task_id`

// CreateTask creates a new task in the inbox column.
func CreateTask(db *sql.DB, title, description, createdBy string, priority models.TaskPriority, tags []string, dueAt *int64, parentTaskID string, now int64) (*models.Task, error) {
	if title == "" {
		return nil, errors.New("task title is required")
	}
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	taskID := generatePrefixedID("task")
	var parentVal, dueVal any
	if parentTaskID != "" {
		parentVal = parentTaskID
	}
	if dueAt != nil {
		dueVal = *dueAt
	}

	err := RetryWithBackoff(func() error {
		_, err := db.ExecContext(context.Background(), `
			INSERT INTO tasks (id, title, description, status, priority, assignee_ids, created_by, created_at, updated_at, due_at, tags, parent_task_id)
			VALUES (?, ?, ?, ?, ?, '[]', ?, ?, ?, ?, ?, ?)
		`, taskID, title, description, models.TaskStatusInbox, priority, createdBy, now, now, dueVal, encodeStringList(tags), parentVal)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return GetTask(db, taskID)
}

// GetTask retrieves a task by ID.
func GetTask(q Querier, taskID string) (*models.Task, error) {
	row := q.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, taskID)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Kind: "task", ID: taskID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}
	return task, nil
}

// ListTasks retrieves all tasks, optionally filtered by status,
// newest first. An empty status means no constraint.
func ListTasks(db *sql.DB, status models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	return queryTasks(db, query, args...)
}

// ListTasksByAssignee returns tasks whose assignee set contains sessionKey.
func ListTasksByAssignee(db *sql.DB, sessionKey string) ([]*models.Task, error) {
	tasks, err := queryTasks(db, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	var out []*models.Task
	for _, t := range tasks {
		if t.HasAssignee(sessionKey) {
			out = append(out, t)
		}
	}
	return out, nil
}

// UpdateTaskStatus updates the status and bumps updated_at.
// Fails fast when the task does not exist.
func UpdateTaskStatus(db *sql.DB, taskID string, status models.TaskStatus, now int64) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `
			UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?
		`, status, now, taskID)
		if err != nil {
			return fmt.Errorf("failed to update task status: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "task", ID: taskID}
		}
		return nil
	})
}

// TaskUpdate holds the optional fields of UpdateTask; nil fields are
// left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssigneeIDs *[]string
	Tags        *[]string
	DueAt       *int64
}

// UpdateTask applies a partial update and bumps updated_at.
func UpdateTask(db *sql.DB, taskID string, upd TaskUpdate, now int64) (*models.Task, error) {
	var task *models.Task
	err := Transact(db, func(tx *sql.Tx) error {
		existing, err := GetTask(tx, taskID)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			existing.Title = *upd.Title
		}
		if upd.Description != nil {
			existing.Description = *upd.Description
		}
		if upd.Status != nil {
			existing.Status = *upd.Status
		}
		if upd.Priority != nil {
			existing.Priority = *upd.Priority
		}
		if upd.AssigneeIDs != nil {
			existing.AssigneeIDs = *upd.AssigneeIDs
		}
		if upd.Tags != nil {
			existing.Tags = *upd.Tags
		}
		if upd.DueAt != nil {
			existing.DueAt = upd.DueAt
		}
		existing.UpdatedAt = now

		var dueVal any
		if existing.DueAt != nil {
			dueVal = *existing.DueAt
		}
		_, err = tx.ExecContext(context.Background(), `
			UPDATE tasks
			SET title = ?, description = ?, status = ?, priority = ?, assignee_ids = ?, tags = ?, due_at = ?, updated_at = ?
			WHERE id = ?
		`, existing.Title, existing.Description, existing.Status, existing.Priority,
			encodeStringList(existing.AssigneeIDs), encodeStringList(existing.Tags), dueVal, now, taskID)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		task = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AssignTask adds an assignee and auto-subscribes them to the task's
// thread in the same transaction. Assigning an inbox task promotes it to
// assigned; any other status is left alone. Re-assigning an existing
// assignee only ensures the subscription exists.
func AssignTask(db *sql.DB, taskID, sessionKey string, now int64) (*models.Task, error) {
	var task *models.Task
	err := Transact(db, func(tx *sql.Tx) error {
		existing, err := GetTask(tx, taskID)
		if err != nil {
			return err
		}

		if !existing.HasAssignee(sessionKey) {
			existing.AssigneeIDs = append(existing.AssigneeIDs, sessionKey)
			if existing.Status == models.TaskStatusInbox {
				existing.Status = models.TaskStatusAssigned
			}
			existing.UpdatedAt = now

			_, err = tx.ExecContext(context.Background(), `
				UPDATE tasks SET assignee_ids = ?, status = ?, updated_at = ? WHERE id = ?
			`, encodeStringList(existing.AssigneeIDs), existing.Status, now, taskID)
			if err != nil {
				return fmt.Errorf("failed to assign task: %w", err)
			}
		}

		if err := subscribeThreadTx(tx, taskID, sessionKey, now); err != nil {
			return err
		}

		task = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task. Fails fast when the task does not exist.
func DeleteTask(db *sql.DB, taskID string) error {
	return RetryWithBackoff(func() error {
		result, err := db.ExecContext(context.Background(), `DELETE FROM tasks WHERE id = ?`, taskID)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return &models.NotFoundError{Kind: "task", ID: taskID}
		}
		return nil
	})
}

func queryTasks(q Querier, query string, args ...any) ([]*models.Task, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*models.Task
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", scanErr)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var assignees, tags string
	var dueAt sql.NullInt64
	var parent sql.NullString

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &assignees,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &dueAt, &tags, &parent)
	if err != nil {
		return nil, err
	}

	if t.AssigneeIDs, err = decodeStringList(assignees); err != nil {
		return nil, err
	}
	if t.Tags, err = decodeStringList(tags); err != nil {
		return nil, err
	}
	if dueAt.Valid {
		t.DueAt = &dueAt.Int64
	}
	t.ParentTaskID = parent.String
	return &t, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ClearDemoData empties the tables the seed loader fills: activities,
// documents, and scheduled tasks. The FTS delete triggers keep the
// search index in step. Agents, tasks, and messages are left alone.
func ClearDemoData(db *sql.DB) error {
	return Transact(db, func(tx *sql.Tx) error {
		for _, table := range []string{"activities", "documents", "scheduled_tasks"} {
			if _, err := tx.ExecContext(context.Background(), `DELETE FROM `+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

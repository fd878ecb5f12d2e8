package commands

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewScheduleCmd creates the schedule command group
func NewScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled jobs shown on the calendar",
		Long:  "Cron, recurring, and one-shot jobs. Active cron/recurring jobs appear in every week view; one-shot jobs only in the week of their next run.",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newScheduleAddCmd())
	cmd.AddCommand(newScheduleListCmd())
	cmd.AddCommand(newScheduleWeekCmd())
	cmd.AddCommand(newScheduleSetStatusCmd())
	cmd.AddCommand(newScheduleDeleteCmd())

	return cmd
}

func newScheduleAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a scheduled job",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("desc")
			scheduleType, _ := cmd.Flags().GetString("schedule-type")
			schedule, _ := cmd.Flags().GetString("schedule")
			nextRun, _ := cmd.Flags().GetInt64("next-run")
			taskType, _ := cmd.Flags().GetString("task-type")
			metadata, _ := cmd.Flags().GetString("metadata")

			if name == "" {
				return cmdErr(errors.New("--name is required"))
			}
			if schedule == "" {
				return cmdErr(errors.New("--schedule is required"))
			}
			if taskType == "" {
				return cmdErr(errors.New("--task-type is required"))
			}

			task := &models.ScheduledTask{
				Name:         name,
				Description:  desc,
				ScheduleType: models.ScheduleType(scheduleType),
				Schedule:     schedule,
				TaskType:     taskType,
			}
			if nextRun > 0 {
				task.NextRun = &nextRun
			}
			if metadata != "" {
				task.Metadata = json.RawMessage(metadata)
			}

			if err := withDB(func(db *DB) error {
				t, err := store.CreateScheduledTask(db, task)
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.ScheduledTask `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("name", "", "Job name (required)")
	cmd.Flags().String("desc", "", "Job description")
	cmd.Flags().String("schedule-type", "once", "Schedule type options: cron|recurring|once")
	cmd.Flags().String("schedule", "", "Schedule expression, e.g. a cron spec or 'daily 09:00' (required)")
	cmd.Flags().Int64("next-run", 0, "Next run as ms epoch")
	cmd.Flags().String("task-type", "", "What the job does, e.g. standup, sync, report (required)")
	cmd.Flags().String("metadata", "", "Opaque JSON metadata")

	return cmd
}

func newScheduleListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			var tasks []*models.ScheduledTask
			if err := withDB(func(db *DB) error {
				list, err := store.ListScheduledTasks(db, models.ScheduledTaskStatus(status))
				if err != nil {
					return err
				}
				tasks = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Tasks []*models.ScheduledTask `json:"tasks"`
				Count int                     `json:"count"`
			}
			return output.PrintSuccess(resp{Tasks: tasks, Count: len(tasks)})
		},
	}

	cmd.Flags().String("status", "", "Filter by status (active, paused, completed)")

	return cmd
}

func newScheduleWeekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show jobs visible in a calendar week",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")

			start := time.Now()
			if from != "" {
				parsed, err := time.ParseInLocation("2006-01-02", from, time.Local)
				if err != nil {
					return cmdErr(err)
				}
				start = parsed
			}
			weekStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
			weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Millisecond)

			var tasks []*models.ScheduledTask
			if err := withDB(func(db *DB) error {
				list, err := store.ListWeekTasks(db, weekStart.UnixMilli(), weekEnd.UnixMilli())
				if err != nil {
					return err
				}
				tasks = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				WeekStart int64                   `json:"week_start"`
				WeekEnd   int64                   `json:"week_end"`
				Tasks     []*models.ScheduledTask `json:"tasks"`
				Count     int                     `json:"count"`
			}
			return output.PrintSuccess(resp{
				WeekStart: weekStart.UnixMilli(),
				WeekEnd:   weekEnd.UnixMilli(),
				Tasks:     tasks,
				Count:     len(tasks),
			})
		},
	}

	cmd.Flags().String("from", "", "Week start date as YYYY-MM-DD (default today)")

	return cmd
}

func newScheduleSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Change a job's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			status, _ := cmd.Flags().GetString("status")

			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if status == "" {
				return cmdErr(errors.New("--status is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.UpdateScheduledTaskStatus(db, id, models.ScheduledTaskStatus(status))
			}); err != nil {
				return err
			}

			type resp struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			}
			return output.PrintSuccess(resp{ID: id, Status: status})
		},
	}

	cmd.Flags().String("id", "", "Job ID (required)")
	cmd.Flags().String("status", "", "New status options: active|paused|completed")

	return cmd
}

func newScheduleDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a scheduled job",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.DeleteScheduledTask(db, id)
			}); err != nil {
				return err
			}

			type resp struct {
				ID      string `json:"id"`
				Deleted bool   `json:"deleted"`
			}
			return output.PrintSuccess(resp{ID: id, Deleted: true})
		},
	}

	cmd.Flags().String("id", "", "Job ID (required)")

	return cmd
}

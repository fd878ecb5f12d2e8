package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewTaskCmd creates the task command group
func NewTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage board tasks",
		Long:  "Create, assign, and query tasks. Valid statuses: inbox, assigned, in_progress, review, done, blocked",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskGetCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskSetStatusCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskAssignCmd())
	cmd.AddCommand(newTaskSubscribeCmd())
	cmd.AddCommand(newTaskUnsubscribeCmd())
	cmd.AddCommand(newTaskSubscribersCmd())
	cmd.AddCommand(newTaskDeleteCmd())

	return cmd
}

func newTaskSubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Subscribe to a task's comment thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.SubscribeThread(db, taskID, agent, nowMs())
			}); err != nil {
				return err
			}

			type resp struct {
				TaskID     string `json:"task_id"`
				Agent      string `json:"agent"`
				Subscribed bool   `json:"subscribed"`
			}
			return output.PrintSuccess(resp{TaskID: taskID, Agent: agent, Subscribed: true})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}

func newTaskUnsubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsubscribe",
		Short: "Unsubscribe from a task's comment thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.UnsubscribeThread(db, taskID, agent)
			}); err != nil {
				return err
			}

			type resp struct {
				TaskID     string `json:"task_id"`
				Agent      string `json:"agent"`
				Subscribed bool   `json:"subscribed"`
			}
			return output.PrintSuccess(resp{TaskID: taskID, Agent: agent, Subscribed: false})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}

func newTaskSubscribersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "List a task's thread subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")
			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var subs []*models.ThreadSubscription
			if err := withDB(func(db *DB) error {
				list, err := store.ListThreadSubscribers(db, taskID)
				if err != nil {
					return err
				}
				subs = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Subscribers []*models.ThreadSubscription `json:"subscribers"`
				Count       int                          `json:"count"`
			}
			return output.PrintSuccess(resp{Subscribers: subs, Count: len(subs)})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			desc, _ := cmd.Flags().GetString("desc")
			priority, _ := cmd.Flags().GetString("priority")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			parentID, _ := cmd.Flags().GetString("parent-id")
			dueAt, _ := cmd.Flags().GetInt64("due-at")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if title == "" {
				return cmdErr(errors.New("--title is required"))
			}

			var due *int64
			if dueAt > 0 {
				due = &dueAt
			}

			var task *models.Task
			if err := withDB(func(db *DB) error {
				t, err := store.CreateTask(db, title, desc, agent, models.TaskPriority(priority), tags, due, parentID, nowMs())
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.Task `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("title", "", "Task title (required)")
	cmd.Flags().String("desc", "", "Task description")
	cmd.Flags().String("priority", "", "Priority (low|medium|high|urgent, default medium)")
	cmd.Flags().StringSlice("tag", nil, "Task tag (repeatable)")
	cmd.Flags().String("parent-id", "", "Parent task ID")
	cmd.Flags().Int64("due-at", 0, "Due timestamp (unix ms)")

	return cmd
}

func newTaskGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a task with its thread",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")
			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var task *models.Task
			var messages []*models.Message
			if err := withDB(func(db *DB) error {
				t, err := store.GetTask(db, taskID)
				if err != nil {
					return err
				}
				msgs, err := store.ListMessagesByTask(db, taskID)
				if err != nil {
					return err
				}
				task = t
				messages = msgs
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Task     *models.Task      `json:"task"`
				Messages []*models.Message `json:"messages"`
			}
			return output.PrintSuccess(resp{Task: task, Messages: messages})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}

func newTaskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally by status or assignee",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			assignee, _ := cmd.Flags().GetString("assignee")

			var tasks []*models.Task
			if err := withDB(func(db *DB) error {
				var err error
				if assignee != "" {
					tasks, err = store.ListTasksByAssignee(db, assignee)
				} else {
					tasks, err = store.ListTasks(db, models.TaskStatus(status))
				}
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Tasks []*models.Task `json:"tasks"`
				Count int            `json:"count"`
			}
			return output.PrintSuccess(resp{Tasks: tasks, Count: len(tasks)})
		},
	}

	cmd.Flags().String("status", "", "Filter by status")
	cmd.Flags().String("assignee", "", "Filter by assignee session key")

	return cmd
}

func newTaskSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Update task status (inbox|assigned|in_progress|review|done|blocked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")
			status, _ := cmd.Flags().GetString("status")

			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if status == "" {
				return cmdErr(errors.New("--status is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.UpdateTaskStatus(db, taskID, models.TaskStatus(status), nowMs())
			}); err != nil {
				return err
			}

			type resp struct {
				TaskID string `json:"task_id"`
				Status string `json:"status"`
			}
			return output.PrintSuccess(resp{TaskID: taskID, Status: status})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	cmd.Flags().String("status", "", "New status (required)")

	return cmd
}

func newTaskUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Partially update a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")
			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var upd store.TaskUpdate
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				upd.Title = &v
			}
			if cmd.Flags().Changed("desc") {
				v, _ := cmd.Flags().GetString("desc")
				upd.Description = &v
			}
			if cmd.Flags().Changed("priority") {
				v, _ := cmd.Flags().GetString("priority")
				p := models.TaskPriority(v)
				upd.Priority = &p
			}
			if cmd.Flags().Changed("tag") {
				v, _ := cmd.Flags().GetStringSlice("tag")
				upd.Tags = &v
			}
			if cmd.Flags().Changed("due-at") {
				v, _ := cmd.Flags().GetInt64("due-at")
				upd.DueAt = &v
			}

			var task *models.Task
			if err := withDB(func(db *DB) error {
				t, err := store.UpdateTask(db, taskID, upd, nowMs())
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.Task `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("desc", "", "New description")
	cmd.Flags().String("priority", "", "New priority")
	cmd.Flags().StringSlice("tag", nil, "Replace tags (repeatable)")
	cmd.Flags().Int64("due-at", 0, "New due timestamp (unix ms)")

	return cmd
}

func newTaskAssignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign an agent to a task (subscribes them to the thread)",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")
			sessionKey, _ := cmd.Flags().GetString("session-key")

			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if sessionKey == "" {
				return cmdErr(errors.New("--session-key is required"))
			}

			var task *models.Task
			if err := withDB(func(db *DB) error {
				t, err := store.AssignTask(db, taskID, sessionKey, nowMs())
				if err != nil {
					return err
				}
				task = t
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Task *models.Task `json:"task"`
			}
			return output.PrintSuccess(resp{Task: task})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")
	cmd.Flags().String("session-key", "", "Agent session key (required)")

	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("id")
			if taskID == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.DeleteTask(db, taskID)
			}); err != nil {
				return err
			}

			type resp struct {
				TaskID  string `json:"task_id"`
				Deleted bool   `json:"deleted"`
			}
			return output.PrintSuccess(resp{TaskID: taskID, Deleted: true})
		},
	}

	cmd.Flags().String("id", "", "Task ID (required)")

	return cmd
}

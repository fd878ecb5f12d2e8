package commands

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewLogCmd creates the log command group
func NewLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append and query agent worklogs",
		Long:  "Append-only per-agent log stream. Valid types: action, thinking, error, heartbeat, self_improve",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newLogAppendCmd())
	cmd.AddCommand(newLogListCmd())
	cmd.AddCommand(newLogRecentCmd())

	return cmd
}

func newLogAppendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append a log entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			logType, _ := cmd.Flags().GetString("type")
			content, _ := cmd.Flags().GetString("content")
			taskID, _ := cmd.Flags().GetString("task-id")
			metadata, _ := cmd.Flags().GetString("metadata")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if content == "" {
				return cmdErr(errors.New("--content is required"))
			}

			var meta json.RawMessage
			if metadata != "" {
				meta = json.RawMessage(metadata)
			}

			var entry *models.AgentLog
			if err := withDB(func(db *DB) error {
				e, err := store.AppendAgentLog(db, agent, models.AgentLogType(logType), content, taskID, meta, nowMs())
				if err != nil {
					return err
				}
				entry = e
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Log *models.AgentLog `json:"log"`
			}
			return output.PrintSuccess(resp{Log: entry})
		},
	}

	cmd.Flags().String("type", "", "Log type (default action)")
	cmd.Flags().String("content", "", "Log content (required)")
	cmd.Flags().String("task-id", "", "Related task ID")
	cmd.Flags().String("metadata", "", "Opaque JSON metadata")

	return cmd
}

func newLogListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an agent's logs newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			logType, _ := cmd.Flags().GetString("type")
			limit, _ := cmd.Flags().GetInt("limit")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}

			var logs []*models.AgentLog
			if err := withDB(func(db *DB) error {
				list, err := store.ListAgentLogs(db, agent, models.AgentLogType(logType), limit)
				if err != nil {
					return err
				}
				logs = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Logs  []*models.AgentLog `json:"logs"`
				Count int                `json:"count"`
			}
			return output.PrintSuccess(resp{Logs: logs, Count: len(logs)})
		},
	}

	cmd.Flags().String("type", "", "Filter by log type")
	cmd.Flags().Int("limit", 50, "Maximum logs to return")

	return cmd
}

func newLogRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent logs across all agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			var logs []*models.AgentLog
			if err := withDB(func(db *DB) error {
				list, err := store.ListRecentLogs(db, limit)
				if err != nil {
					return err
				}
				logs = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Logs  []*models.AgentLog `json:"logs"`
				Count int                `json:"count"`
			}
			return output.PrintSuccess(resp{Logs: logs, Count: len(logs)})
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum logs to return")

	return cmd
}

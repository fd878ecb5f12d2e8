package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/actions"
	"github.com/dotcommander/missionctl/internal/app"
	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewAgentCmd creates the agent command group
func NewAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage fleet agents",
		Long:  "Register and query agents. Valid statuses: idle, active, blocked",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newAgentRegisterCmd())
	cmd.AddCommand(newAgentListCmd())
	cmd.AddCommand(newAgentSetStatusCmd())
	cmd.AddCommand(newAgentHeartbeatCmd())
	cmd.AddCommand(newAgentStatsCmd())
	cmd.AddCommand(newAgentOverviewCmd())

	return cmd
}

func newAgentRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			emoji, _ := cmd.Flags().GetString("emoji")
			sessionKey, _ := cmd.Flags().GetString("session-key")
			level, _ := cmd.Flags().GetString("level")

			if name == "" {
				return cmdErr(errors.New("--name is required"))
			}
			if sessionKey == "" {
				return cmdErr(errors.New("--session-key is required"))
			}

			var agent *models.Agent
			if err := withDB(func(db *DB) error {
				a, err := store.RegisterAgent(db, name, role, emoji, sessionKey, models.AgentLevel(level), nowMs())
				if err != nil {
					return err
				}
				agent = a
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Agent *models.Agent `json:"agent"`
			}
			return output.PrintSuccess(resp{Agent: agent})
		},
	}

	cmd.Flags().String("name", "", "Agent display name (required)")
	cmd.Flags().String("role", "", "Agent role description")
	cmd.Flags().String("emoji", "", "Agent emoji")
	cmd.Flags().String("session-key", "", "Stable session key identity (required)")
	cmd.Flags().String("level", "specialist", "Agent level (intern|specialist|lead)")

	return cmd
}

func newAgentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			var agents []*models.Agent
			if err := withDB(func(db *DB) error {
				list, err := store.ListAgents(db)
				if err != nil {
					return err
				}
				agents = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Agents []*models.Agent `json:"agents"`
				Count  int             `json:"count"`
			}
			return output.PrintSuccess(resp{Agents: agents, Count: len(agents)})
		},
	}
}

func newAgentSetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Update agent status (idle|active|blocked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionKey, _ := cmd.Flags().GetString("session-key")
			status, _ := cmd.Flags().GetString("status")

			if sessionKey == "" {
				return cmdErr(errors.New("--session-key is required"))
			}
			switch models.AgentStatus(status) {
			case models.AgentStatusIdle, models.AgentStatusActive, models.AgentStatusBlocked:
			default:
				return cmdErr(errors.New("--status must be one of: idle, active, blocked"))
			}

			if err := withDB(func(db *DB) error {
				return store.UpdateAgentStatus(db, sessionKey, models.AgentStatus(status), nowMs())
			}); err != nil {
				return err
			}

			type resp struct {
				SessionKey string `json:"session_key"`
				Status     string `json:"status"`
			}
			return output.PrintSuccess(resp{SessionKey: sessionKey, Status: status})
		},
	}

	cmd.Flags().String("session-key", "", "Agent session key (required)")
	cmd.Flags().String("status", "", "New status (required)")

	return cmd
}

func newAgentHeartbeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Record a heartbeat, optionally updating the current task",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionKey, _ := cmd.Flags().GetString("session-key")
			taskID, _ := cmd.Flags().GetString("task-id")

			if sessionKey == "" {
				return cmdErr(errors.New("--session-key is required"))
			}

			now := nowMs()
			if err := withDB(func(db *DB) error {
				return store.UpdateAgentCurrentTask(db, sessionKey, taskID, now)
			}); err != nil {
				return err
			}

			type resp struct {
				SessionKey string `json:"session_key"`
				Heartbeat  int64  `json:"heartbeat"`
			}
			return output.PrintSuccess(resp{SessionKey: sessionKey, Heartbeat: now})
		},
	}

	cmd.Flags().String("session-key", "", "Agent session key (required)")
	cmd.Flags().String("task-id", "", "Current task ID (empty clears it)")

	return cmd
}

func newAgentStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show one agent's aggregate stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionKey, _ := cmd.Flags().GetString("session-key")
			if sessionKey == "" {
				return cmdErr(errors.New("--session-key is required"))
			}

			var stats *store.AgentStats
			if err := withDB(func(db *DB) error {
				s, err := store.GetAgentStats(db, sessionKey)
				if err != nil {
					return err
				}
				stats = s
				return nil
			}); err != nil {
				return err
			}

			return output.PrintSuccess(stats)
		},
	}

	cmd.Flags().String("session-key", "", "Agent session key (required)")

	return cmd
}

func newAgentOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Fleet overview with derived liveness per agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []*actions.AgentOverview
			if err := withDB(func(db *DB) error {
				list, err := actions.FleetOverview(db, app.EffectiveHeartbeatInterval(), time.Now())
				if err != nil {
					return err
				}
				rows = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Agents []*actions.AgentOverview `json:"agents"`
				Count  int                      `json:"count"`
			}
			return output.PrintSuccess(resp{Agents: rows, Count: len(rows)})
		},
	}
}

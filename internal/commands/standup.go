package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/actions"
	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
)

// NewStandupCmd creates the standup command
func NewStandupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standup",
		Short: "Generate the daily standup report",
		Long:  "Per-agent report: tasks completed today, current in-progress and blocked tasks, and up to three key decisions from today's messages. Agents with nothing to report are omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, _ := cmd.Flags().GetString("day")

			now := time.Now()
			if day != "" {
				parsed, err := time.ParseInLocation("2006-01-02", day, time.Local)
				if err != nil {
					return cmdErr(fmt.Errorf("invalid --day %q, expected YYYY-MM-DD: %w", day, err))
				}
				now = parsed
			}

			var report []*models.AgentStandup
			if err := withDB(func(db *DB) error {
				r, err := actions.GenerateStandup(db, now)
				if err != nil {
					return err
				}
				report = r
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Date    string                 `json:"date"`
				Standup []*models.AgentStandup `json:"standup"`
			}
			return output.PrintSuccess(resp{Date: now.Format("2006-01-02"), Standup: report})
		},
	}

	cmd.Flags().String("day", "", "Day to report on (YYYY-MM-DD, default today)")

	return cmd
}

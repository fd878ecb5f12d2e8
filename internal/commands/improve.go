package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewImproveCmd creates the improve command group
func NewImproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "improve",
		Short: "File and review self-improvement proposals",
		Long:  "Proposal types: soul_update, tool_suggestion, workflow_change, bug_report, efficiency. Review verdicts: approved, rejected, implemented.",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newImproveProposeCmd())
	cmd.AddCommand(newImproveListCmd())
	cmd.AddCommand(newImproveReviewCmd())

	return cmd
}

func newImproveProposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "File a new proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			impType, _ := cmd.Flags().GetString("type")
			title, _ := cmd.Flags().GetString("title")
			desc, _ := cmd.Flags().GetString("desc")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if title == "" {
				return cmdErr(errors.New("--title is required"))
			}
			if impType == "" {
				return cmdErr(errors.New("--type is required"))
			}

			var imp *models.Improvement
			if err := withDB(func(db *DB) error {
				i, err := store.ProposeImprovement(db, agent, models.ImprovementType(impType), title, desc, nowMs())
				if err != nil {
					return err
				}
				imp = i
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Improvement *models.Improvement `json:"improvement"`
			}
			return output.PrintSuccess(resp{Improvement: imp})
		},
	}

	cmd.Flags().String("type", "", "Proposal type (required)")
	cmd.Flags().String("title", "", "Proposal title (required)")
	cmd.Flags().String("desc", "", "Proposal description")

	return cmd
}

func newImproveListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List proposals newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			impType, _ := cmd.Flags().GetString("type")
			byAgent, _ := cmd.Flags().GetString("by-agent")

			var imps []*models.Improvement
			if err := withDB(func(db *DB) error {
				var err error
				if byAgent != "" {
					imps, err = store.ListImprovementsByAgent(db, byAgent)
				} else {
					imps, err = store.ListImprovements(db, models.ImprovementStatus(status), models.ImprovementType(impType))
				}
				return err
			}); err != nil {
				return err
			}

			type resp struct {
				Improvements []*models.Improvement `json:"improvements"`
				Count        int                   `json:"count"`
			}
			return output.PrintSuccess(resp{Improvements: imps, Count: len(imps)})
		},
	}

	cmd.Flags().String("status", "", "Filter by status")
	cmd.Flags().String("type", "", "Filter by type")
	cmd.Flags().String("by-agent", "", "Filter by proposing agent session key")

	return cmd
}

func newImproveReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Record a review verdict (latest review wins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			verdict, _ := cmd.Flags().GetString("verdict")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if verdict == "" {
				return cmdErr(errors.New("--verdict is required"))
			}

			var imp *models.Improvement
			if err := withDB(func(db *DB) error {
				i, err := store.ReviewImprovement(db, id, models.ImprovementStatus(verdict), agent, nowMs())
				if err != nil {
					return err
				}
				imp = i
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Improvement *models.Improvement `json:"improvement"`
			}
			return output.PrintSuccess(resp{Improvement: imp})
		},
	}

	cmd.Flags().String("id", "", "Proposal ID (required)")
	cmd.Flags().String("verdict", "", "Verdict (approved|rejected|implemented)")

	return cmd
}

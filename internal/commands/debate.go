package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewDebateCmd creates the debate command group
func NewDebateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debate",
		Short: "Run structured debates on tasks",
		Long:  "Open debates, record one position per agent, vote, and resolve. Resolved debates reject new entries.",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newDebateStartCmd())
	cmd.AddCommand(newDebateListCmd())
	cmd.AddCommand(newDebateShowCmd())
	cmd.AddCommand(newDebateEntryCmd())
	cmd.AddCommand(newDebateVoteCmd())
	cmd.AddCommand(newDebateResolveCmd())

	return cmd
}

func newDebateStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a debate on a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("task-id")
			topic, _ := cmd.Flags().GetString("topic")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if taskID == "" {
				return cmdErr(errors.New("--task-id is required"))
			}
			if topic == "" {
				return cmdErr(errors.New("--topic is required"))
			}

			var debate *models.Debate
			if err := withDB(func(db *DB) error {
				d, err := store.CreateDebate(db, taskID, topic, agent, nowMs())
				if err != nil {
					return err
				}
				debate = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Debate *models.Debate `json:"debate"`
			}
			return output.PrintSuccess(resp{Debate: debate})
		},
	}

	cmd.Flags().String("task-id", "", "Task ID (required)")
	cmd.Flags().String("topic", "", "Debate topic (required)")

	return cmd
}

func newDebateListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List debates newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			var debates []*models.Debate
			if err := withDB(func(db *DB) error {
				list, err := store.ListDebates(db, models.DebateStatus(status))
				if err != nil {
					return err
				}
				debates = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Debates []*models.Debate `json:"debates"`
				Count   int              `json:"count"`
			}
			return output.PrintSuccess(resp{Debates: debates, Count: len(debates)})
		},
	}

	cmd.Flags().String("status", "", "Filter by status (open|voting|resolved)")

	return cmd
}

func newDebateShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a debate with its entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var debate *models.Debate
			var entries []*models.DebateEntry
			if err := withDB(func(db *DB) error {
				d, err := store.GetDebate(db, id)
				if err != nil {
					return err
				}
				e, err := store.ListDebateEntries(db, id)
				if err != nil {
					return err
				}
				debate = d
				entries = e
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Debate  *models.Debate        `json:"debate"`
				Entries []*models.DebateEntry `json:"entries"`
			}
			return output.PrintSuccess(resp{Debate: debate, Entries: entries})
		},
	}

	cmd.Flags().String("id", "", "Debate ID (required)")

	return cmd
}

func newDebateEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Record your position (re-submitting updates it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			position, _ := cmd.Flags().GetString("position")
			confidence, _ := cmd.Flags().GetInt("confidence")
			evidence, _ := cmd.Flags().GetString("evidence")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if position == "" {
				return cmdErr(errors.New("--position is required"))
			}
			if confidence < 0 || confidence > 100 {
				return cmdErr(errors.New("--confidence must be 0-100"))
			}

			var entry *models.DebateEntry
			if err := withDB(func(db *DB) error {
				e, err := store.AddDebateEntry(db, id, agent, position, confidence, evidence, nowMs())
				if err != nil {
					return err
				}
				entry = e
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Entry *models.DebateEntry `json:"entry"`
			}
			return output.PrintSuccess(resp{Entry: entry})
		},
	}

	cmd.Flags().String("id", "", "Debate ID (required)")
	cmd.Flags().String("position", "", "Position statement (required)")
	cmd.Flags().Int("confidence", 50, "Confidence 0-100")
	cmd.Flags().String("evidence", "", "Supporting evidence")

	return cmd
}

func newDebateVoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Vote for a debate entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, _ := cmd.Flags().GetString("entry-id")
			if entryID == "" {
				return cmdErr(errors.New("--entry-id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.VoteDebateEntry(db, entryID)
			}); err != nil {
				return err
			}

			type resp struct {
				EntryID string `json:"entry_id"`
				Voted   bool   `json:"voted"`
			}
			return output.PrintSuccess(resp{EntryID: entryID, Voted: true})
		},
	}

	cmd.Flags().String("entry-id", "", "Debate entry ID (required)")

	return cmd
}

func newDebateResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a debate (terminal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			resolution, _ := cmd.Flags().GetString("resolution")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if resolution == "" {
				return cmdErr(errors.New("--resolution is required"))
			}

			var debate *models.Debate
			if err := withDB(func(db *DB) error {
				d, err := store.ResolveDebate(db, id, resolution, agent, nowMs())
				if err != nil {
					return err
				}
				debate = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Debate *models.Debate `json:"debate"`
			}
			return output.PrintSuccess(resp{Debate: debate})
		},
	}

	cmd.Flags().String("id", "", "Debate ID (required)")
	cmd.Flags().String("resolution", "", "Resolution text (required)")

	return cmd
}

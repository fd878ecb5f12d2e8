package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/actions"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data (agents, tasks, activities, documents, jobs)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary *actions.SeedSummary
			if err := withDB(func(db *DB) error {
				if reset {
					if err := store.ClearDemoData(db); err != nil {
						return err
					}
				}
				s, err := actions.SeedDemoData(db, nowMs())
				if err != nil {
					return err
				}
				summary = s
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Seeded *actions.SeedSummary `json:"seeded"`
			}
			return output.PrintSuccess(resp{Seeded: summary})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Clear seedable tables before loading")

	return cmd
}

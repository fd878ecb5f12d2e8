package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/actions"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/search"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search activities and documents",
		Long:  "Full-text search across activity titles/details and document content/titles. Use --detail for the larger per-kind caps plus exact-match filters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			detail, _ := cmd.Flags().GetBool("detail")
			actionType, _ := cmd.Flags().GetString("action-type")
			source, _ := cmd.Flags().GetString("source")

			if query == "" {
				return cmdErr(errors.New("--query is required"))
			}

			var results *search.Results
			if err := withDB(func(db *DB) error {
				var err error
				if detail || actionType != "" || source != "" {
					results, err = actions.DetailSearch(db, query, actionType, source)
				} else {
					results, err = actions.PreviewSearch(db, query)
				}
				return err
			}); err != nil {
				return err
			}

			return output.PrintSuccess(results)
		},
	}

	cmd.Flags().StringP("query", "q", "", "Search text (required)")
	cmd.Flags().Bool("detail", false, "Use the larger per-kind result cap")
	cmd.Flags().String("action-type", "", "Restrict activities to one action type")
	cmd.Flags().String("source", "", "Restrict documents to one source")

	return cmd
}

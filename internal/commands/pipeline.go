package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewPipelineCmd creates the pipeline command group
func NewPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage the content pipeline",
		Long:  "Kanban-style content workflow: idea, researching, draft, review, revision, approved, published, promoted.",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newPipelineAddCmd())
	cmd.AddCommand(newPipelineListCmd())
	cmd.AddCommand(newPipelineUpdateCmd())
	cmd.AddCommand(newPipelineEventsCmd())

	return cmd
}

func newPipelineAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a content idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			contentType, _ := cmd.Flags().GetString("type")
			platform, _ := cmd.Flags().GetString("platform")
			keywords, _ := cmd.Flags().GetStringSlice("keyword")

			if title == "" {
				return cmdErr(errors.New("--title is required"))
			}
			if contentType == "" {
				return cmdErr(errors.New("--type is required"))
			}

			item := &models.PipelineItem{
				Title:          title,
				ContentType:    contentType,
				TargetPlatform: platform,
				Keywords:       keywords,
			}
			if err := withDB(func(db *DB) error {
				i, err := store.CreatePipelineItem(db, item)
				if err != nil {
					return err
				}
				item = i
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Item *models.PipelineItem `json:"item"`
			}
			return output.PrintSuccess(resp{Item: item})
		},
	}

	cmd.Flags().String("title", "", "Content title (required)")
	cmd.Flags().String("type", "", "Content type, e.g. blog, thread, video (required)")
	cmd.Flags().String("platform", "", "Target platform")
	cmd.Flags().StringSlice("keyword", nil, "Keyword (repeatable)")

	return cmd
}

func newPipelineListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipeline items newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			var items []*models.PipelineItem
			if err := withDB(func(db *DB) error {
				list, err := store.ListPipelineItems(db, models.PipelineStatus(status))
				if err != nil {
					return err
				}
				items = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Items []*models.PipelineItem `json:"items"`
				Count int                    `json:"count"`
			}
			return output.PrintSuccess(resp{Items: items, Count: len(items)})
		},
	}

	cmd.Flags().String("status", "", "Filter by status")

	return cmd
}

func newPipelineUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a pipeline item (records an event)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var update store.PipelineItemUpdate
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				s := models.PipelineStatus(v)
				update.Status = &s
			}
			if cmd.Flags().Changed("title") {
				v, _ := cmd.Flags().GetString("title")
				update.Title = &v
			}
			if cmd.Flags().Changed("word-count") {
				v, _ := cmd.Flags().GetInt("word-count")
				update.WordCount = &v
			}
			if cmd.Flags().Changed("quality") {
				v, _ := cmd.Flags().GetInt("quality")
				update.QualityScore = &v
			}
			if cmd.Flags().Changed("claim") {
				v, _ := cmd.Flags().GetString("claim")
				update.ClaimedBy = &v
			}
			if cmd.Flags().Changed("url") {
				v, _ := cmd.Flags().GetString("url")
				update.PublishedURL = &v
			}

			var item *models.PipelineItem
			if err := withDB(func(db *DB) error {
				i, err := store.UpdatePipelineItem(db, id, agent, update)
				if err != nil {
					return err
				}
				item = i
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Item *models.PipelineItem `json:"item"`
			}
			return output.PrintSuccess(resp{Item: item})
		},
	}

	cmd.Flags().String("id", "", "Pipeline item ID (required)")
	cmd.Flags().String("status", "", "New status")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().Int("word-count", 0, "Word count")
	cmd.Flags().Int("quality", 0, "Quality score 0-100")
	cmd.Flags().String("claim", "", "Claiming agent")
	cmd.Flags().String("url", "", "Published URL")

	return cmd
}

func newPipelineEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent pipeline events with item titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			var events []*models.PipelineEvent
			if err := withDB(func(db *DB) error {
				list, err := store.ListPipelineEvents(db, limit)
				if err != nil {
					return err
				}
				events = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Events []*models.PipelineEvent `json:"events"`
				Count  int                     `json:"count"`
			}
			return output.PrintSuccess(resp{Events: events, Count: len(events)})
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum events to return")

	return cmd
}

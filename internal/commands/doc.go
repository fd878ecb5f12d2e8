package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewDocCmd creates the doc command group
func NewDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Ingest and query knowledge documents",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newDocIngestCmd())
	cmd.AddCommand(newDocGetCmd())
	cmd.AddCommand(newDocListCmd())
	cmd.AddCommand(newDocDeleteCmd())

	return cmd
}

func newDocIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a document (re-ingest by source path replaces it)",
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			content, _ := cmd.Flags().GetString("content")
			file, _ := cmd.Flags().GetString("file")
			source, _ := cmd.Flags().GetString("source")
			sourcePath, _ := cmd.Flags().GetString("source-path")

			if title == "" {
				return cmdErr(errors.New("--title is required"))
			}
			if content == "" && file == "" {
				return cmdErr(errors.New("--content or --file is required"))
			}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return cmdErr(err)
				}
				content = string(data)
				if sourcePath == "" {
					sourcePath = file
				}
			}
			if source == "" {
				source = "manual"
			}

			var doc *models.Document
			if err := withDB(func(db *DB) error {
				d, err := store.UpsertDocument(db, title, content, source, sourcePath, nowMs())
				if err != nil {
					return err
				}
				doc = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Document *models.Document `json:"document"`
			}
			return output.PrintSuccess(resp{Document: doc})
		},
	}

	cmd.Flags().String("title", "", "Document title (required)")
	cmd.Flags().String("content", "", "Document content")
	cmd.Flags().String("file", "", "Read content from file")
	cmd.Flags().String("source", "", "Document source label (default manual)")
	cmd.Flags().String("source-path", "", "Stable source path for re-ingestion")

	return cmd
}

func newDocGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a document by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			var doc *models.Document
			if err := withDB(func(db *DB) error {
				d, err := store.GetDocument(db, id)
				if err != nil {
					return err
				}
				doc = d
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Document *models.Document `json:"document"`
			}
			return output.PrintSuccess(resp{Document: doc})
		},
	}

	cmd.Flags().String("id", "", "Document ID (required)")

	return cmd
}

func newDocListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			limit, _ := cmd.Flags().GetInt("limit")

			var docs []*models.Document
			if err := withDB(func(db *DB) error {
				list, err := store.ListDocuments(db, source, limit)
				if err != nil {
					return err
				}
				docs = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Documents []*models.Document `json:"documents"`
				Count     int                `json:"count"`
			}
			return output.PrintSuccess(resp{Documents: docs, Count: len(docs)})
		},
	}

	cmd.Flags().String("source", "", "Filter by source")
	cmd.Flags().Int("limit", 100, "Maximum documents to return")

	return cmd
}

func newDocDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.DeleteDocument(db, id)
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

	cmd.Flags().String("id", "", "Document ID (required)")

	return cmd
}

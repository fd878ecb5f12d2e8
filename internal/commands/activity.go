package commands

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewActivityCmd creates the activity command group
func NewActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Record and query the fleet activity stream",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newActivityAddCmd())
	cmd.AddCommand(newActivityListCmd())
	cmd.AddCommand(newActivitySetStatusCmd())
	cmd.AddCommand(newActivityTypesCmd())
	cmd.AddCommand(newActivityDeleteCmd())

	return cmd
}

func newActivityAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an activity to the stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			actionType, _ := cmd.Flags().GetString("action-type")
			title, _ := cmd.Flags().GetString("title")
			details, _ := cmd.Flags().GetString("details")
			status, _ := cmd.Flags().GetString("status")
			metadata, _ := cmd.Flags().GetString("metadata")

			if actionType == "" {
				return cmdErr(errors.New("--action-type is required"))
			}
			if title == "" {
				return cmdErr(errors.New("--title is required"))
			}

			var meta json.RawMessage
			if metadata != "" {
				meta = json.RawMessage(metadata)
			}

			var activity *models.Activity
			if err := withDB(func(db *DB) error {
				a, err := store.CreateActivity(db, nowMs(), actionType, title, details, status, meta)
				if err != nil {
					return err
				}
				activity = a
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Activity *models.Activity `json:"activity"`
			}
			return output.PrintSuccess(resp{Activity: activity})
		},
	}

	cmd.Flags().String("action-type", "", "Action type (required)")
	cmd.Flags().String("title", "", "Activity title (required)")
	cmd.Flags().String("details", "", "Activity details")
	cmd.Flags().String("status", "success", "Status (success|failed|pending)")
	cmd.Flags().String("metadata", "", "Opaque JSON metadata")

	return cmd
}

func newActivityListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List activities newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			actionType, _ := cmd.Flags().GetString("action-type")
			limit, _ := cmd.Flags().GetInt("limit")

			var activities []*models.Activity
			if err := withDB(func(db *DB) error {
				list, err := store.ListActivities(db, actionType, limit)
				if err != nil {
					return err
				}
				activities = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Activities []*models.Activity `json:"activities"`
				Count      int                `json:"count"`
			}
			return output.PrintSuccess(resp{Activities: activities, Count: len(activities)})
		},
	}

	cmd.Flags().String("action-type", "", "Filter by action type")
	cmd.Flags().Int("limit", 100, "Maximum activities to return")

	return cmd
}

func newActivitySetStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status",
		Short: "Update an activity's status",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			status, _ := cmd.Flags().GetString("status")

			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}
			if status == "" {
				return cmdErr(errors.New("--status is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.UpdateActivityStatus(db, id, status)
			}); err != nil {
				return err
			}

			type resp struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			}
			return output.PrintSuccess(resp{ID: id, Status: status})
		},
	}

	cmd.Flags().String("id", "", "Activity ID (required)")
	cmd.Flags().String("status", "", "New status (required)")

	return cmd
}

func newActivityTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List distinct action types",
		RunE: func(cmd *cobra.Command, args []string) error {
			var types []string
			if err := withDB(func(db *DB) error {
				list, err := store.ListActionTypes(db)
				if err != nil {
					return err
				}
				types = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				ActionTypes []string `json:"action_types"`
			}
			return output.PrintSuccess(resp{ActionTypes: types})
		},
	}
}

func newActivityDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.DeleteActivity(db, id)
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

	cmd.Flags().String("id", "", "Activity ID (required)")

	return cmd
}

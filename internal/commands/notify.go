package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewNotifyCmd creates the notify command group
func NewNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Query and acknowledge notifications",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newNotifyListCmd())
	cmd.AddCommand(newNotifyPendingCmd())
	cmd.AddCommand(newNotifyDeliverCmd())
	cmd.AddCommand(newNotifyReadCmd())
	cmd.AddCommand(newNotifyDeliverAllCmd())

	return cmd
}

func newNotifyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an agent's notifications newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			limit, _ := cmd.Flags().GetInt("limit")

			var notifs []*models.Notification
			if err := withDB(func(db *DB) error {
				list, err := store.ListNotifications(db, agent, limit)
				if err != nil {
					return err
				}
				notifs = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Notifications []*models.Notification `json:"notifications"`
				Count         int                    `json:"count"`
			}
			return output.PrintSuccess(resp{Notifications: notifs, Count: len(notifs)})
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum notifications to return")

	return cmd
}

func newNotifyPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List an agent's undelivered notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}

			var notifs []*models.Notification
			if err := withDB(func(db *DB) error {
				list, err := store.ListUndelivered(db, agent)
				if err != nil {
					return err
				}
				notifs = list
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Notifications []*models.Notification `json:"notifications"`
				Count         int                    `json:"count"`
			}
			return output.PrintSuccess(resp{Notifications: notifs, Count: len(notifs)})
		},
	}
}

func newNotifyDeliverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliver",
		Short: "Mark one notification delivered",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.MarkDelivered(db, id)
			}); err != nil {
				return err
			}

			type resp struct {
				ID        string `json:"id"`
				Delivered bool   `json:"delivered"`
			}
			return output.PrintSuccess(resp{ID: id, Delivered: true})
		},
	}

	cmd.Flags().String("id", "", "Notification ID (required)")

	return cmd
}

func newNotifyReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Mark one notification read (implies delivered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return cmdErr(errors.New("--id is required"))
			}

			if err := withDB(func(db *DB) error {
				return store.MarkRead(db, id, nowMs())
			}); err != nil {
				return err
			}

			type resp struct {
				ID   string `json:"id"`
				Read bool   `json:"read"`
			}
			return output.PrintSuccess(resp{ID: id, Read: true})
		},
	}

	cmd.Flags().String("id", "", "Notification ID (required)")

	return cmd
}

func newNotifyDeliverAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliver-all",
		Short: "Mark all of an agent's notifications delivered",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}

			var count int64
			if err := withDB(func(db *DB) error {
				n, err := store.MarkAllDelivered(db, agent)
				if err != nil {
					return err
				}
				count = n
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Delivered int64 `json:"delivered"`
			}
			return output.PrintSuccess(resp{Delivered: count})
		},
	}
}

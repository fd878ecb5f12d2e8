package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewMessageCmd creates the message command group
func NewMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Post and read task thread messages",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newMessagePostCmd())
	cmd.AddCommand(newMessageListCmd())
	cmd.AddCommand(newMessageSearchCmd())

	return cmd
}

func newMessageSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search message content (literal substring match)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			limit, _ := cmd.Flags().GetInt("limit")
			if text == "" {
				return cmdErr(errors.New("--text is required"))
			}

			var messages []*models.Message
			if err := withDB(func(db *DB) error {
				msgs, err := store.SearchMessages(db, text, limit)
				if err != nil {
					return err
				}
				messages = msgs
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Messages []*models.Message `json:"messages"`
				Count    int               `json:"count"`
			}
			return output.PrintSuccess(resp{Messages: messages, Count: len(messages)})
		},
	}

	cmd.Flags().String("text", "", "Text to search for (required)")
	cmd.Flags().Int("limit", 50, "Maximum messages to return")

	return cmd
}

func newMessagePostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a message to a task thread (fans out notifications)",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("task-id")
			content, _ := cmd.Flags().GetString("content")
			mentions, _ := cmd.Flags().GetStringSlice("mention")
			attachments, _ := cmd.Flags().GetStringSlice("attachment")

			from, _ := cmd.Flags().GetString("agent")
			if from == "" {
				// Dashboard-originated comments are attributed to "You".
				from = "You"
			}
			if taskID == "" {
				return cmdErr(errors.New("--task-id is required"))
			}
			if content == "" {
				return cmdErr(errors.New("--content is required"))
			}

			var msg *models.Message
			var notifs []*models.Notification
			if err := withDB(func(db *DB) error {
				m, n, err := store.CreateMessage(db, taskID, from, content, mentions, attachments, nowMs())
				if err != nil {
					return err
				}
				msg = m
				notifs = n
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Message       *models.Message        `json:"message"`
				Notifications []*models.Notification `json:"notifications"`
			}
			return output.PrintSuccess(resp{Message: msg, Notifications: notifs})
		},
	}

	cmd.Flags().String("task-id", "", "Task ID (required)")
	cmd.Flags().String("content", "", "Message content (required)")
	cmd.Flags().StringSlice("mention", nil, "Mentioned agent session key (repeatable)")
	cmd.Flags().StringSlice("attachment", nil, "Attachment ID (repeatable)")

	return cmd
}

func newMessageListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a task's messages oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, _ := cmd.Flags().GetString("task-id")
			if taskID == "" {
				return cmdErr(errors.New("--task-id is required"))
			}

			var messages []*models.Message
			if err := withDB(func(db *DB) error {
				msgs, err := store.ListMessagesByTask(db, taskID)
				if err != nil {
					return err
				}
				messages = msgs
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Messages []*models.Message `json:"messages"`
				Count    int               `json:"count"`
			}
			return output.PrintSuccess(resp{Messages: messages, Count: len(messages)})
		},
	}

	cmd.Flags().String("task-id", "", "Task ID (required)")

	return cmd
}

package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/models"
	"github.com/dotcommander/missionctl/internal/output"
	"github.com/dotcommander/missionctl/internal/store"
)

// NewModelCmd creates the model command group
func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage per-agent model routing",
		Long:  "Each agent routes to a default model, escalating to a smart model for configured task kinds. Daily token usage resets on a rolling 24h window.",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(newModelGetCmd())
	cmd.AddCommand(newModelSetCmd())
	cmd.AddCommand(newModelTrackCmd())

	return cmd
}

func newModelGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show an agent's model config (defaults if unset)",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}

			var cfg *models.ModelConfig
			if err := withDB(func(db *DB) error {
				c, err := store.GetModelConfig(db, agent, nowMs())
				if err != nil {
					return err
				}
				cfg = c
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Config *models.ModelConfig `json:"config"`
			}
			return output.PrintSuccess(resp{Config: cfg})
		},
	}
}

func newModelSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update an agent's model config",
		RunE: func(cmd *cobra.Command, args []string) error {
			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}

			var update store.ModelConfigUpdate
			if cmd.Flags().Changed("default-model") {
				v, _ := cmd.Flags().GetString("default-model")
				update.DefaultModel = &v
			}
			if cmd.Flags().Changed("smart-model") {
				v, _ := cmd.Flags().GetString("smart-model")
				update.SmartModel = &v
			}
			if cmd.Flags().Changed("use-smart-for") {
				v, _ := cmd.Flags().GetStringSlice("use-smart-for")
				update.UseSmartFor = v
			}
			if cmd.Flags().Changed("daily-budget") {
				v, _ := cmd.Flags().GetInt64("daily-budget")
				update.MaxTokenBudgetDaily = &v
			}

			var cfg *models.ModelConfig
			if err := withDB(func(db *DB) error {
				c, err := store.UpdateModelConfig(db, agent, update, nowMs())
				if err != nil {
					return err
				}
				cfg = c
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Config *models.ModelConfig `json:"config"`
			}
			return output.PrintSuccess(resp{Config: cfg})
		},
	}

	cmd.Flags().String("default-model", "", "Default model name")
	cmd.Flags().String("smart-model", "", "Smart model name")
	cmd.Flags().StringSlice("use-smart-for", nil, "Task kinds routed to the smart model")
	cmd.Flags().Int64("daily-budget", 0, "Max daily token budget")

	return cmd
}

func newModelTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record token usage against the daily counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, _ := cmd.Flags().GetInt64("tokens")

			agent, err := requireAgent(cmd)
			if err != nil {
				return cmdErr(err)
			}
			if tokens <= 0 {
				return cmdErr(errors.New("--tokens must be positive"))
			}

			var cfg *models.ModelConfig
			if err := withDB(func(db *DB) error {
				c, err := store.TrackTokenUsage(db, agent, tokens, nowMs())
				if err != nil {
					return err
				}
				cfg = c
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Config *models.ModelConfig `json:"config"`
			}
			return output.PrintSuccess(resp{Config: cfg})
		},
	}

	cmd.Flags().Int64("tokens", 0, "Token count to record (required)")

	return cmd
}

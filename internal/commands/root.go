package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/missionctl/internal/app"
	"github.com/dotcommander/missionctl/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "missionctl",
		Short:         "Agent fleet dashboard primitives (tasks, messages, search, standup, CRM)",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --db-path into app-level resolver.
			if dbPath, err := cmd.Flags().GetString("db-path"); err == nil && dbPath != "" {
				app.SetDBPathOverride(dbPath)
			}

			return nil
		},
	}

	root.PersistentFlags().String("db-path", "", "Override database path")
	root.PersistentFlags().StringP("agent", "a", "", "Acting agent session key (default: $MISSIONCTL_AGENT)")
	root.Flags().BoolP("version", "v", false, "version for missionctl")

	root.AddCommand(NewAgentCmd())
	root.AddCommand(NewTaskCmd())
	root.AddCommand(NewMessageCmd())
	root.AddCommand(NewNotifyCmd())
	root.AddCommand(NewSearchCmd())
	root.AddCommand(NewStandupCmd())
	root.AddCommand(NewActivityCmd())
	root.AddCommand(NewDocCmd())
	root.AddCommand(NewDebateCmd())
	root.AddCommand(NewLogCmd())
	root.AddCommand(NewImproveCmd())
	root.AddCommand(NewModelCmd())
	root.AddCommand(NewCRMCmd())
	root.AddCommand(NewPipelineCmd())
	root.AddCommand(NewScheduleCmd())
	root.AddCommand(NewSeedCmd())
	root.AddCommand(NewSchemaCmd(root))

	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}

package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// config is resolved once per invocation before any subcommand runs.
var config Config

var rootCmd = &cobra.Command{
	Use:           "akinator-cli",
	Short:         "akinator-cli plays akinator from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := resolveConfig(cmd.Flags())
		if err != nil {
			return err
		}
		config = resolved
		initSlog(config.Verbose)
		return nil
	},
}

func init() {
	bindFlags(rootCmd.PersistentFlags())
}

func initSlog(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

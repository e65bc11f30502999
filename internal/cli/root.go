// Package cli wires configuration, loading and the HTTP server behind the
// sigem command.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	envFile    string
	logLevel   string
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	serve := newServeCmd(flags)

	cmd := &cobra.Command{
		Use:          "sigem",
		Short:        "Dashboard of Honduran municipalities integrated into SIGEM",
		SilenceUsage: true,
		// Without a subcommand the server starts.
		RunE: serve.RunE,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "optional YAML config file; environment variables override it")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading configuration, if present")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(serve, newSummaryCmd(flags))
	return cmd
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sigem/internal/report"
)

func newSummaryCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Load the dataset once and print the per-department report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			// Logs go to stderr so the report stays clean on stdout.
			a, err := bootstrap(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			snap, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}

			return report.NewReporter(cmd.OutOrStdout(), f).Handle(snap)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(report.FormatText), "output format: text or json")
	return cmd
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/media-grabber/internal/app"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Show or clear the download history",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	historyListCmd = &cobra.Command{
		Use:              "list",
		Short:            "List recent downloads, newest first",
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			limit, _ := cmd.Flags().GetInt("limit")

			app.ExecuteHistoryListCommand(cmd.Context(), appConfig, limit)
		},
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	historyClearCmd = &cobra.Command{
		Use:              "clear",
		Short:            "Remove every history entry",
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			app.ExecuteHistoryClearCommand(cmd.Context(), appConfig)
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	historyListCmd.Flags().IntP("limit", "n", 0, "number of entries to show (default is all).")

	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/media-grabber/internal/version"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// The version is printed without reading the configuration.
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, _ []string) {
		if full, _ := cmd.Flags().GetBool("full"); full {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())

			return
		}

		fmt.Fprintln(cmd.OutOrStdout(), version.Short())
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	versionCmd.Flags().Bool("full", false, "include the commit and build time.")
	rootCmd.AddCommand(versionCmd)
}

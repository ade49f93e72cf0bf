package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/media-grabber/internal/app"
	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
)

// newProfileCommand creates the "posts" or "stories" command.
func newProfileCommand(kind backend.BatchKind, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   kind.String() + " [flags] {owner}",
		Short: short,
		Long: `Lists the latest items of an account and downloads them as one batch.
The number of items is capped by batch_limit.`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			name, _ := cmd.Flags().GetString("platform")

			platform, err := media.ParsePlatform(name)
			if err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			opts := mustParseDownloadFlags(cmd)

			app.ExecuteProfileCommand(cmd.Context(), appConfig, platform, args[0], kind, opts)
		},
	}

	addDownloadFlags(c.Flags())

	c.Flags().StringP(
		"platform",
		"P",
		media.PlatformInstagram.String(),
		"platform of the account: Instagram, TikTok, Facebook or YouTube.")

	return c
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(
		newProfileCommand(backend.BatchPosts, "Download the latest posts of an account"),
		newProfileCommand(backend.BatchStories, "Download the current stories of an account"),
	)
}

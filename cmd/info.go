package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/media-grabber/internal/app"
	"github.com/oshokin/media-grabber/internal/service/grabber"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var infoCmd = &cobra.Command{
	Use:   "info [flags] {urls}",
	Short: "Show the title, uploader and available qualities of media URLs",
	Long: `Fetches metadata without downloading anything.

For single items the available video and audio qualities are listed with their
format ids; pass a format id to the root command with --format-id to download
exactly that format. Playlists and galleries list their items.

With --download the URLs are downloaded right after their metadata is printed,
using the download flags of the root command.`,
	Args:             cobra.MinimumNArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, urls []string) {
		flags := cmd.Flags()

		opts := new(grabber.InfoOptions)
		opts.Preview, _ = flags.GetBool("preview")
		opts.ThumbnailPath, _ = flags.GetString("save-thumbnail")

		if opts.ThumbnailPath != "" {
			opts.Preview = true
		}

		var downloadOpts *grabber.DownloadOptions
		if download, _ := flags.GetBool("download"); download {
			downloadOpts = mustParseDownloadFlags(cmd)
		}

		app.ExecuteInfoCommand(cmd.Context(), appConfig, urls, opts, downloadOpts)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	infoCmd.Flags().BoolP(
		"preview",
		"p",
		false,
		"fetch the thumbnail of the last printed item.")

	infoCmd.Flags().String(
		"save-thumbnail",
		"",
		"save the previewed thumbnail to this file (implies --preview).")

	infoCmd.Flags().BoolP(
		"download",
		"d",
		false,
		"download the URLs after printing their metadata.")

	addDownloadFlags(infoCmd.Flags())
	infoCmd.Flags().String("format-id", "", "download exactly this format id (see the info output).")

	rootCmd.AddCommand(infoCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/media-grabber/internal/app"
	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/service/grabber"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "media-grabber [flags] {urls}",
		Short: "Download videos, clips, images and playlists from YouTube, Instagram, TikTok and Facebook.",
		Long: `Media Grabber is a CLI tool for downloading media from specified URLs.
It supports downloading:
- YouTube videos, shorts and playlists
- Instagram posts, reels, galleries and stories
- TikTok videos and photo posts
- Facebook videos and reels

Arguments ending with .txt are read as lists of URLs, one per line.
Use "info" to see the available qualities before downloading.`,
		Args:             cobra.MinimumNArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, urls []string) {
			opts := mustParseDownloadFlags(cmd)

			app.ExecuteRootCommand(cmd.Context(), appConfig, urls, opts)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cobra.CheckErr(err)
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	addDownloadFlags(rootCmd.Flags())

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.String(
		"format-id",
		"",
		"download the exact format listed by the info command.")

	rootCmdFlags.Float64(
		"trim-start",
		0,
		"cut single videos from this second on.")

	rootCmdFlags.Float64(
		"trim-end",
		0,
		"cut single videos up to this second.")
}

// addDownloadFlags registers the flags shared by every downloading command.
func addDownloadFlags(flags *pflag.FlagSet) {
	flags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded files (the path will be created if it doesn’t exist).")

	flags.StringP(
		"quality",
		"q",
		"",
		"quality label, for example: 1080p, 720p, 360p for video or 320kbps, 128kbps for audio.")

	flags.BoolP(
		"audio",
		"a",
		false,
		"download audio only.")

	flags.Bool(
		"embed-metadata",
		false,
		"write title, uploader and cover art into downloaded mp3 files.")

	flags.Bool(
		"backend-batch",
		false,
		"let the platform tool download playlists in one call.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("embed-metadata"); flag != nil && flag.Changed {
		cfg.EmbedMetadata, _ = flags.GetBool("embed-metadata")
	}

	if flag := flags.Lookup("backend-batch"); flag != nil && flag.Changed {
		cfg.UseBackendBatch, _ = flags.GetBool("backend-batch")
	}

	return config.ValidateConfig(cfg)
}

func mustParseDownloadFlags(cmd *cobra.Command) *grabber.DownloadOptions {
	opts, err := parseDownloadFlags(cmd.Flags())
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
	}

	return opts
}

// parseDownloadFlags turns per-run flags into download options. Unset flags leave the
// configured defaults in place.
func parseDownloadFlags(flags *pflag.FlagSet) (*grabber.DownloadOptions, error) {
	opts := new(grabber.DownloadOptions)

	if flag := flags.Lookup("quality"); flag != nil && flag.Changed {
		opts.Quality, _ = flags.GetString("quality")
	}

	if audio, _ := flags.GetBool("audio"); audio {
		opts.Kind = media.KindAudio
	}

	if flag := flags.Lookup("format-id"); flag != nil && flag.Changed {
		opts.FormatID, _ = flags.GetString("format-id")
	}

	var trim media.TrimWindow

	if flag := flags.Lookup("trim-start"); flag != nil && flag.Changed {
		start, _ := flags.GetFloat64("trim-start")
		trim.Start = &start
	}

	if flag := flags.Lookup("trim-end"); flag != nil && flag.Changed {
		end, _ := flags.GetFloat64("trim-end")
		trim.End = &end
	}

	if !trim.IsEmpty() {
		if err := trim.Validate(); err != nil {
			return nil, err
		}

		opts.Trim = &trim
	}

	return opts, nil
}

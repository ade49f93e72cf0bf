package app

import (
	"context"
	"time"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/service/grabber"
	"github.com/oshokin/media-grabber/internal/task"
)

// shutdownGracePeriod bounds how long cancelled tasks get to report back after CTRL+C.
const shutdownGracePeriod = 10 * time.Second

// ExecuteRootCommand is the entry point for the application.
// It downloads the provided URLs one after another and prints a summary at the end.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config, urls []string, opts *grabber.DownloadOptions) {
	runService(ctx, cfg, func(s grabber.Service, finish func()) {
		s.DownloadURLs(ctx, urls, opts, finish)
	})
}

// ExecuteProfileCommand downloads the posts or stories of owner.
func ExecuteProfileCommand(
	ctx context.Context,
	cfg *config.Config,
	platform media.Platform,
	owner string,
	kind backend.BatchKind,
	opts *grabber.DownloadOptions,
) {
	runService(ctx, cfg, func(s grabber.Service, finish func()) {
		s.DownloadProfile(ctx, platform, owner, kind, opts, finish)
	})
}

// ExecuteInfoCommand prints the metadata and available formats of the provided URLs.
// With download options the URLs are downloaded afterwards in the same run, and the
// metadata printed by info is reused from the cache instead of being extracted again.
func ExecuteInfoCommand(
	ctx context.Context,
	cfg *config.Config,
	urls []string,
	opts *grabber.InfoOptions,
	downloadOpts *grabber.DownloadOptions,
) {
	runService(ctx, cfg, func(s grabber.Service, finish func()) {
		if downloadOpts == nil {
			s.ShowInfo(ctx, urls, opts, finish)

			return
		}

		s.ShowInfo(ctx, urls, opts, func() {
			if ctx.Err() != nil {
				finish()

				return
			}

			s.DownloadURLs(ctx, urls, downloadOpts, finish)
		})
	})
}

// runService starts the service on a dispatcher loop and blocks until the work finishes.
// On interruption the live tasks are cancelled and given a grace period to report back.
func runService(ctx context.Context, cfg *config.Config, start func(s grabber.Service, finish func())) {
	store, err := openHistory(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open download history: %v", err)
	}

	defer closeHistory(ctx, store)

	dispatcher := task.NewDispatcher()
	s := newService(ctx, cfg, store, dispatcher)

	// Ensure statistics are ALWAYS printed, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	dispatcher.Post(func() {
		start(s, dispatcher.Close)
	})

	if err = dispatcher.Run(ctx); err == nil {
		return
	}

	// The dispatcher loop has stopped, so this goroutine is the coordinator now.
	s.Shutdown(ctx)

	graceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGracePeriod)
	defer cancel()

	if err = dispatcher.Run(graceCtx); err != nil {
		logger.Warnf(ctx, "Some tasks did not stop in time: %v", err)
	}
}

package app

import (
	"context"
	"os"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/history"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/progress"
	"github.com/oshokin/media-grabber/internal/service/grabber"
	"github.com/oshokin/media-grabber/internal/task"
	"github.com/oshokin/media-grabber/internal/thumbnail"
	http_transport "github.com/oshokin/media-grabber/internal/transport/http"
)

// newToolbox creates the extraction tools from the configured executables.
func newToolbox(cfg *config.Config) backend.Toolbox {
	runner := extractor.ExecRunner{}

	return backend.Toolbox{
		YTDLP:     extractor.NewGoYTDLP(cfg.YTDLPPath),
		Playlists: extractor.NewYTGetPlaylistLister(),
		Gallery:   extractor.NewGalleryDL(runner, cfg.GalleryDLPath),
		YouGet:    extractor.NewYouGet(runner, cfg.YouGetPath),
		FFmpeg:    extractor.NewFFmpeg(runner, cfg.FFmpegPath),
		OEmbed:    extractor.NewOEmbed(http_transport.NewClient(0), ""),
	}
}

// newRegistry wires the shipped backends with the metadata cache.
func newRegistry(cfg *config.Config) *backend.Registry {
	return backend.NewDefaultRegistry(newToolbox(cfg), int(cfg.BatchLimit), backend.CacheOptions{
		TTL: cfg.ParsedMetadataCacheTTL,
	})
}

// openHistory opens the history database named by history_path.
func openHistory(cfg *config.Config) (*history.Store, error) {
	path := cfg.HistoryPath
	if path == "" {
		path = config.DefaultHistoryFilename
	}

	return history.Open(path, int(cfg.HistoryLimit))
}

func closeHistory(ctx context.Context, store *history.Store) {
	if err := store.Close(); err != nil {
		logger.Warnf(ctx, "Failed to close history: %v", err)
	}
}

// newService builds the grabber service around dispatcher.
func newService(
	ctx context.Context,
	cfg *config.Config,
	recorder history.Recorder,
	dispatcher *task.Dispatcher,
) grabber.Service {
	fetcher, err := thumbnail.NewFetcher(
		http_transport.NewClient(cfg.ParsedThumbnailTimeout),
		cfg.ParsedMaxThumbnailSize,
		thumbnail.DefaultCacheSize)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize thumbnail fetcher: %v", err)
	}

	return grabber.NewService(cfg, &grabber.Dependencies{
		Registry:     newRegistry(cfg),
		URLProcessor: grabber.NewURLProcessor(),
		TagProcessor: grabber.NewTagProcessor(),
		Thumbnails:   fetcher,
		Recorder:     recorder,
		Progress:     progress.New(!logger.IsDebugLevel(), os.Stderr),
		Poster:       dispatcher,
	})
}

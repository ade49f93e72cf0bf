package app

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/logger"
)

// ExecuteHistoryListCommand prints up to limit history entries, newest first.
func ExecuteHistoryListCommand(ctx context.Context, cfg *config.Config, limit int) {
	store, err := openHistory(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open download history: %v", err)
	}

	defer closeHistory(ctx, store)

	entries, err := store.List(ctx, limit)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read download history: %v", err)
	}

	if len(entries) == 0 {
		logger.Info(ctx, "Download history is empty")

		return
	}

	for i := range entries {
		e := &entries[i]

		logger.Infof(ctx, "%s  %-9s %s", humanize.Time(e.CreatedAt), e.Platform, e.Title)
		logger.Infof(ctx, "    %s -> %s", e.URL, e.FilePath)

		if e.ItemCount > 1 {
			logger.Infof(ctx, "    %d files", e.ItemCount)
		}

		if e.Duration > 0 {
			logger.Infof(ctx, "    %s, %s", time.Duration(e.Duration*float64(time.Second)).Round(time.Second), e.Quality)
		}
	}
}

// ExecuteHistoryClearCommand removes every history entry.
func ExecuteHistoryClearCommand(ctx context.Context, cfg *config.Config) {
	store, err := openHistory(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open download history: %v", err)
	}

	defer closeHistory(ctx, store)

	if err = store.Clear(ctx); err != nil {
		logger.Fatalf(ctx, "Failed to clear download history: %v", err)
	}

	logger.Info(ctx, "Download history cleared")
}

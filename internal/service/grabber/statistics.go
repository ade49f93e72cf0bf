package grabber

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/media-grabber/internal/logger"
)

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// incrementItemDownloaded counts a downloaded item and the size of its files.
func (s *ServiceImpl) incrementItemDownloaded(files []string) {
	var bytes int64

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}

		bytes += info.Size()
	}

	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.ItemsDownloaded++
	s.stats.TotalItemsProcessed++
	s.stats.FilesProduced += int64(len(files))
	s.stats.TotalBytesDownloaded += bytes
}

// incrementItemFailed counts a failed item.
func (s *ServiceImpl) incrementItemFailed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.ItemsFailed++
	s.stats.TotalItemsProcessed++
}

// incrementCollectionProcessed counts a finished playlist, gallery or profile.
func (s *ServiceImpl) incrementCollectionProcessed() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.CollectionsProcessed++
}

// Statistics returns a copy of the session statistics.
func (s *ServiceImpl) Statistics() DownloadStatistics {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := *s.stats
	stats.Errors = append([]DownloadError(nil), s.stats.Errors...)

	return stats
}

// PrintDownloadSummary prints a formatted summary of download statistics.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print summary.
	if stats.TotalItemsProcessed == 0 && len(stats.Errors) == 0 {
		return
	}

	// Check if the context was canceled (CTRL+C or timeout).
	wasInterrupted := ctx.Err() != nil

	s.printSummaryHeader(ctx, wasInterrupted)
	s.printItemStatistics(ctx, stats)
	s.printDataTransferStatistics(ctx, stats)
	s.printSummaryFooter(ctx)
	s.printErrorDetails(ctx, stats)
	s.printFinalMessage(ctx, wasInterrupted, stats)
}

// printSummaryHeader prints the summary header.
func (s *ServiceImpl) printSummaryHeader(ctx context.Context, wasInterrupted bool) {
	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printItemStatistics prints item download statistics.
func (s *ServiceImpl) printItemStatistics(ctx context.Context, stats *DownloadStatistics) {
	logger.Infof(ctx, "Items:            %d total processed", stats.TotalItemsProcessed)

	if stats.ItemsDownloaded > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.ItemsDownloaded)
	}

	if stats.ItemsFailed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.ItemsFailed)
	}

	if stats.TotalItemsProcessed > 0 {
		successRate := float64(stats.ItemsDownloaded) / float64(stats.TotalItemsProcessed) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}

	if stats.CollectionsProcessed > 0 {
		logger.Infof(ctx, "Collections:      %d", stats.CollectionsProcessed)
	}

	if stats.FilesProduced > 0 {
		logger.Infof(ctx, "Files:            %d", stats.FilesProduced)
	}
}

// printDataTransferStatistics prints data transfer statistics.
func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalBytesDownloaded > 0 {
		logger.Info(ctx, "")
		//nolint:gosec // TotalBytesDownloaded is always positive, no overflow risk.
		logger.Infof(ctx, "Data on Disk:     %s", humanize.Bytes(uint64(stats.TotalBytesDownloaded)))
	}

	if stats.StartTime.IsZero() || stats.EndTime.IsZero() {
		return
	}

	duration := stats.EndTime.Sub(stats.StartTime)

	// Only show if duration is meaningful (> 100ms).
	if duration > 100*time.Millisecond {
		logger.Infof(ctx, "Duration:         %s", formatDuration(duration))
	}
}

// printSummaryFooter prints the summary footer separator.
func (s *ServiceImpl) printSummaryFooter(ctx context.Context) {
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
}

// printErrorDetails prints every failure with its URL, grouped by collection.
func (s *ServiceImpl) printErrorDetails(ctx context.Context, stats *DownloadStatistics) {
	if len(stats.Errors) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Errorf(ctx, "ERRORS ENCOUNTERED: %d", len(stats.Errors))

	lastParent := ""

	for i := range stats.Errors {
		e := &stats.Errors[i]

		if e.ParentURL != "" && e.ParentURL != lastParent {
			logger.Info(ctx, "")
			logger.Errorf(ctx, "  From %s", displayTitle(e.ParentTitle, e.ParentURL))
		}

		lastParent = e.ParentURL

		logger.Info(ctx, "")
		logger.Errorf(ctx, "  [%d] %s %s: %s", i+1, e.Platform, e.Category, displayTitle(e.ItemTitle, e.ItemURL))

		if e.ItemURL != "" {
			logger.Errorf(ctx, "      URL: %s", e.ItemURL)
		}

		logger.Errorf(ctx, "      Phase: %s", e.Phase)
		logger.Errorf(ctx, "      Error: %s", e.ErrorMessage)
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	s.printRetryCommand(ctx, stats.Errors)
}

// printRetryCommand prints a command downloading only the failed URLs.
func (s *ServiceImpl) printRetryCommand(ctx context.Context, errors []DownloadError) {
	var (
		seen = make(map[string]struct{}, len(errors))
		urls []string
	)

	for i := range errors {
		// Profiles are retried with their own command, the owner is not a URL.
		if errors[i].Category == DownloadCategoryProfile || errors[i].ItemURL == "" {
			continue
		}

		if _, ok := seen[errors[i].ItemURL]; ok {
			continue
		}

		seen[errors[i].ItemURL] = struct{}{}
		urls = append(urls, errors[i].ItemURL)
	}

	if len(urls) == 0 {
		return
	}

	logger.Info(ctx, "")
	logger.Info(ctx, "To retry only failed downloads, run:")
	logger.Info(ctx, "")
	logger.Infof(ctx, "  media-grabber %s", strings.Join(urls, " "))
}

// printFinalMessage prints a helpful message based on download results.
func (s *ServiceImpl) printFinalMessage(ctx context.Context, wasInterrupted bool, stats *DownloadStatistics) {
	switch {
	case wasInterrupted:
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if stats.ItemsDownloaded > 0 {
			logger.Infof(ctx, "Successfully downloaded %d item(s) before interruption.", stats.ItemsDownloaded)
		}
	case len(stats.Errors) > 0:
		logger.Info(ctx, "")
		logger.Warnf(ctx, "%d error(s) occurred during download. See detailed error log above.", len(stats.Errors))
	case stats.ItemsDownloaded > 0:
		logger.Info(ctx, "")
		logger.Info(ctx, "All downloads completed successfully!")
	}
}

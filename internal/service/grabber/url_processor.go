package grabber

//go:generate $MOCKGEN -source=url_processor.go -destination=mocks/url_processor_mock.go

import (
	"context"
	"strings"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/utils"
)

// URLProcessor defines the interface for turning command-line arguments into download items.
type URLProcessor interface {
	// ExtractDownloadItems expands URL list files, drops duplicates and detects the platform of every URL.
	// URLs of unknown platforms are logged and skipped.
	ExtractDownloadItems(ctx context.Context, urls []string) ([]*DownloadItem, error)
}

// URLProcessorImpl implements the URLProcessor interface.
type URLProcessorImpl struct{}

// NewURLProcessor creates and returns a new instance of URLProcessorImpl.
func NewURLProcessor() URLProcessor {
	return &URLProcessorImpl{}
}

// ExtractDownloadItems expands URL list files, drops duplicates and detects the platform of every URL.
func (up *URLProcessorImpl) ExtractDownloadItems(ctx context.Context, urls []string) ([]*DownloadItem, error) {
	// Process and flatten URLs to handle text files containing multiple URLs.
	urls, err := up.processAndFlattenURLs(urls)
	if err != nil {
		return nil, err
	}

	items := make([]*DownloadItem, 0, len(urls))

	for _, url := range urls {
		platform := backend.DetectPlatform(url)
		if platform == media.PlatformUnknown {
			logger.Warnf(ctx, "Unknown URL: %s", url)

			continue
		}

		items = append(items, &DownloadItem{Platform: platform, URL: url})
	}

	return items, nil
}

func (up *URLProcessorImpl) processAndFlattenURLs(urls []string) ([]string, error) {
	var (
		// Track processed URLs.
		processedSet = make(map[string]struct{})
		// Track processed text files.
		processedTextFiles = make(map[string]struct{})
		// Store the final list of URLs.
		processedURLs []string
	)

	add := func(url string) {
		url = strings.TrimSpace(url)
		if url == "" {
			return
		}

		if _, ok := processedSet[url]; ok {
			return
		}

		processedSet[url] = struct{}{}

		processedURLs = append(processedURLs, url)
	}

	for _, url := range urls {
		if !strings.HasSuffix(url, constants.ExtensionText) {
			add(url)

			continue
		}

		// Skip already processed text files.
		if _, exists := processedTextFiles[url]; exists {
			continue
		}

		lines, err := utils.ReadUniqueLinesFromFile(url)
		if err != nil {
			return nil, err
		}

		for _, line := range lines {
			add(line)
		}

		processedTextFiles[url] = struct{}{}
	}

	return processedURLs, nil
}

package thumbnail

//go:generate $MOCKGEN -source=fetcher.go -destination=mocks/fetcher_mock.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/task"
	"github.com/oshokin/media-grabber/internal/utils"
)

const (
	// DefaultMaxSize caps a thumbnail body.
	DefaultMaxSize int64 = 5 * 1024 * 1024
	// DefaultCacheSize is the number of images kept in memory.
	DefaultCacheSize = 64
)

var (
	// ErrEmptyURL indicates a fetch without a url.
	ErrEmptyURL = errors.New("thumbnail url is empty")
	// ErrUnexpectedHTTPStatus indicates a non-200 response.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrTooLarge indicates a body above the configured size cap.
	ErrTooLarge = errors.New("thumbnail is too large")
)

// Image is a fetched thumbnail.
type Image struct {
	URL      string
	Data     []byte
	MimeType string
}

// ImageFetcher retrieves thumbnail bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}

// Fetcher downloads thumbnails over HTTP and keeps recent ones in an LRU cache.
type Fetcher struct {
	httpClient *http.Client
	maxSize    int64
	cache      *lru.Cache[string, *Image]
}

// NewFetcher creates a fetcher. Non-positive sizes use the defaults.
func NewFetcher(httpClient *http.Client, maxSize int64, cacheSize int) (*Fetcher, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, *Image](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail cache: %w", err)
	}

	return &Fetcher{
		httpClient: httpClient,
		maxSize:    maxSize,
		cache:      cache,
	}, nil
}

// Fetch returns the image at url. The response body is not read once ctx is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	if image, ok := f.cache.Get(url); ok {
		logger.DebugKV(ctx, "Thumbnail cache hit", "url", url)

		return image, nil
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := f.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if err = task.Checkpoint(ctx); err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read thumbnail: %w", err)
	}

	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxSize)
	}

	image := &Image{
		URL:      url,
		Data:     data,
		MimeType: utils.DetectImageMimeType(data),
	}

	f.cache.Add(url, image)

	return image, nil
}

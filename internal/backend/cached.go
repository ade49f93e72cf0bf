package backend

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/oshokin/media-grabber/internal/media"
)

// CacheOptions configures the metadata cache.
type CacheOptions struct {
	// TTL is how long a lookup is reused.
	TTL time.Duration
	// CleanupInterval is how often expired entries are purged; zero uses twice the TTL.
	CleanupInterval time.Duration
}

// Cached reuses FetchInfo results for a while, so "info --download" extracts each url
// only once: the download reads back the metadata printed by info. Other calls pass through.
type Cached struct {
	Backend

	cache *cache.Cache
}

// NewCached wraps b with a TTL cache.
func NewCached(b Backend, opts CacheOptions) *Cached {
	cleanup := opts.CleanupInterval
	if cleanup <= 0 {
		cleanup = 2 * opts.TTL
	}

	return &Cached{
		Backend: b,
		cache:   cache.New(opts.TTL, cleanup),
	}
}

// FetchInfo returns the cached metadata of url or fetches and caches it. Failures are not cached.
func (c *Cached) FetchInfo(ctx context.Context, url string) (*media.Metadata, error) {
	if cached, ok := c.cache.Get(url); ok {
		if metadata, isMetadata := cached.(*media.Metadata); isMetadata {
			return metadata, nil
		}
	}

	metadata, err := c.Backend.FetchInfo(ctx, url)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(url, metadata)

	return metadata, nil
}

// DownloadMany forwards to the wrapped backend when it has the capability.
func (c *Cached) DownloadMany(ctx context.Context, req ManyRequest) (*media.BatchResult, error) {
	batcher, ok := c.Backend.(BatchDownloader)
	if !ok {
		return nil, ErrUnsupported
	}

	return batcher.DownloadMany(ctx, req)
}

// Unwrap returns the wrapped backend.
func (c *Cached) Unwrap() Backend {
	return c.Backend
}

// AsBatchDownloader returns the BatchDownloader capability of b, looking through Cached.
func AsBatchDownloader(b Backend) (BatchDownloader, bool) {
	if c, ok := b.(*Cached); ok {
		b = c.Unwrap()
	}

	batcher, ok := b.(BatchDownloader)

	return batcher, ok
}

package backend

//go:generate $MOCKGEN -source=backend.go -destination=mocks/backend_mock.go

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/media-grabber/internal/media"
)

// Static error definitions for better error handling.
var (
	// ErrShapeMismatch indicates that a backend does not accept the call shape it was given.
	ErrShapeMismatch = errors.New("call shape not accepted")
	// ErrInvalidArgument indicates a programmer error in the call arguments.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupported indicates an operation the platform does not offer.
	ErrUnsupported = errors.New("operation not supported by platform")
	// ErrBackendFailed indicates that both the primary and the fallback method failed.
	ErrBackendFailed = errors.New("primary and fallback methods failed")
	// ErrNoBackend indicates that no backend is registered for a platform.
	ErrNoBackend = errors.New("no backend registered")
	// ErrUnknownBatchKind indicates a batch kind other than posts or stories.
	ErrUnknownBatchKind = errors.New("unknown batch kind")
)

// DefaultBatchLimit caps batch listings and playlists.
const DefaultBatchLimit = 20

// BatchKind selects which items of an owner are listed.
type BatchKind uint8

const (
	// BatchPosts lists the owner's posts.
	BatchPosts BatchKind = iota
	// BatchStories lists the owner's current stories.
	BatchStories
)

// String returns "posts" or "stories".
func (k BatchKind) String() string {
	if k == BatchStories {
		return "stories"
	}

	return "posts"
}

// ParseBatchKind resolves "posts" or "stories".
func ParseBatchKind(value string) (BatchKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "posts", "":
		return BatchPosts, nil
	case "stories":
		return BatchStories, nil
	default:
		return BatchPosts, fmt.Errorf("%w: '%s'", ErrUnknownBatchKind, value)
	}
}

// Backend is the capability set of one media source.
type Backend interface {
	// Platform returns the source this backend serves.
	Platform() media.Platform
	// FetchInfo returns single-item metadata or a collection marker with its children.
	FetchInfo(ctx context.Context, url string) (*media.Metadata, error)
	// ListBatchItems enumerates up to limit items of owner.
	ListBatchItems(ctx context.Context, owner string, kind BatchKind, limit int) ([]media.Reference, error)
	// Download fetches one item. Runtime failures are returned as a failure-shaped result;
	// the error is reserved for ErrShapeMismatch and ErrInvalidArgument.
	Download(ctx context.Context, call Call) (*media.DownloadResult, error)
}

// ManyRequest is the argument of BatchDownloader.DownloadMany.
type ManyRequest struct {
	URLs      []string
	OutputDir string
	Quality   string
	Kind      media.Kind
}

// BatchDownloader is the optional capability of downloading many items in one call.
type BatchDownloader interface {
	// DownloadMany returns one result per url, in input order.
	DownloadMany(ctx context.Context, req ManyRequest) (*media.BatchResult, error)
}

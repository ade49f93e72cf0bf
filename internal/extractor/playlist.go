package extractor

//go:generate $MOCKGEN -source=playlist.go -destination=mocks/playlist_mock.go

import (
	"context"
	"fmt"
	"regexp"
	"time"

	ytget "github.com/ytget/ytdlp/v2"

	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/utils"
)

const (
	// youTubeWatchURLTemplate builds a video url from its id.
	youTubeWatchURLTemplate = "https://www.youtube.com/watch?v=%s"
	// defaultPlaylistTimeout bounds one listing.
	defaultPlaylistTimeout = 60 * time.Second
)

//nolint:gochecknoglobals // Compiled once, read-only.
var playlistIDRegexp = regexp.MustCompile(`[?&]list=(?P<list>[A-Za-z0-9_-]+)`)

// PlaylistLister enumerates the videos of a YouTube playlist.
type PlaylistLister interface {
	// List returns up to limit references in playlist order; limit <= 0 means all.
	List(ctx context.Context, playlistURL string, limit int) ([]media.Reference, error)
}

// YTGetPlaylistLister lists playlists with the pure-Go github.com/ytget/ytdlp/v2 client,
// so it keeps working when the yt-dlp binary fails.
type YTGetPlaylistLister struct {
	timeout time.Duration
}

// NewYTGetPlaylistLister creates a lister with the default timeout.
func NewYTGetPlaylistLister() *YTGetPlaylistLister {
	return &YTGetPlaylistLister{timeout: defaultPlaylistTimeout}
}

// List fetches the playlist items.
func (l *YTGetPlaylistLister) List(ctx context.Context, playlistURL string, limit int) ([]media.Reference, error) {
	playlistID := PlaylistID(playlistURL)
	if playlistID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPlaylistID, playlistURL)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	items, err := ytget.New().GetPlaylistItemsAll(ctx, playlistID, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	refs := make([]media.Reference, 0, len(items))

	for _, item := range items {
		if limit > 0 && len(refs) >= limit {
			break
		}

		refs = append(refs, media.Reference{
			URL:   fmt.Sprintf(youTubeWatchURLTemplate, item.VideoID),
			ID:    item.VideoID,
			Title: item.Title,
		})
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("%w: playlist %s", ErrNoItems, playlistID)
	}

	return refs, nil
}

// PlaylistID extracts the list parameter of a YouTube url.
func PlaylistID(rawURL string) string {
	return utils.ExtractNamedGroup(playlistIDRegexp, "list", rawURL)
}

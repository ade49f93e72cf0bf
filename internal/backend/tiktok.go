package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/media"
)

const (
	tikTokProfileURLTemplate = "https://www.tiktok.com/@%s"
	tikTokDefaultTitle       = "TikTok Video"
)

// TikTok downloads videos from tiktok.com.
type TikTok struct {
	tools Toolbox
}

// NewTikTok creates the TikTok backend.
func NewTikTok(tools Toolbox) *TikTok {
	return &TikTok{tools: tools}
}

// Platform returns media.PlatformTikTok.
func (t *TikTok) Platform() media.Platform {
	return media.PlatformTikTok
}

// FetchInfo extracts with yt-dlp and falls back to gallery-dl.
func (t *TikTok) FetchInfo(ctx context.Context, url string) (*media.Metadata, error) {
	return withFallback(ctx, t.Platform(), "fetch info",
		func(ctx context.Context) (*media.Metadata, error) {
			info, err := t.tools.YTDLP.Extract(ctx, url, extractor.ExtractOptions{Flat: true, Limit: DefaultBatchLimit})
			if err != nil {
				return nil, err
			}

			return metadataFromInfo(t.Platform(), url, info, media.MetadataPlaylist, DefaultBatchLimit), nil
		},
		func(ctx context.Context) (*media.Metadata, error) {
			items, err := t.tools.Gallery.Dump(ctx, url, 0)
			if err != nil {
				return nil, err
			}

			return metadataFromGallery(t.Platform(), url, items, tikTokDefaultTitle), nil
		})
}

// ListBatchItems lists the owner's videos. TikTok stories are not offered.
func (t *TikTok) ListBatchItems(ctx context.Context, owner string, kind BatchKind, limit int) ([]media.Reference, error) {
	if kind != BatchPosts {
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupported, t.Platform(), kind)
	}

	owner = strings.Trim(strings.TrimSpace(owner), "@/")
	if owner == "" {
		return nil, fmt.Errorf("%w: empty owner", ErrInvalidArgument)
	}

	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	return listWithFallback(ctx, t.tools, t.Platform(), fmt.Sprintf(tikTokProfileURLTemplate, owner), tikTokDefaultTitle, limit)
}

// Download accepts QualityCall only. Video labels cap the height; anything else takes the best file.
func (t *TikTok) Download(ctx context.Context, call Call) (*media.DownloadResult, error) {
	c, ok := call.(QualityCall)
	if !ok {
		return nil, mismatch(t.Platform(), call, ShapeQuality)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	format := extractor.BestFormat
	if height, err := media.ParseVideoLabel(c.Quality); err == nil {
		format = extractor.SingleFileVideoFormat(height) + "/" + extractor.BestFormat
	}

	return downloadWithGalleryFallback(ctx, t.tools, t.Platform(), c.Target, format, tikTokDefaultTitle), nil
}

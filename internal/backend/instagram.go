package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/media"
)

const (
	instagramPostsURLTemplate   = "https://www.instagram.com/%s/"
	instagramStoriesURLTemplate = "https://www.instagram.com/stories/%s/"
	instagramDefaultTitle       = "Instagram Post"
)

// Instagram downloads posts, reels and stories from instagram.com.
type Instagram struct {
	tools Toolbox
}

// NewInstagram creates the Instagram backend.
func NewInstagram(tools Toolbox) *Instagram {
	return &Instagram{tools: tools}
}

// Platform returns media.PlatformInstagram.
func (i *Instagram) Platform() media.Platform {
	return media.PlatformInstagram
}

// FetchInfo extracts with yt-dlp and falls back to gallery-dl. Multi-item posts are galleries.
func (i *Instagram) FetchInfo(ctx context.Context, url string) (*media.Metadata, error) {
	return withFallback(ctx, i.Platform(), "fetch info",
		func(ctx context.Context) (*media.Metadata, error) {
			info, err := i.tools.YTDLP.Extract(ctx, url, extractor.ExtractOptions{Flat: true})
			if err != nil {
				return nil, err
			}

			return metadataFromInfo(i.Platform(), url, info, media.MetadataGallery, 0), nil
		},
		func(ctx context.Context) (*media.Metadata, error) {
			items, err := i.tools.Gallery.Dump(ctx, url, 0)
			if err != nil {
				return nil, err
			}

			return metadataFromGallery(i.Platform(), url, items, instagramDefaultTitle), nil
		})
}

// ListBatchItems lists the owner's posts or stories.
func (i *Instagram) ListBatchItems(
	ctx context.Context,
	owner string,
	kind BatchKind,
	limit int,
) ([]media.Reference, error) {
	owner = strings.Trim(strings.TrimSpace(owner), "@/")
	if owner == "" {
		return nil, fmt.Errorf("%w: empty owner", ErrInvalidArgument)
	}

	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	url := fmt.Sprintf(instagramPostsURLTemplate, owner)
	if kind == BatchStories {
		url = fmt.Sprintf(instagramStoriesURLTemplate, owner)
	}

	return listWithFallback(ctx, i.tools, i.Platform(), url, instagramDefaultTitle, limit)
}

// Download accepts BasicCall only.
func (i *Instagram) Download(ctx context.Context, call Call) (*media.DownloadResult, error) {
	c, ok := call.(BasicCall)
	if !ok {
		return nil, mismatch(i.Platform(), call, ShapeBasic)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return downloadWithGalleryFallback(ctx, i.tools, i.Platform(), c.Target, extractor.BestFormat, instagramDefaultTitle), nil
}

// listWithFallback lists a profile with yt-dlp and falls back to gallery-dl.
func listWithFallback(
	ctx context.Context,
	tools Toolbox,
	platform media.Platform,
	url, defaultTitle string,
	limit int,
) ([]media.Reference, error) {
	return withFallback(ctx, platform, "list batch items",
		func(ctx context.Context) ([]media.Reference, error) {
			info, err := tools.YTDLP.Extract(ctx, url, extractor.ExtractOptions{Flat: true, Limit: limit})
			if err != nil {
				return nil, err
			}

			children := info.Children(limit)
			if len(children) == 0 {
				return nil, fmt.Errorf("%w: %s", extractor.ErrNoItems, url)
			}

			return children, nil
		},
		func(ctx context.Context) ([]media.Reference, error) {
			items, err := tools.Gallery.Dump(ctx, url, limit)
			if err != nil {
				return nil, err
			}

			return referencesFromGallery(items, defaultTitle, limit), nil
		})
}

// downloadWithGalleryFallback downloads with yt-dlp and falls back to gallery-dl,
// whose files are found by diffing the output directory.
func downloadWithGalleryFallback(
	ctx context.Context,
	tools Toolbox,
	platform media.Platform,
	target Target,
	format, defaultTitle string,
) *media.DownloadResult {
	result, err := withFallback(ctx, platform, "download",
		func(ctx context.Context) (*media.DownloadResult, error) {
			downloaded, err := tools.YTDLP.Download(ctx, target.URL, extractor.DownloadOptions{
				OutputDir: target.OutputDir,
				Format:    format,
				Progress:  target.Progress,
			})
			if err != nil {
				return nil, err
			}

			title := downloaded.Title
			if title == "" {
				title = defaultTitle
			}

			return media.Succeeded(target.URL, downloaded.FilePath, title, ""), nil
		},
		func(ctx context.Context) (*media.DownloadResult, error) {
			files, err := collectNewFiles(ctx, target.OutputDir, func(ctx context.Context) error {
				return tools.Gallery.Download(ctx, target.URL, target.OutputDir)
			})
			if err != nil {
				return nil, err
			}

			return media.Succeeded(target.URL, files[0], defaultTitle, "", files...), nil
		})
	if err != nil {
		return media.Failed(target.URL, err)
	}

	return result
}

package backend

import (
	"context"
	"fmt"

	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
)

const facebookDefaultTitle = "Facebook Video"

//nolint:gochecknoglobals // Read-only placeholder formats.
var (
	facebookPlaceholderHeights  = []int{720, 480, 360}
	facebookPlaceholderBitrates = []float64{128}
)

// Facebook downloads videos from facebook.com and fb.watch.
type Facebook struct {
	tools Toolbox
}

// NewFacebook creates the Facebook backend.
func NewFacebook(tools Toolbox) *Facebook {
	return &Facebook{tools: tools}
}

// Platform returns media.PlatformFacebook.
func (f *Facebook) Platform() media.Platform {
	return media.PlatformFacebook
}

// FetchInfo extracts with yt-dlp, then you-get. When both fail it still succeeds with a
// placeholder catalog so the user can pick a quality and try the download.
func (f *Facebook) FetchInfo(ctx context.Context, url string) (*media.Metadata, error) {
	metadata, err := withFallback(ctx, f.Platform(), "fetch info",
		func(ctx context.Context) (*media.Metadata, error) {
			info, err := f.tools.YTDLP.Extract(ctx, url, extractor.ExtractOptions{})
			if err != nil {
				return nil, err
			}

			return metadataFromInfo(f.Platform(), url, info, media.MetadataPlaylist, DefaultBatchLimit), nil
		},
		func(ctx context.Context) (*media.Metadata, error) {
			info, err := f.tools.YouGet.Info(ctx, url)
			if err != nil {
				return nil, err
			}

			return f.placeholder(url, info.Title), nil
		})
	if err == nil {
		return metadata, nil
	}

	if ctx.Err() != nil {
		return nil, err
	}

	logger.WarnKV(ctx, "Using placeholder metadata", "platform", f.Platform().String(), "error", err)

	return f.placeholder(url, ""), nil
}

func (f *Facebook) placeholder(url, title string) *media.Metadata {
	if title == "" {
		title = facebookDefaultTitle
	}

	ref := media.Reference{URL: url, Title: title}

	return &media.Metadata{
		Platform:  f.Platform(),
		Kind:      media.MetadataSingle,
		Reference: ref,
		Catalog:   placeholderCatalog(ref, facebookPlaceholderHeights, facebookPlaceholderBitrates),
	}
}

// ListBatchItems is not offered for Facebook.
func (f *Facebook) ListBatchItems(context.Context, string, BatchKind, int) ([]media.Reference, error) {
	return nil, fmt.Errorf("%w: %s batch listing", ErrUnsupported, f.Platform())
}

// Download accepts TypedCall only.
func (f *Facebook) Download(ctx context.Context, call Call) (*media.DownloadResult, error) {
	c, ok := call.(TypedCall)
	if !ok {
		return nil, mismatch(f.Platform(), call, ShapeTyped)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	opts, err := facebookOptions(c)
	if err != nil {
		return media.Failed(c.URL, err), nil
	}

	result, err := withFallback(ctx, f.Platform(), "download",
		func(ctx context.Context) (*media.DownloadResult, error) {
			downloaded, err := f.tools.YTDLP.Download(ctx, c.URL, opts)
			if err != nil {
				return nil, err
			}

			title := downloaded.Title
			if title == "" {
				title = facebookDefaultTitle
			}

			return media.Succeeded(c.URL, downloaded.FilePath, title, ""), nil
		},
		func(ctx context.Context) (*media.DownloadResult, error) {
			files, err := collectNewFiles(ctx, c.OutputDir, func(ctx context.Context) error {
				return f.tools.YouGet.Download(ctx, c.URL, c.OutputDir)
			})
			if err != nil {
				return nil, err
			}

			return media.Succeeded(c.URL, files[0], facebookDefaultTitle, "", files...), nil
		})
	if err != nil {
		return media.Failed(c.URL, err), nil
	}

	return result, nil
}

func facebookOptions(c TypedCall) (extractor.DownloadOptions, error) {
	opts := extractor.DownloadOptions{
		OutputDir: c.OutputDir,
		Progress:  c.Progress,
	}

	if c.Kind == media.KindAudio {
		bitrate, err := media.ParseAudioLabel(c.Quality)
		if err != nil {
			return opts, err
		}

		opts.Format = extractor.BestAudioFormat
		opts.ExtractAudio = true
		opts.AudioFormat = extractor.AudioFormatMP3
		opts.AudioQuality = extractor.AudioQuality(bitrate)

		return opts, nil
	}

	height, err := media.ParseVideoLabel(c.Quality)
	if err != nil {
		return opts, err
	}

	opts.Format = extractor.SingleFileVideoFormat(height)
	opts.MergeFormat = extractor.MergeFormatMP4

	return opts, nil
}

package backend

import (
	"context"
	"fmt"

	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/task"
)

const (
	// youTubeDefaultPlaylistTitle is used when the fallback lister reports no title.
	youTubeDefaultPlaylistTitle = "YouTube Playlist"
	// fallbackAudioBitrate is the bitrate of the fallback audio download.
	fallbackAudioBitrate = 192
)

// YouTube downloads from youtube.com and youtu.be.
type YouTube struct {
	tools         Toolbox
	playlistLimit int
}

// NewYouTube creates the YouTube backend. Playlists are capped at playlistLimit entries.
func NewYouTube(tools Toolbox, playlistLimit int) *YouTube {
	if playlistLimit <= 0 {
		playlistLimit = DefaultBatchLimit
	}

	return &YouTube{tools: tools, playlistLimit: playlistLimit}
}

// Platform returns media.PlatformYouTube.
func (y *YouTube) Platform() media.Platform {
	return media.PlatformYouTube
}

// FetchInfo extracts with yt-dlp and falls back to the playlist lister for playlists
// or to oEmbed with placeholder formats for single videos.
func (y *YouTube) FetchInfo(ctx context.Context, url string) (*media.Metadata, error) {
	primary := func(ctx context.Context) (*media.Metadata, error) {
		info, err := y.tools.YTDLP.Extract(ctx, url, extractor.ExtractOptions{Flat: true, Limit: y.playlistLimit})
		if err != nil {
			return nil, err
		}

		return metadataFromInfo(y.Platform(), url, info, media.MetadataPlaylist, y.playlistLimit), nil
	}

	fallback := y.fetchVideoFallback
	if extractor.PlaylistID(url) != "" {
		fallback = y.fetchPlaylistFallback
	}

	return withFallback(ctx, y.Platform(), "fetch info", primary, func(ctx context.Context) (*media.Metadata, error) {
		return fallback(ctx, url)
	})
}

func (y *YouTube) fetchPlaylistFallback(ctx context.Context, url string) (*media.Metadata, error) {
	children, err := y.tools.Playlists.List(ctx, url, y.playlistLimit)
	if err != nil {
		return nil, err
	}

	return &media.Metadata{
		Platform: y.Platform(),
		Kind:     media.MetadataPlaylist,
		Reference: media.Reference{
			URL:   url,
			ID:    extractor.PlaylistID(url),
			Title: youTubeDefaultPlaylistTitle,
		},
		Children: children,
	}, nil
}

func (y *YouTube) fetchVideoFallback(ctx context.Context, url string) (*media.Metadata, error) {
	info, err := y.tools.OEmbed.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	ref := media.Reference{
		URL:          url,
		Title:        info.Title,
		ThumbnailURL: info.ThumbnailURL,
		Uploader:     info.AuthorName,
	}

	return &media.Metadata{
		Platform:  y.Platform(),
		Kind:      media.MetadataSingle,
		Reference: ref,
		Catalog:   media.NewCatalog(ref, nil),
	}, nil
}

// ListBatchItems is not offered for YouTube.
func (y *YouTube) ListBatchItems(context.Context, string, BatchKind, int) ([]media.Reference, error) {
	return nil, fmt.Errorf("%w: %s batch listing", ErrUnsupported, y.Platform())
}

// Download accepts FullCall and TypedCall.
func (y *YouTube) Download(ctx context.Context, call Call) (*media.DownloadResult, error) {
	var opts youTubeDownload

	switch c := call.(type) {
	case FullCall:
		opts = youTubeDownload{target: c.Target, quality: c.Quality, kind: c.Kind, formatID: c.FormatID, trim: c.Trim}
	case TypedCall:
		opts = youTubeDownload{target: c.Target, quality: c.Quality, kind: c.Kind}
	default:
		return nil, mismatch(y.Platform(), call, ShapeFull, ShapeTyped)
	}

	if err := opts.target.Validate(); err != nil {
		return nil, err
	}

	return y.download(ctx, &opts), nil
}

type youTubeDownload struct {
	target   Target
	quality  string
	kind     media.Kind
	formatID string
	trim     *media.TrimWindow
}

func (y *YouTube) download(ctx context.Context, d *youTubeDownload) *media.DownloadResult {
	url := d.target.URL

	primaryOpts, fallbackOpts, err := youTubeOptions(d)
	if err != nil {
		return media.Failed(url, err)
	}

	downloaded, err := withFallback(ctx, y.Platform(), "download",
		func(ctx context.Context) (*extractor.Downloaded, error) {
			return y.tools.YTDLP.Download(ctx, url, primaryOpts)
		},
		func(ctx context.Context) (*extractor.Downloaded, error) {
			return y.tools.YTDLP.Download(ctx, url, fallbackOpts)
		})
	if err != nil {
		return media.Failed(url, err)
	}

	path := downloaded.FilePath

	if d.kind == media.KindVideo && !d.trim.IsEmpty() {
		if err = task.Checkpoint(ctx); err != nil {
			return media.Failed(url, err)
		}

		path, err = y.tools.FFmpeg.Trim(ctx, path, d.trim)
		if err != nil {
			return media.Failed(url, err)
		}

		logger.DebugKV(ctx, "Trimmed video", "path", path)
	}

	return media.Succeeded(url, path, downloaded.Title, "")
}

// youTubeOptions returns the primary and fallback yt-dlp options of a download.
func youTubeOptions(d *youTubeDownload) (extractor.DownloadOptions, extractor.DownloadOptions, error) {
	base := extractor.DownloadOptions{
		OutputDir: d.target.OutputDir,
		Progress:  d.target.Progress,
	}

	primary, fallback := base, base

	if d.kind == media.KindAudio {
		bitrate, err := media.ParseAudioLabel(d.quality)
		if err != nil {
			return primary, fallback, err
		}

		primary.Format = extractor.BestAudioFormat
		if d.formatID != "" {
			primary.Format = extractor.FormatByID(d.formatID, media.KindAudio)
		}

		primary.ExtractAudio = true
		primary.AudioFormat = extractor.AudioFormatMP3
		primary.AudioQuality = extractor.AudioQuality(bitrate)

		fallback.Format = extractor.BestAudioFormat
		fallback.ExtractAudio = true
		fallback.AudioFormat = extractor.AudioFormatMP3
		fallback.AudioQuality = extractor.AudioQuality(fallbackAudioBitrate)

		return primary, fallback, nil
	}

	height, err := media.ParseVideoLabel(d.quality)
	if err != nil {
		return primary, fallback, err
	}

	primary.Format = extractor.VideoFormat(height)
	if d.formatID != "" {
		primary.Format = extractor.FormatByID(d.formatID, media.KindVideo)
	}

	primary.MergeFormat = extractor.MergeFormatMP4
	fallback.Format = extractor.SingleFileVideoFormat(height)

	return primary, fallback, nil
}

// DownloadMany downloads each url in order with the typed shape. One failed item does not
// stop the others.
func (y *YouTube) DownloadMany(ctx context.Context, req ManyRequest) (*media.BatchResult, error) {
	results := make([]media.DownloadResult, 0, len(req.URLs))

	for i, url := range req.URLs {
		if err := task.Checkpoint(ctx); err != nil {
			return media.NewBatchResult(len(req.URLs), results, true), nil
		}

		itemCtx := logger.WithKV(ctx, "batch_index", i+1)

		result, err := y.Download(itemCtx, TypedCall{
			Target:  Target{URL: url, OutputDir: req.OutputDir},
			Quality: req.Quality,
			Kind:    req.Kind,
		})
		if err != nil {
			result = media.Failed(url, err)
		}

		result.URL = url
		results = append(results, *result)
	}

	return media.NewBatchResult(len(req.URLs), results, false), nil
}

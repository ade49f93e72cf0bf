package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oshokin/media-grabber/internal/utils"
)

// Platform enumerates the supported media sources.
type Platform uint8

const (
	// PlatformUnknown is returned for URLs that match no known source.
	PlatformUnknown Platform = iota
	// PlatformYouTube is youtube.com and youtu.be.
	PlatformYouTube
	// PlatformInstagram is instagram.com.
	PlatformInstagram
	// PlatformTikTok is tiktok.com.
	PlatformTikTok
	// PlatformFacebook is facebook.com and fb.watch.
	PlatformFacebook
)

// String returns the display name of the platform.
func (p Platform) String() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformInstagram:
		return "Instagram"
	case PlatformTikTok:
		return "TikTok"
	case PlatformFacebook:
		return "Facebook"
	case PlatformUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Platform(%d)", uint8(p))
	}
}

// Platforms returns every known platform in display order.
func Platforms() []Platform {
	return []Platform{PlatformYouTube, PlatformInstagram, PlatformTikTok, PlatformFacebook}
}

// ParsePlatform resolves a case-insensitive platform name.
func ParsePlatform(name string) (Platform, error) {
	name = strings.TrimSpace(name)

	for _, p := range Platforms() {
		if strings.EqualFold(p.String(), name) {
			return p, nil
		}
	}

	return PlatformUnknown, fmt.Errorf("%w: '%s'", ErrUnknownPlatform, name)
}

// Kind is the media kind of a format or a download.
type Kind uint8

const (
	// KindVideo selects video downloads and video formats.
	KindVideo Kind = iota
	// KindAudio selects audio-only downloads and audio formats.
	KindAudio
)

// String returns "video" or "audio".
func (k Kind) String() string {
	if k == KindAudio {
		return "audio"
	}

	return "video"
}

// ParseKind resolves "video" or "audio".
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "video", "":
		return KindVideo, nil
	case "audio":
		return KindAudio, nil
	default:
		return KindVideo, fmt.Errorf("%w: '%s'", ErrUnknownKind, value)
	}
}

// Static error definitions for better error handling.
var (
	// ErrUnknownPlatform indicates that a platform name or URL is not supported.
	ErrUnknownPlatform = errors.New("unknown platform")
	// ErrUnknownKind indicates that a media kind is neither video nor audio.
	ErrUnknownKind = errors.New("unknown media kind")
	// ErrEmptyURL indicates a request without a target url.
	ErrEmptyURL = errors.New("url is empty")
	// ErrEmptyOutputDir indicates a request without an output directory.
	ErrEmptyOutputDir = errors.New("output directory is empty")
	// ErrInvalidTrimWindow indicates a negative or inverted trim window.
	ErrInvalidTrimWindow = errors.New("invalid trim window")
	// ErrTrimAudio indicates a trim window on an audio request.
	ErrTrimAudio = errors.New("trim window is only supported for video")
)

// Reference identifies one downloadable item. It is immutable once obtained from a backend.
type Reference struct {
	// URL is the canonical page url of the item.
	URL string
	// ID is the source-specific identifier, if known.
	ID string
	// Title is the display title.
	Title string
	// ThumbnailURL is optional.
	ThumbnailURL string
	// Duration is in seconds; zero means unknown.
	Duration float64
	// Uploader is the author or channel name, if known.
	Uploader string
}

// MetadataKind tells a single item apart from collections.
type MetadataKind uint8

const (
	// MetadataSingle is one downloadable item.
	MetadataSingle MetadataKind = iota
	// MetadataPlaylist is an ordered list of items of one source.
	MetadataPlaylist
	// MetadataGallery is a post holding several images or clips.
	MetadataGallery
)

// String returns the lowercase name of the metadata kind.
func (k MetadataKind) String() string {
	switch k {
	case MetadataPlaylist:
		return "playlist"
	case MetadataGallery:
		return "gallery"
	default:
		return "single"
	}
}

// Metadata is what a backend returns for a url: a single item with its format catalog,
// or a collection marker plus its children.
type Metadata struct {
	// Platform is the source that produced the metadata.
	Platform Platform
	// Kind tells a single item apart from playlists and galleries.
	Kind MetadataKind
	// Reference describes the item or the collection itself.
	Reference Reference
	// Catalog is set for single items.
	Catalog *Catalog
	// Children lists the items of a playlist or gallery, in source order.
	Children []Reference
}

// IsCollection reports whether the metadata describes more than one downloadable item.
func (m *Metadata) IsCollection() bool {
	return m.Kind != MetadataSingle
}

// TrimWindow is an optional cut applied to a downloaded video. Nil bounds are open.
type TrimWindow struct {
	// Start is in seconds from the beginning.
	Start *float64
	// End is in seconds from the beginning.
	End *float64
}

// IsEmpty reports whether neither bound is set.
func (w *TrimWindow) IsEmpty() bool {
	return w == nil || (w.Start == nil && w.End == nil)
}

// Validate checks bounds: non-negative and Start < End when both are set.
func (w *TrimWindow) Validate() error {
	if w.IsEmpty() {
		return nil
	}

	if (w.Start != nil && *w.Start < 0) || (w.End != nil && *w.End < 0) {
		return fmt.Errorf("%w: negative bound", ErrInvalidTrimWindow)
	}

	if w.Start != nil && w.End != nil && *w.Start >= *w.End {
		return fmt.Errorf("%w: start %.2f is not before end %.2f", ErrInvalidTrimWindow, *w.Start, *w.End)
	}

	return nil
}

// DownloadRequest is constructed by the caller and consumed once by a task.
type DownloadRequest struct {
	// Reference is the target item; only URL is required.
	Reference Reference
	// OutputDir is the directory receiving the file.
	OutputDir string
	// Quality is a catalog label such as "720p" or "192kbps".
	Quality string
	// Kind selects video or audio.
	Kind Kind
	// FormatID pins a backend-specific format, if the caller picked one from the catalog.
	FormatID string
	// Trim is an optional cut, video only.
	Trim *TrimWindow
}

// Validate checks the request before any backend is called.
func (r *DownloadRequest) Validate() error {
	if strings.TrimSpace(r.Reference.URL) == "" {
		return ErrEmptyURL
	}

	if strings.TrimSpace(r.OutputDir) == "" {
		return ErrEmptyOutputDir
	}

	if r.Trim.IsEmpty() {
		return nil
	}

	if r.Kind == KindAudio {
		return ErrTrimAudio
	}

	return r.Trim.Validate()
}

// DownloadResult is the outcome of one item. It is either successful or failed, never both.
type DownloadResult struct {
	// Success is true when the file was produced.
	Success bool
	// FilePath is the main produced file.
	FilePath string
	// Files lists every produced file; galleries produce more than one.
	Files []string
	// Title is the title of the downloaded item.
	Title string
	// Thumbnail is the thumbnail url of the downloaded item.
	Thumbnail string
	// Error is the consolidated failure message.
	Error string
	// URL is the originating url; always set for batch items.
	URL string
}

// Succeeded builds a successful result.
func Succeeded(url, filePath, title, thumbnail string, files ...string) *DownloadResult {
	if len(files) == 0 && filePath != "" {
		files = []string{filePath}
	}

	return &DownloadResult{
		Success:   true,
		FilePath:  filePath,
		Files:     files,
		Title:     title,
		Thumbnail: thumbnail,
		URL:       url,
	}
}

// Failed builds a failure-shaped result carrying the originating url.
func Failed(url string, err error) *DownloadResult {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}

	return &DownloadResult{
		Success: false,
		Error:   message,
		URL:     url,
	}
}

// BatchResult holds one result per requested item, in request order.
type BatchResult struct {
	// Results has exactly one entry per requested item unless the run was aborted.
	Results []DownloadResult
	// SuccessCount is the number of successful entries.
	SuccessCount int
	// Aborted is set when the run stopped before scheduling every item.
	Aborted bool
	// Requested is the number of items the run was asked to process.
	Requested int
}

// NewBatchResult builds a BatchResult and computes SuccessCount.
func NewBatchResult(requested int, results []DownloadResult, aborted bool) *BatchResult {
	successCount := 0

	for i := range results {
		if results[i].Success {
			successCount++
		}
	}

	return &BatchResult{
		Results:      results,
		SuccessCount: successCount,
		Aborted:      aborted,
		Requested:    requested,
	}
}

// FailureCount returns the number of failed entries.
func (b *BatchResult) FailureCount() int {
	return len(b.Results) - b.SuccessCount
}

// Failures returns the failed entries in order.
func (b *BatchResult) Failures() []DownloadResult {
	return utils.Filter(b.Results, func(r DownloadResult) bool { return !r.Success })
}

// ErrInvalidQualityLabel indicates a label that is not "<height>p" or "<bitrate>kbps".
var ErrInvalidQualityLabel = errors.New("invalid quality label")

// ItemProgress is a single-item progress event.
type ItemProgress struct {
	// Determinate is false while the total size is unknown.
	Determinate bool
	// Percent is in [0, 100]; meaningful only when Determinate.
	Percent float64
	// DownloadedBytes is the number of bytes received so far.
	DownloadedBytes int64
	// TotalBytes is zero when unknown.
	TotalBytes int64
}

// ProgressFunc receives single-item progress. It may be called from any goroutine.
type ProgressFunc func(ItemProgress)

// NewItemProgress derives the determinate flag and percent from byte counters.
func NewItemProgress(downloaded, total int64) ItemProgress {
	if total <= 0 {
		return ItemProgress{DownloadedBytes: downloaded}
	}

	percent := float64(downloaded) / float64(total) * 100
	if percent > 100 {
		percent = 100
	}

	return ItemProgress{
		Determinate:     true,
		Percent:         percent,
		DownloadedBytes: downloaded,
		TotalBytes:      total,
	}
}

// BatchProgress is emitted after every batch item.
type BatchProgress struct {
	// Completed is the number of finished items, successful or not.
	Completed int
	// Total is the number of items in the batch.
	Total int
	// Status is a human-readable line such as "Downloaded 2/5".
	Status string
}

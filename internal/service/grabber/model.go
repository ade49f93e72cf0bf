package grabber

import (
	"time"

	"github.com/oshokin/media-grabber/internal/media"
)

// DownloadCategory represents the type of content being downloaded.
type DownloadCategory uint8

const (
	// DownloadCategoryUnknown - unknown category.
	DownloadCategoryUnknown DownloadCategory = iota
	// DownloadCategoryItem - single video, clip, image or audio track.
	DownloadCategoryItem
	// DownloadCategoryPlaylist - ordered list of items of one source.
	DownloadCategoryPlaylist
	// DownloadCategoryGallery - post holding several images or clips.
	DownloadCategoryGallery
	// DownloadCategoryProfile - posts or stories of one account.
	DownloadCategoryProfile
)

// String returns a human-readable representation of the DownloadCategory.
func (dc DownloadCategory) String() string {
	switch dc {
	case DownloadCategoryItem:
		return "item"
	case DownloadCategoryPlaylist:
		return "playlist"
	case DownloadCategoryGallery:
		return "gallery"
	case DownloadCategoryProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// categoryOf maps metadata kinds to download categories.
func categoryOf(kind media.MetadataKind) DownloadCategory {
	switch kind {
	case media.MetadataPlaylist:
		return DownloadCategoryPlaylist
	case media.MetadataGallery:
		return DownloadCategoryGallery
	default:
		return DownloadCategoryItem
	}
}

// DownloadItem is one URL given on the command line, with its detected platform.
type DownloadItem struct {
	// Platform is detected from the URL host.
	Platform media.Platform
	// URL is the item or collection page.
	URL string
}

// DownloadOptions are the per-run download settings. Empty fields fall back to the configuration.
type DownloadOptions struct {
	// OutputDir overrides output_path.
	OutputDir string
	// Quality is a catalog label; empty selects the configured default for Kind.
	Quality string
	// Kind selects video or audio.
	Kind media.Kind
	// FormatID pins a format listed by "info".
	FormatID string
	// Trim cuts single videos.
	Trim *media.TrimWindow
}

// InfoOptions control the "info" command.
type InfoOptions struct {
	// Preview fetches the thumbnail of the item.
	Preview bool
	// ThumbnailPath saves the previewed thumbnail to this file when set.
	ThumbnailPath string
}

// DownloadStatistics tracks statistics for a download session.
type DownloadStatistics struct {
	// StartTime is when the download session began.
	StartTime time.Time
	// EndTime is when the download session completed.
	EndTime time.Time
	// TotalItemsProcessed is the total number of items attempted.
	TotalItemsProcessed int64
	// ItemsDownloaded is the number of items successfully downloaded.
	ItemsDownloaded int64
	// ItemsFailed is the number of items that failed to download.
	ItemsFailed int64
	// CollectionsProcessed is the number of playlists, galleries and profiles handled.
	CollectionsProcessed int64
	// FilesProduced is the number of files written to disk.
	FilesProduced int64
	// TotalBytesDownloaded is the total size of produced files in bytes.
	TotalBytesDownloaded int64
	// Errors is a list of all errors encountered during the download process.
	Errors []DownloadError
}

// DownloadError represents a single error that occurred during download.
type DownloadError struct {
	// Category is the type of item that failed.
	Category DownloadCategory
	// Platform is the source of the item.
	Platform media.Platform
	// ItemTitle is the human-readable title of the item, if known.
	ItemTitle string
	// ItemURL is the URL of the failed item.
	ItemURL string
	// ErrorMessage is the consolidated error.
	ErrorMessage string
	// Phase indicates when the error occurred (e.g., "fetching metadata", "downloading").
	Phase string
	// ParentTitle is the title of the collection a batch item belongs to.
	ParentTitle string
	// ParentURL is the URL of the collection a batch item belongs to.
	ParentURL string
}

// collection describes a playlist, gallery or profile being downloaded item by item.
type collection struct {
	// platform is the source of every item.
	platform media.Platform
	// category is playlist, gallery or profile.
	category DownloadCategory
	// title is the display name of the collection.
	title string
	// url is the collection page, or the owner of a profile.
	url string
}

// outcome is what a download task hands back to the coordinator.
type outcome struct {
	// item is the URL the task was started for.
	item *DownloadItem
	// reference describes the downloaded item; it holds only the URL when the lookup failed.
	reference media.Reference
	// result is set for single items.
	result *media.DownloadResult
	// collection and batch are set for playlists, galleries and profiles.
	collection *collection
	batch      *media.BatchResult
	// quality is the label the download was made with.
	quality string
}

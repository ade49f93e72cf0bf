package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oshokin/media-grabber/internal/media"
)

// Info is the subset of the yt-dlp info dictionary the grabber reads.
type Info struct {
	Type       string       `json:"_type"`
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Thumbnail  string       `json:"thumbnail"`
	Thumbnails []Thumbnail  `json:"thumbnails"`
	Uploader   string       `json:"uploader"`
	Channel    string       `json:"channel"`
	WebpageURL string       `json:"webpage_url"`
	URL        string       `json:"url"`
	Duration   float64      `json:"duration"`
	Formats    []FormatInfo `json:"formats"`
	Entries    []*Info      `json:"entries"`
}

// Thumbnail is one entry of the thumbnails list.
type Thumbnail struct {
	URL string `json:"url"`
}

// FormatInfo is one entry of the yt-dlp formats list.
type FormatInfo struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Height         int     `json:"height"`
	ABR            float64 `json:"abr"`
	TBR            float64 `json:"tbr"`
	FileSize       float64 `json:"filesize"`
	FileSizeApprox float64 `json:"filesize_approx"`
}

// ParseInfo decodes the output of yt-dlp --dump-single-json.
func ParseInfo(data []byte) (*Info, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyOutput
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
	}

	return &info, nil
}

// IsCollection reports whether yt-dlp returned a playlist.
func (i *Info) IsCollection() bool {
	return i.Type == "playlist" || len(i.Entries) > 0
}

// PageURL returns the best url identifying the item, or fallback.
func (i *Info) PageURL(fallback string) string {
	switch {
	case i.WebpageURL != "":
		return i.WebpageURL
	case i.URL != "":
		return i.URL
	default:
		return fallback
	}
}

// ThumbnailURL returns the main thumbnail or the last (largest) listed one.
func (i *Info) ThumbnailURL() string {
	if i.Thumbnail != "" {
		return i.Thumbnail
	}

	if n := len(i.Thumbnails); n > 0 {
		return i.Thumbnails[n-1].URL
	}

	return ""
}

// Reference converts the info into a media reference.
func (i *Info) Reference(fallbackURL string) media.Reference {
	uploader := i.Uploader
	if uploader == "" {
		uploader = i.Channel
	}

	return media.Reference{
		URL:          i.PageURL(fallbackURL),
		ID:           i.ID,
		Title:        i.Title,
		ThumbnailURL: i.ThumbnailURL(),
		Duration:     i.Duration,
		Uploader:     uploader,
	}
}

// Children returns up to limit entry references in source order. Unavailable entries
// (null in the JSON) and entries without a url are skipped. A limit <= 0 means no cap.
func (i *Info) Children(limit int) []media.Reference {
	refs := make([]media.Reference, 0, len(i.Entries))

	for _, entry := range i.Entries {
		if limit > 0 && len(refs) >= limit {
			break
		}

		if entry == nil {
			continue
		}

		ref := entry.Reference("")
		if ref.URL == "" {
			continue
		}

		refs = append(refs, ref)
	}

	return refs
}

// RawFormats converts the formats list for media.BuildCatalog.
func (i *Info) RawFormats() []media.RawFormat {
	raw := make([]media.RawFormat, 0, len(i.Formats))

	for _, f := range i.Formats {
		raw = append(raw, f.Raw())
	}

	return raw
}

// Raw converts a yt-dlp format entry.
func (f FormatInfo) Raw() media.RawFormat {
	hasVideo := hasCodec(f.VCodec)
	hasAudio := hasCodec(f.ACodec)

	bitrate := f.ABR
	if bitrate == 0 && hasAudio && !hasVideo {
		bitrate = f.TBR
	}

	size := f.FileSize
	if size == 0 {
		size = f.FileSizeApprox
	}

	return media.RawFormat{
		FormatID: f.FormatID,
		Ext:      f.Ext,
		HasVideo: hasVideo,
		HasAudio: hasAudio,
		Height:   f.Height,
		Bitrate:  bitrate,
		FileSize: int64(size),
	}
}

func hasCodec(codec string) bool {
	return codec != "" && codec != "none"
}

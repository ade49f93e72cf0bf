package media

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// RawFormat is one format entry as reported by a backend, before normalization.
type RawFormat struct {
	// FormatID is the backend-specific identifier.
	FormatID string
	// Ext is the container extension.
	Ext string
	// HasVideo is set when the entry carries a video codec.
	HasVideo bool
	// HasAudio is set when the entry carries an audio codec.
	HasAudio bool
	// Height is the vertical resolution in pixels.
	Height int
	// Bitrate is the average audio bitrate in kbps.
	Bitrate float64
	// FileSize is in bytes; zero means unknown.
	FileSize int64
}

// Format is one selectable quality option.
type Format struct {
	// Kind is video or audio.
	Kind Kind
	// Label is "<height>p" or "<bitrate>kbps".
	Label string
	// SortKey is the height for video and the bitrate for audio.
	SortKey float64
	// FileSize is in bytes; zero means unknown.
	FileSize int64
	// FormatID is the backend-specific identifier; empty for fallback entries.
	FormatID string
	// Ext is the container extension, if known.
	Ext string
}

// Catalog holds the deduplicated video and audio options of one item, best first,
// plus the item's display metadata. It is immutable once built.
type Catalog struct {
	// Video is sorted by height, descending.
	Video []Format
	// Audio is sorted by bitrate, descending.
	Audio []Format
	// Title is copied from the item reference.
	Title string
	// Thumbnail is copied from the item reference.
	Thumbnail string
	// Duration is copied from the item reference, in seconds.
	Duration float64
	// Uploader is copied from the item reference.
	Uploader string
}

// VideoLabels returns the video labels in catalog order.
func (c *Catalog) VideoLabels() []string {
	return labels(c.Video)
}

// AudioLabels returns the audio labels in catalog order.
func (c *Catalog) AudioLabels() []string {
	return labels(c.Audio)
}

// Find returns the format with the given label, if present.
func (c *Catalog) Find(kind Kind, label string) (Format, bool) {
	list := c.Video
	if kind == KindAudio {
		list = c.Audio
	}

	for _, f := range list {
		if f.Label == label {
			return f, true
		}
	}

	return Format{}, false
}

func labels(formats []Format) []string {
	result := make([]string, len(formats))
	for i := range formats {
		result[i] = formats[i].Label
	}

	return result
}

// FallbackVideoFormats returns the fixed video options used when a backend reports none.
func FallbackVideoFormats() []Format {
	heights := []int{1080, 720, 480, 360}
	result := make([]Format, len(heights))

	for i, h := range heights {
		result[i] = Format{Kind: KindVideo, Label: VideoLabel(h), SortKey: float64(h)}
	}

	return result
}

// FallbackAudioFormats returns the fixed audio options used when a backend reports none.
func FallbackAudioFormats() []Format {
	bitrates := []float64{320, 192, 128, 64}
	result := make([]Format, len(bitrates))

	for i, b := range bitrates {
		result[i] = Format{Kind: KindAudio, Label: AudioLabel(b), SortKey: b}
	}

	return result
}

// VideoLabel formats a height as "<height>p".
func VideoLabel(height int) string {
	return strconv.Itoa(height) + "p"
}

// AudioLabel formats a bitrate as "<int(bitrate)>kbps". The fraction is truncated.
func AudioLabel(bitrate float64) string {
	return strconv.Itoa(int(bitrate)) + "kbps"
}

// ParseVideoLabel returns the height encoded in a "<height>p" label.
func ParseVideoLabel(label string) (int, error) {
	value, ok := strings.CutSuffix(strings.TrimSpace(label), "p")
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidQualityLabel, label)
	}

	height, err := strconv.Atoi(value)
	if err != nil || height <= 0 {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidQualityLabel, label)
	}

	return height, nil
}

// ParseAudioLabel returns the bitrate encoded in a "<bitrate>kbps" label.
func ParseAudioLabel(label string) (int, error) {
	value, ok := strings.CutSuffix(strings.ToLower(strings.TrimSpace(label)), "kbps")
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidQualityLabel, label)
	}

	bitrate, err := strconv.Atoi(value)
	if err != nil || bitrate <= 0 {
		return 0, fmt.Errorf("%w: '%s'", ErrInvalidQualityLabel, label)
	}

	return bitrate, nil
}

// BuildCatalog classifies, deduplicates and sorts raw formats.
//
// An entry is video when it has a video codec and a height, and audio when it has an audio codec,
// no video codec and a nonzero bitrate. Duplicates by sort key keep the first entry seen in input
// order; audio bitrates are compared in whole kbps, the precision of their labels, so every label
// names exactly one format. An empty list is replaced by the fixed fallback list of its kind.
func BuildCatalog(raw []RawFormat) *Catalog {
	var (
		video     []Format
		audio     []Format
		seenVideo = make(map[float64]struct{})
		seenAudio = make(map[float64]struct{})
	)

	for _, r := range raw {
		switch {
		case r.HasVideo && r.Height > 0:
			key := float64(r.Height)
			if _, ok := seenVideo[key]; ok {
				continue
			}

			seenVideo[key] = struct{}{}
			video = append(video, Format{
				Kind:     KindVideo,
				Label:    VideoLabel(r.Height),
				SortKey:  key,
				FileSize: r.FileSize,
				FormatID: r.FormatID,
				Ext:      r.Ext,
			})
		case r.HasAudio && !r.HasVideo && r.Bitrate > 0:
			// Audio is keyed on the whole kbps shown in the label, so 129.4 and 129.6 are one choice.
			key := math.Trunc(r.Bitrate)
			if _, ok := seenAudio[key]; ok {
				continue
			}

			seenAudio[key] = struct{}{}
			audio = append(audio, Format{
				Kind:     KindAudio,
				Label:    AudioLabel(r.Bitrate),
				SortKey:  r.Bitrate,
				FileSize: r.FileSize,
				FormatID: r.FormatID,
				Ext:      r.Ext,
			})
		}
	}

	if len(video) == 0 {
		video = FallbackVideoFormats()
	} else {
		sortDescending(video)
	}

	if len(audio) == 0 {
		audio = FallbackAudioFormats()
	} else {
		sortDescending(audio)
	}

	return &Catalog{Video: video, Audio: audio}
}

// NewCatalog builds the catalog of raw and copies the display metadata of ref into it.
func NewCatalog(ref Reference, raw []RawFormat) *Catalog {
	c := BuildCatalog(raw)
	c.Title = ref.Title
	c.Thumbnail = ref.ThumbnailURL
	c.Duration = ref.Duration
	c.Uploader = ref.Uploader

	return c
}

// sortDescending orders by SortKey, best first. Keys are unique, so stability does not matter.
func sortDescending(formats []Format) {
	slices.SortFunc(formats, func(a, b Format) int {
		switch {
		case a.SortKey > b.SortKey:
			return -1
		case a.SortKey < b.SortKey:
			return 1
		default:
			return 0
		}
	})
}

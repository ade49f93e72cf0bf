package extractor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// galleryMessageURL is the gallery-dl message type carrying a file url.
	galleryMessageURL = 3
	// titleMaxRunes truncates post descriptions used as titles.
	titleMaxRunes = 50
)

// GalleryItem is one entry reported by gallery-dl --dump-json.
type GalleryItem struct {
	// URL is the direct media url.
	URL string
	// PostURL is the page of the post holding the item.
	PostURL string
	// PostID is the source-specific post identifier.
	PostID string
	// Description is the post caption.
	Description string
	// Thumbnail is a preview image url.
	Thumbnail string
	// Type is "photo" or "video" when reported.
	Type string
}

// Title returns the description shortened for display, or fallback.
func (g GalleryItem) Title(fallback string) string {
	text := strings.TrimSpace(g.Description)
	if text == "" {
		return fallback
	}

	runes := []rune(text)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes])
	}

	return text
}

// GalleryDL runs gallery-dl.
type GalleryDL struct {
	runner     Runner
	executable string
}

// NewGalleryDL creates a gallery-dl wrapper.
func NewGalleryDL(runner Runner, executable string) *GalleryDL {
	if executable == "" {
		executable = "gallery-dl"
	}

	return &GalleryDL{runner: runner, executable: executable}
}

// Dump lists the items behind url. A positive limit is passed as --range 1-limit.
func (g *GalleryDL) Dump(ctx context.Context, url string, limit int) ([]GalleryItem, error) {
	args := []string{"--dump-json"}
	if limit > 0 {
		args = append(args, "--range", fmt.Sprintf("1-%d", limit))
	}

	args = append(args, url)

	output, err := g.runner.Run(ctx, g.executable, args...)
	if err != nil {
		return nil, err
	}

	items := ParseGalleryOutput(output)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: gallery-dl: %s", ErrNoItems, url)
	}

	return items, nil
}

// Download saves every file of url directly into dir.
func (g *GalleryDL) Download(ctx context.Context, url, dir string) error {
	_, err := g.runner.Run(ctx, g.executable, "--directory", dir, url)

	return err
}

// ParseGalleryOutput accepts both the message array printed by current gallery-dl
// and the line-delimited objects printed by older releases. Entries that carry
// no url at all are dropped.
func ParseGalleryOutput(output []byte) []GalleryItem {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return nil
	}

	var messages []json.RawMessage
	if output[0] == '[' && json.Unmarshal(output, &messages) == nil {
		return parseGalleryMessages(messages)
	}

	var items []GalleryItem

	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		var data map[string]any
		if json.Unmarshal(scanner.Bytes(), &data) != nil {
			continue
		}

		if item, ok := galleryItemFromMap("", data); ok {
			items = append(items, item)
		}
	}

	return items
}

func parseGalleryMessages(messages []json.RawMessage) []GalleryItem {
	var items []GalleryItem

	for _, raw := range messages {
		var message []json.RawMessage
		if json.Unmarshal(raw, &message) != nil || len(message) < 2 {
			continue
		}

		var messageType int
		if json.Unmarshal(message[0], &messageType) != nil || messageType != galleryMessageURL {
			continue
		}

		var fileURL string

		_ = json.Unmarshal(message[1], &fileURL)

		var data map[string]any
		if len(message) > 2 {
			_ = json.Unmarshal(message[2], &data)
		}

		if item, ok := galleryItemFromMap(fileURL, data); ok {
			items = append(items, item)
		}
	}

	return items
}

func galleryItemFromMap(fileURL string, data map[string]any) (GalleryItem, bool) {
	item := GalleryItem{
		URL:         firstString(fileURL, stringField(data, "url"), stringField(data, "video_url")),
		PostURL:     stringField(data, "post_url"),
		PostID:      firstString(stringField(data, "post_id"), stringField(data, "post_shortcode"), stringField(data, "id")),
		Description: stringField(data, "description"),
		Type:        stringField(data, "type"),
	}

	item.Thumbnail = firstString(stringField(data, "thumbnail"), stringField(data, "display_url"), item.URL)

	return item, item.URL != "" || item.PostURL != ""
}

func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

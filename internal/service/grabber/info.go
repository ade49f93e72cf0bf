package grabber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/task"
	"github.com/oshokin/media-grabber/internal/thumbnail"
)

// ShowInfo fetches the metadata of every URL in parallel and prints it as it arrives.
// With a preview, each printed item requests its thumbnail; a newer request supersedes
// the one in flight, so only the thumbnail of the last printed item is shown.
func (s *ServiceImpl) ShowInfo(ctx context.Context, urls []string, opts *InfoOptions, finish func()) {
	if opts == nil {
		opts = new(InfoOptions)
	}

	items, err := s.urlProcessor.ExtractDownloadItems(ctx, urls)
	if err != nil {
		logger.Errorf(ctx, "Failed to extract items: %v", err)

		if finish != nil {
			finish()
		}

		return
	}

	pending := 0
	done := func() {
		pending--
		if pending == 0 && finish != nil {
			finish()
		}
	}

	var loader *thumbnail.Loader
	if opts.Preview && s.thumbnails != nil {
		loader = thumbnail.NewLoader(s.thumbnails, s.poster, func(image *thumbnail.Image) {
			s.applyThumbnail(ctx, image, opts.ThumbnailPath)
		})
	}

	for _, item := range items {
		b, err := s.registry.Get(item.Platform)
		if err != nil {
			logger.Errorf(ctx, "Failed to fetch info for %s: %v", item.URL, err)

			continue
		}

		t := task.New(infoTaskName, func(ctx context.Context) (*media.Metadata, error) {
			return b.FetchInfo(ctx, item.URL)
		}, task.WithPoster(s.poster)).
			OnSuccess(func(metadata *media.Metadata) {
				printMetadata(ctx, item.URL, metadata)

				if loader == nil || metadata.Reference.ThumbnailURL == "" {
					return
				}

				pending++
				s.startWatch(loader.Request(ctx, metadata.Reference.ThumbnailURL), done)
			}).
			OnFailure(func(err error) {
				logger.Errorf(ctx, "Failed to fetch info for %s: %v", item.URL, err)
			})

		pending++
		s.startTracked(ctx, t, done)
	}

	if pending == 0 && finish != nil {
		finish()
	}
}

// startWatch tracks an already started task until it is terminal.
func (s *ServiceImpl) startWatch(h task.Handle, finished func()) {
	s.tracker.Add(h)

	go func() {
		<-h.Done()

		s.poster.Post(func() {
			s.tracker.Remove(h.ID())

			if finished != nil {
				finished()
			}
		})
	}()
}

// applyThumbnail runs on the coordinator with the thumbnail of the latest printed item.
func (s *ServiceImpl) applyThumbnail(ctx context.Context, image *thumbnail.Image, path string) {
	//nolint:gosec // Image sizes are bounded by max_thumbnail_size.
	logger.Infof(ctx, "Thumbnail:    %s, %s (%s)", image.URL, image.MimeType, humanize.Bytes(uint64(len(image.Data))))

	if path == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.DefaultFolderPermissions); err != nil {
		logger.Errorf(ctx, "Failed to create thumbnail directory: %v", err)

		return
	}

	if err := os.WriteFile(path, image.Data, constants.DefaultFilePermissions); err != nil {
		logger.Errorf(ctx, "Failed to save thumbnail: %v", err)

		return
	}

	logger.Infof(ctx, "Thumbnail saved to %s", path)
}

// printMetadata prints one item or collection as fetched.
func printMetadata(ctx context.Context, url string, m *media.Metadata) {
	ref := m.Reference

	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
	logger.Infof(ctx, "URL:          %s", url)
	logger.Infof(ctx, "Platform:     %s", m.Platform)
	logger.Infof(ctx, "Type:         %s", m.Kind)
	logger.Infof(ctx, "Title:        %s", displayTitle(ref.Title, url))

	if ref.Uploader != "" {
		logger.Infof(ctx, "Uploader:     %s", ref.Uploader)
	}

	if ref.Duration > 0 {
		logger.Infof(ctx, "Duration:     %s", formatDuration(time.Duration(ref.Duration*float64(time.Second))))
	}

	if m.IsCollection() {
		logger.Infof(ctx, "Items:        %d", len(m.Children))

		for i, child := range m.Children {
			logger.Infof(ctx, "  %2d. %s", i+1, displayTitle(child.Title, child.URL))
		}

		return
	}

	if m.Catalog == nil {
		return
	}

	logger.Infof(ctx, "Video:        %s", formatList(m.Catalog.Video))
	logger.Infof(ctx, "Audio:        %s", formatList(m.Catalog.Audio))
}

// formatList renders formats as "720p [22, 12 MB]", omitting unknown parts.
func formatList(formats []media.Format) string {
	parts := make([]string, 0, len(formats))

	for _, f := range formats {
		var details []string

		if f.FormatID != "" {
			details = append(details, f.FormatID)
		}

		if f.FileSize > 0 {
			//nolint:gosec // FileSize is checked to be positive.
			details = append(details, humanize.Bytes(uint64(f.FileSize)))
		}

		if len(details) == 0 {
			parts = append(parts, f.Label)

			continue
		}

		parts = append(parts, fmt.Sprintf("%s [%s]", f.Label, strings.Join(details, ", ")))
	}

	return strings.Join(parts, ", ")
}

package backend

import (
	"context"
	"fmt"

	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/utils"
)

// Toolbox holds the extraction tools shared by the backends.
type Toolbox struct {
	YTDLP     extractor.YTDLP
	Playlists extractor.PlaylistLister
	Gallery   *extractor.GalleryDL
	YouGet    *extractor.YouGet
	FFmpeg    *extractor.FFmpeg
	OEmbed    *extractor.OEmbed
}

// metadataFromInfo converts yt-dlp output. Collections get collectionKind and at most
// limit children; single items get a format catalog.
func metadataFromInfo(
	platform media.Platform,
	url string,
	info *extractor.Info,
	collectionKind media.MetadataKind,
	limit int,
) *media.Metadata {
	ref := info.Reference(url)

	if info.IsCollection() {
		return &media.Metadata{
			Platform:  platform,
			Kind:      collectionKind,
			Reference: ref,
			Children:  info.Children(limit),
		}
	}

	return &media.Metadata{
		Platform:  platform,
		Kind:      media.MetadataSingle,
		Reference: ref,
		Catalog:   media.NewCatalog(ref, info.RawFormats()),
	}
}

// metadataFromGallery converts gallery-dl output. Several items form a gallery; a single
// item gets the fallback catalog since gallery-dl reports no formats.
func metadataFromGallery(
	platform media.Platform,
	url string,
	items []extractor.GalleryItem,
	defaultTitle string,
) *media.Metadata {
	first := items[0]
	ref := media.Reference{
		URL:          url,
		ID:           first.PostID,
		Title:        first.Title(defaultTitle),
		ThumbnailURL: first.Thumbnail,
	}

	if len(items) == 1 {
		return &media.Metadata{
			Platform:  platform,
			Kind:      media.MetadataSingle,
			Reference: ref,
			Catalog:   media.NewCatalog(ref, nil),
		}
	}

	children := make([]media.Reference, 0, len(items))
	for _, item := range items {
		children = append(children, media.Reference{
			URL:          item.URL,
			ID:           item.PostID,
			Title:        item.Title(defaultTitle),
			ThumbnailURL: item.Thumbnail,
		})
	}

	return &media.Metadata{
		Platform:  platform,
		Kind:      media.MetadataGallery,
		Reference: ref,
		Children:  children,
	}
}

// referencesFromGallery turns a listing into one reference per post, in listing order.
// Items of the same post collapse into the first one.
func referencesFromGallery(items []extractor.GalleryItem, defaultTitle string, limit int) []media.Reference {
	seen := make(map[string]struct{}, len(items))
	refs := make([]media.Reference, 0, len(items))

	for _, item := range items {
		if limit > 0 && len(refs) >= limit {
			break
		}

		url := item.PostURL
		if url == "" {
			url = item.URL
		}

		if _, ok := seen[url]; ok {
			continue
		}

		seen[url] = struct{}{}
		refs = append(refs, media.Reference{
			URL:          url,
			ID:           item.PostID,
			Title:        item.Title(defaultTitle),
			ThumbnailURL: item.Thumbnail,
		})
	}

	return refs
}

// collectNewFiles runs fetch and returns the files it added to dir, sorted by name.
// Tools that do not report their output names are located this way.
func collectNewFiles(ctx context.Context, dir string, fetch func(ctx context.Context) error) ([]string, error) {
	before, err := utils.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	if err = fetch(ctx); err != nil {
		return nil, err
	}

	files, err := utils.NewFiles(dir, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: nothing new in %s", extractor.ErrOutputMissing, dir)
	}

	return files, nil
}

// placeholderCatalog is used when a source reports no formats at all.
func placeholderCatalog(ref media.Reference, heights []int, bitrates []float64) *media.Catalog {
	raw := make([]media.RawFormat, 0, len(heights)+len(bitrates))

	for _, h := range heights {
		raw = append(raw, media.RawFormat{HasVideo: true, HasAudio: true, Height: h})
	}

	for _, b := range bitrates {
		raw = append(raw, media.RawFormat{HasAudio: true, Bitrate: b})
	}

	return media.NewCatalog(ref, raw)
}

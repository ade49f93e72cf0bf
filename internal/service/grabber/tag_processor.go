package grabber

//go:generate $MOCKGEN -source=tag_processor.go -destination=mocks/tag_processor_mock.go

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/oshokin/id3v2/v2"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/thumbnail"
)

// TagProcessor defines the interface for writing metadata tags to audio files.
type TagProcessor interface {
	WriteTags(ctx context.Context, req *WriteTagsRequest) error
}

// WriteTagsRequest contains parameters for writing metadata to audio files.
type WriteTagsRequest struct {
	// FilePath is the downloaded mp3 file.
	FilePath string
	// Title is written as the track title.
	Title string
	// Artist is the uploader or channel name.
	Artist string
	// Comment keeps the source URL.
	Comment string
	// Cover is embedded as the front cover when set.
	Cover *thumbnail.Image
}

// TagProcessorImpl provides the default implementation of TagProcessor.
type TagProcessorImpl struct{}

// NewTagProcessor creates a new TagProcessor instance.
func NewTagProcessor() TagProcessor {
	return new(TagProcessorImpl)
}

// IsTaggable reports whether WriteTags can handle path.
func IsTaggable(path string) bool {
	return strings.EqualFold(filepath.Ext(path), constants.ExtensionMP3)
}

// WriteTags writes ID3v2 title, artist, source URL and cover art to an mp3 file.
func (tp *TagProcessorImpl) WriteTags(ctx context.Context, req *WriteTagsRequest) error {
	if req.FilePath == "" {
		return ErrEmptyFilePath
	}

	if !IsTaggable(req.FilePath) {
		return ErrNotMP3
	}

	//nolint:exhaustruct // ParseFrames intentionally omitted when Parse=false (parsing disabled).
	tag, err := id3v2.Open(filepath.Clean(req.FilePath), id3v2.Options{Parse: false})
	if err != nil {
		return err
	}

	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(req.Title)
	tag.SetArtist(req.Artist)

	if req.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    id3v2.EnglishISO6392Code,
			Description: "source",
			Text:        req.Comment,
		})
	}

	if req.Cover != nil && len(req.Cover.Data) > 0 {
		//nolint:exhaustruct // Description field intentionally empty for cover images.
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    req.Cover.MimeType,
			PictureType: id3v2.PTFrontCover,
			Picture:     req.Cover.Data,
		})
	}

	logger.DebugKV(ctx, "Writing tags", "path", req.FilePath, "title", req.Title)

	return tag.Save()
}

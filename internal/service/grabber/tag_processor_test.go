package grabber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oshokin/id3v2/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/thumbnail"
)

func TestIsTaggable(t *testing.T) {
	t.Parallel()

	assert.True(t, IsTaggable("/music/song.mp3"))
	assert.True(t, IsTaggable("SONG.MP3"))
	assert.False(t, IsTaggable("/video/clip.mp4"))
	assert.False(t, IsTaggable("cover.jpg"))
	assert.False(t, IsTaggable(""))
}

func TestTagProcessor_WriteTags(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "song.mp3")
	require.NoError(t, os.WriteFile(path, nil, constants.DefaultFilePermissions))

	err := NewTagProcessor().WriteTags(t.Context(), &WriteTagsRequest{
		FilePath: path,
		Title:    "Song",
		Artist:   "Channel",
		Comment:  "https://youtu.be/dQw4w9WgXcQ",
		Cover:    &thumbnail.Image{Data: []byte{0xFF, 0xD8, 0xFF}, MimeType: "image/jpeg"},
	})
	require.NoError(t, err)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)

	defer tag.Close()

	assert.Equal(t, "Song", tag.Title())
	assert.Equal(t, "Channel", tag.Artist())
	assert.Len(t, tag.GetFrames(tag.CommonID("Comments")), 1)
	assert.Len(t, tag.GetFrames(tag.CommonID("Attached picture")), 1)
}

func TestTagProcessor_WriteTagsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected error
	}{
		{name: "empty path", path: "", expected: ErrEmptyFilePath},
		{name: "not an mp3", path: "clip.mp4", expected: ErrNotMP3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewTagProcessor().WriteTags(t.Context(), &WriteTagsRequest{FilePath: tt.path})
			require.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestTagProcessor_MissingFile(t *testing.T) {
	t.Parallel()

	err := NewTagProcessor().WriteTags(t.Context(), &WriteTagsRequest{
		FilePath: filepath.Join(t.TempDir(), "missing.mp3"),
	})
	require.Error(t, err)
}

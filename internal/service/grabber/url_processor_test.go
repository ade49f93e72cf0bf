package grabber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/media"
)

func TestURLProcessor_ExtractDownloadItems(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	listPath := filepath.Join(dir, "links.txt")

	list := "# favourites\n" +
		"https://www.instagram.com/p/Cabc123/\n" +
		"\n" +
		"https://youtu.be/dQw4w9WgXcQ\n" +
		"https://example.com/not-a-video\n"
	require.NoError(t, os.WriteFile(listPath, []byte(list), constants.DefaultFilePermissions))

	tests := []struct {
		name     string
		urls     []string
		expected []*DownloadItem
	}{
		{
			name: "detects platforms",
			urls: []string{
				"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				"https://www.tiktok.com/@someone/video/7301234567890123456",
				"https://fb.watch/abcDEF/",
			},
			expected: []*DownloadItem{
				{Platform: media.PlatformYouTube, URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
				{Platform: media.PlatformTikTok, URL: "https://www.tiktok.com/@someone/video/7301234567890123456"},
				{Platform: media.PlatformFacebook, URL: "https://fb.watch/abcDEF/"},
			},
		},
		{
			name: "trims and drops duplicates",
			urls: []string{
				"  https://youtu.be/dQw4w9WgXcQ ",
				"https://youtu.be/dQw4w9WgXcQ",
				"",
			},
			expected: []*DownloadItem{
				{Platform: media.PlatformYouTube, URL: "https://youtu.be/dQw4w9WgXcQ"},
			},
		},
		{
			name: "expands list files once",
			urls: []string{listPath, "https://youtu.be/dQw4w9WgXcQ", listPath},
			expected: []*DownloadItem{
				{Platform: media.PlatformInstagram, URL: "https://www.instagram.com/p/Cabc123/"},
				{Platform: media.PlatformYouTube, URL: "https://youtu.be/dQw4w9WgXcQ"},
			},
		},
		{
			name:     "skips unknown platforms",
			urls:     []string{"https://vimeo.com/123456"},
			expected: []*DownloadItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items, err := NewURLProcessor().ExtractDownloadItems(t.Context(), tt.urls)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, items)
		})
	}
}

func TestURLProcessor_MissingListFile(t *testing.T) {
	t.Parallel()

	_, err := NewURLProcessor().ExtractDownloadItems(t.Context(), []string{filepath.Join(t.TempDir(), "missing.txt")})
	require.ErrorIs(t, err, os.ErrNotExist)
}

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/media-grabber/internal/media"
)

const singleVideoJSON = `{
  "id": "abc123",
  "title": "Sample clip",
  "webpage_url": "https://www.youtube.com/watch?v=abc123",
  "uploader": "",
  "channel": "Sample Channel",
  "duration": 61.5,
  "thumbnails": [{"url": "https://i.ytimg.com/small.jpg"}, {"url": "https://i.ytimg.com/large.jpg"}],
  "formats": [
    {"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "abr": 129.5, "filesize": 1000},
    {"format_id": "251", "ext": "webm", "vcodec": "none", "acodec": "opus", "abr": 0, "tbr": 160.2},
    {"format_id": "137", "ext": "mp4", "vcodec": "avc1", "acodec": "none", "height": 1080, "filesize_approx": 2048.7},
    {"format_id": "sb0", "ext": "mhtml", "vcodec": "none", "acodec": "none"}
  ]
}`

func TestParseInfoSingle(t *testing.T) {
	t.Parallel()

	info, err := ParseInfo([]byte(singleVideoJSON))
	require.NoError(t, err)

	assert.False(t, info.IsCollection())

	ref := info.Reference("https://fallback")
	assert.Equal(t, media.Reference{
		URL:          "https://www.youtube.com/watch?v=abc123",
		ID:           "abc123",
		Title:        "Sample clip",
		ThumbnailURL: "https://i.ytimg.com/large.jpg",
		Duration:     61.5,
		Uploader:     "Sample Channel",
	}, ref)

	raw := info.RawFormats()
	require.Len(t, raw, 4)
	assert.Equal(t, media.RawFormat{FormatID: "140", Ext: "m4a", HasAudio: true, Bitrate: 129.5, FileSize: 1000}, raw[0])
	assert.InDelta(t, 160.2, raw[1].Bitrate, 0.001, "tbr is used for audio-only entries without abr")
	assert.Equal(t, int64(2048), raw[2].FileSize)
	assert.True(t, raw[2].HasVideo)
	assert.False(t, raw[3].HasVideo || raw[3].HasAudio)

	catalog := media.NewCatalog(ref, raw)
	assert.Equal(t, []string{"1080p"}, catalog.VideoLabels())
	assert.Equal(t, []string{"160kbps", "129kbps"}, catalog.AudioLabels())
}

func TestParseInfoPlaylist(t *testing.T) {
	t.Parallel()

	data := `{
	  "_type": "playlist",
	  "title": "Mix",
	  "entries": [
	    {"id": "a", "title": "A", "url": "https://www.youtube.com/watch?v=a"},
	    null,
	    {"id": "b", "title": "no url"},
	    {"id": "c", "title": "C", "webpage_url": "https://www.youtube.com/watch?v=c"}
	  ]
	}`

	info, err := ParseInfo([]byte(data))
	require.NoError(t, err)
	require.True(t, info.IsCollection())

	children := info.Children(0)
	require.Len(t, children, 2)
	assert.Equal(t, "https://www.youtube.com/watch?v=a", children[0].URL)
	assert.Equal(t, "C", children[1].Title)

	assert.Len(t, info.Children(1), 1)
}

func TestParseInfoErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseInfo([]byte("  \n"))
	require.ErrorIs(t, err, ErrEmptyOutput)

	_, err = ParseInfo([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode yt-dlp output")
}

func TestFormatSelectors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bv*[height<=720]+ba/b[height<=720]", VideoFormat(720))
	assert.Equal(t, "best[height<=480]", SingleFileVideoFormat(480))
	assert.Equal(t, "192K", AudioQuality(192))
	assert.Equal(t, "137+ba/137", FormatByID(" 137 ", media.KindVideo))
	assert.Equal(t, "140", FormatByID("140", media.KindAudio))
}

func TestPlaylistID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/playlist?list=PL123_ab-C", "PL123_ab-C"},
		{"https://www.youtube.com/watch?v=x&list=PLxyz&start_radio=1", "PLxyz"},
		{"https://www.youtube.com/watch?v=x", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PlaylistID(tt.url), tt.url)
	}
}

package media

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		raw           []RawFormat
		expectedVideo []string
		expectedAudio []string
	}{
		{
			name:          "no formats yields both fallbacks",
			raw:           nil,
			expectedVideo: []string{"1080p", "720p", "480p", "360p"},
			expectedAudio: []string{"320kbps", "192kbps", "128kbps", "64kbps"},
		},
		{
			name: "duplicate heights collapse",
			raw: []RawFormat{
				{FormatID: "22", HasVideo: true, HasAudio: true, Height: 720},
				{FormatID: "136", HasVideo: true, Height: 720},
				{FormatID: "135", HasVideo: true, Height: 480},
			},
			expectedVideo: []string{"720p", "480p"},
			expectedAudio: []string{"320kbps", "192kbps", "128kbps", "64kbps"},
		},
		{
			name: "unsorted input is sorted descending",
			raw: []RawFormat{
				{HasVideo: true, Height: 360},
				{HasVideo: true, Height: 1080},
				{HasAudio: true, Bitrate: 48},
				{HasVideo: true, Height: 144},
				{HasAudio: true, Bitrate: 129.475},
				{HasAudio: true, Bitrate: 70.2},
			},
			expectedVideo: []string{"1080p", "360p", "144p"},
			expectedAudio: []string{"129kbps", "70kbps", "48kbps"},
		},
		{
			name: "entries without height or bitrate are ignored",
			raw: []RawFormat{
				{HasVideo: true},
				{HasAudio: true},
				{HasAudio: true, HasVideo: true, Bitrate: 128},
				{Height: 720, Bitrate: 128},
				{HasAudio: true, Bitrate: 160},
			},
			expectedVideo: []string{"1080p", "720p", "480p", "360p"},
			expectedAudio: []string{"160kbps"},
		},
		{
			name: "muxed format counts as video only",
			raw: []RawFormat{
				{HasVideo: true, HasAudio: true, Height: 480, Bitrate: 96},
			},
			expectedVideo: []string{"480p"},
			expectedAudio: []string{"320kbps", "192kbps", "128kbps", "64kbps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			catalog := BuildCatalog(tt.raw)

			assert.Equal(t, tt.expectedVideo, catalog.VideoLabels())
			assert.Equal(t, tt.expectedAudio, catalog.AudioLabels())
		})
	}
}

func TestBuildCatalog_FirstSeenWins(t *testing.T) {
	t.Parallel()

	catalog := BuildCatalog([]RawFormat{
		{FormatID: "first", Ext: "mp4", HasVideo: true, Height: 720, FileSize: 100},
		{FormatID: "second", Ext: "webm", HasVideo: true, Height: 720, FileSize: 999},
		{FormatID: "a1", HasAudio: true, Bitrate: 128, FileSize: 10},
		{FormatID: "a2", HasAudio: true, Bitrate: 128, FileSize: 20},
		{FormatID: "b1", HasAudio: true, Bitrate: 129.47},
		{FormatID: "b2", HasAudio: true, Bitrate: 129.6},
	})

	video, ok := catalog.Find(KindVideo, "720p")
	require.True(t, ok)
	assert.Equal(t, "first", video.FormatID)
	assert.Equal(t, "mp4", video.Ext)
	assert.Equal(t, int64(100), video.FileSize)

	audio, ok := catalog.Find(KindAudio, "128kbps")
	require.True(t, ok)
	assert.Equal(t, "a1", audio.FormatID)

	// Both bitrates would be labeled 129kbps; the first one seen owns the label.
	assert.Equal(t, []string{"129kbps", "128kbps"}, catalog.AudioLabels())

	audio, ok = catalog.Find(KindAudio, "129kbps")
	require.True(t, ok)
	assert.Equal(t, "b1", audio.FormatID)

	_, ok = catalog.Find(KindAudio, "720p")
	assert.False(t, ok)
}

func TestBuildCatalog_FallbackUnmodified(t *testing.T) {
	t.Parallel()

	onlyAudio := BuildCatalog([]RawFormat{{HasAudio: true, Bitrate: 128}})
	assert.Equal(t, FallbackVideoFormats(), onlyAudio.Video)

	onlyVideo := BuildCatalog([]RawFormat{{HasVideo: true, Height: 720}})
	assert.Equal(t, FallbackAudioFormats(), onlyVideo.Audio)

	// Mutating a returned catalog must not leak into later fallbacks.
	onlyAudio.Video[0].Label = "changed"
	assert.Equal(t, "1080p", FallbackVideoFormats()[0].Label)
}

// TestBuildCatalog_Properties checks uniqueness and ordering over random inputs.
func TestBuildCatalog_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7)) //nolint:gosec // Deterministic test data.
	heights := []int{0, 144, 240, 360, 480, 720, 1080, 1440, 2160}
	bitrates := []float64{0, 48, 64, 70.5, 70.9, 128, 160, 192, 256, 320}

	for range 200 {
		raw := make([]RawFormat, rng.IntN(30))
		for i := range raw {
			raw[i] = RawFormat{
				HasVideo: rng.IntN(2) == 0,
				HasAudio: rng.IntN(2) == 0,
				Height:   heights[rng.IntN(len(heights))],
				Bitrate:  bitrates[rng.IntN(len(bitrates))],
			}
		}

		catalog := BuildCatalog(raw)

		for _, list := range [][]Format{catalog.Video, catalog.Audio} {
			require.NotEmpty(t, list)

			seen := make(map[float64]struct{}, len(list))
			labels := make(map[string]struct{}, len(list))

			for i, f := range list {
				_, duplicateLabel := labels[f.Label]
				require.False(t, duplicateLabel, "duplicate label %s", f.Label)

				labels[f.Label] = struct{}{}

				_, duplicate := seen[f.SortKey]
				require.False(t, duplicate, "duplicate sort key %v", f.SortKey)

				seen[f.SortKey] = struct{}{}

				if i > 0 {
					require.Greater(t, list[i-1].SortKey, f.SortKey)
				}
			}
		}
	}
}

func TestNewCatalog_CopiesMetadata(t *testing.T) {
	t.Parallel()

	ref := Reference{
		URL:          "https://example.com/v",
		Title:        "Clip",
		ThumbnailURL: "https://example.com/t.jpg",
		Duration:     61.5,
		Uploader:     "Channel",
	}

	catalog := NewCatalog(ref, nil)

	assert.Equal(t, "Clip", catalog.Title)
	assert.Equal(t, "https://example.com/t.jpg", catalog.Thumbnail)
	assert.InDelta(t, 61.5, catalog.Duration, 0.001)
	assert.Equal(t, "Channel", catalog.Uploader)
}

func TestQualityLabels(t *testing.T) {
	t.Parallel()

	height, err := ParseVideoLabel("720p")
	require.NoError(t, err)
	assert.Equal(t, 720, height)

	bitrate, err := ParseAudioLabel("192kbps")
	require.NoError(t, err)
	assert.Equal(t, 192, bitrate)

	for _, bad := range []string{"", "p", "hd", "-1p", "720"} {
		_, err = ParseVideoLabel(bad)
		require.ErrorIs(t, err, ErrInvalidQualityLabel, bad)
	}

	for _, bad := range []string{"", "kbps", "192", "0kbps"} {
		_, err = ParseAudioLabel(bad)
		require.ErrorIs(t, err, ErrInvalidQualityLabel, bad)
	}

	assert.Equal(t, "129kbps", AudioLabel(129.9))
	assert.Equal(t, "2160p", VideoLabel(2160))
}

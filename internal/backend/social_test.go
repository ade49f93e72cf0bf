package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/extractor"
	"github.com/oshokin/media-grabber/internal/media"
)

const (
	instagramPostURL = "https://www.instagram.com/p/Cx1/"
	tikTokVideoURL   = "https://www.tiktok.com/@someone/video/1"
	facebookVideoURL = "https://www.facebook.com/watch?v=42"
)

// galleryDump is a gallery-dl --dump-json listing with two files of one post and one of another.
const galleryDump = `[
[2, {"post_url": "https://www.instagram.com/p/A/", "post_id": "A"}],
[3, "https://cdn.example.com/a1.jpg", {"post_url": "https://www.instagram.com/p/A/", "post_id": "A", "description": "first post"}],
[3, "https://cdn.example.com/a2.jpg", {"post_url": "https://www.instagram.com/p/A/", "post_id": "A", "description": "first post"}],
[3, "https://cdn.example.com/b1.mp4", {"post_url": "https://www.instagram.com/p/B/", "post_id": "B"}]
]`

func TestSocialDownloadShapes(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	target := backend.Target{URL: "https://example.com/x", OutputDir: setup.outputDir}

	tests := []struct {
		name    string
		backend backend.Backend
		call    backend.Call
	}{
		{"instagram rejects typed", backend.NewInstagram(setup.tools), backend.TypedCall{Target: target}},
		{"instagram rejects full", backend.NewInstagram(setup.tools), backend.FullCall{Target: target}},
		{"tiktok rejects basic", backend.NewTikTok(setup.tools), backend.BasicCall{Target: target}},
		{"tiktok rejects typed", backend.NewTikTok(setup.tools), backend.TypedCall{Target: target}},
		{"facebook rejects quality", backend.NewFacebook(setup.tools), backend.QualityCall{Target: target}},
		{"facebook rejects full", backend.NewFacebook(setup.tools), backend.FullCall{Target: target}},
	}

	for _, tt := range tests {
		result, err := tt.backend.Download(t.Context(), tt.call)
		require.ErrorIs(t, err, backend.ErrShapeMismatch, tt.name)
		assert.Nil(t, result, tt.name)
	}
}

func TestInstagramListBatchItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    backend.BatchKind
		wantURL string
	}{
		{"posts", backend.BatchPosts, "https://www.instagram.com/someone/"},
		{"stories", backend.BatchStories, "https://www.instagram.com/stories/someone/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			setup := newTestToolsSetup(t, "")
			setup.ytdlp.EXPECT().
				Extract(gomock.Any(), tt.wantURL, extractor.ExtractOptions{Flat: true, Limit: 2}).
				Return(&extractor.Info{
					Type: "playlist",
					Entries: []*extractor.Info{
						{URL: "https://www.instagram.com/p/1/", Title: "one"},
						nil,
						{URL: "https://www.instagram.com/p/2/", Title: "two"},
						{URL: "https://www.instagram.com/p/3/", Title: "three"},
					},
				}, nil)

			refs, err := backend.NewInstagram(setup.tools).ListBatchItems(t.Context(), " @someone/ ", tt.kind, 2)
			require.NoError(t, err)
			require.Len(t, refs, 2)
			assert.Equal(t, "one", refs[0].Title)
			assert.Equal(t, "two", refs[1].Title)
		})
	}
}

func TestInstagramListBatchItemsGalleryFallback(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	profileURL := "https://www.instagram.com/someone/"

	// An empty flat listing counts as a failure of the primary method.
	setup.ytdlp.EXPECT().
		Extract(gomock.Any(), profileURL, gomock.Any()).
		Return(&extractor.Info{Type: "playlist"}, nil)
	setup.runner.EXPECT().
		Run(gomock.Any(), "gallery-dl", "--dump-json", "--range", "1-20", profileURL).
		Return([]byte(galleryDump), nil)

	refs, err := backend.NewInstagram(setup.tools).ListBatchItems(t.Context(), "someone", backend.BatchPosts, 0)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "https://www.instagram.com/p/A/", refs[0].URL)
	assert.Equal(t, "first post", refs[0].Title)
	assert.Equal(t, "https://www.instagram.com/p/B/", refs[1].URL)
	assert.Equal(t, "Instagram Post", refs[1].Title)
}

func TestInstagramListBatchItemsEmptyOwner(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")

	_, err := backend.NewInstagram(setup.tools).ListBatchItems(t.Context(), " @/ ", backend.BatchPosts, 5)
	require.ErrorIs(t, err, backend.ErrInvalidArgument)
}

func TestInstagramFetchInfoGalleryFallback(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")

	setup.ytdlp.EXPECT().Extract(gomock.Any(), instagramPostURL, gomock.Any()).Return(nil, errPrimary)
	setup.runner.EXPECT().
		Run(gomock.Any(), "gallery-dl", "--dump-json", instagramPostURL).
		Return([]byte(galleryDump), nil)

	metadata, err := backend.NewInstagram(setup.tools).FetchInfo(t.Context(), instagramPostURL)
	require.NoError(t, err)
	assert.Equal(t, media.MetadataGallery, metadata.Kind)
	assert.Equal(t, "first post", metadata.Reference.Title)
	require.Len(t, metadata.Children, 3)
	assert.Equal(t, "https://cdn.example.com/b1.mp4", metadata.Children[2].URL)
}

func TestInstagramDownloadGalleryFallback(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	dir := setup.outputDir

	setup.ytdlp.EXPECT().
		Download(gomock.Any(), instagramPostURL, extractor.DownloadOptions{OutputDir: dir, Format: extractor.BestFormat}).
		Return(nil, errPrimary)
	setup.runner.EXPECT().
		Run(gomock.Any(), "gallery-dl", "--directory", dir, instagramPostURL).
		DoAndReturn(writeFiles(t, dir, "b.jpg", "a.jpg"))

	result, err := backend.NewInstagram(setup.tools).Download(t.Context(), backend.BasicCall{
		Target: backend.Target{URL: instagramPostURL, OutputDir: dir},
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), result.FilePath)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}, result.Files)
}

func TestInstagramDownloadFallbackWithoutFiles(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	dir := setup.outputDir

	setup.ytdlp.EXPECT().Download(gomock.Any(), instagramPostURL, gomock.Any()).Return(nil, errPrimary)
	setup.runner.EXPECT().
		Run(gomock.Any(), "gallery-dl", "--directory", dir, instagramPostURL).
		Return(nil, nil)

	result, err := backend.NewInstagram(setup.tools).Download(t.Context(), backend.BasicCall{
		Target: backend.Target{URL: instagramPostURL, OutputDir: dir},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, extractor.ErrOutputMissing.Error())
	assert.Contains(t, result.Error, errPrimary.Error())
}

func TestTikTokDownloadFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quality    string
		wantFormat string
	}{
		{"720p", "best[height<=720]/best"},
		{"128kbps", extractor.BestFormat},
		{"", extractor.BestFormat},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			t.Parallel()

			setup := newTestToolsSetup(t, "")
			dir := setup.outputDir

			setup.ytdlp.EXPECT().
				Download(gomock.Any(), tikTokVideoURL, extractor.DownloadOptions{OutputDir: dir, Format: tt.wantFormat}).
				Return(&extractor.Downloaded{FilePath: filepath.Join(dir, "v.mp4")}, nil)

			result, err := backend.NewTikTok(setup.tools).Download(t.Context(), backend.QualityCall{
				Target:  backend.Target{URL: tikTokVideoURL, OutputDir: dir},
				Quality: tt.quality,
			})
			require.NoError(t, err)
			require.True(t, result.Success)
			assert.Equal(t, "TikTok Video", result.Title)
		})
	}
}

func TestTikTokListBatchItems(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	tikTok := backend.NewTikTok(setup.tools)

	_, err := tikTok.ListBatchItems(t.Context(), "someone", backend.BatchStories, 5)
	require.ErrorIs(t, err, backend.ErrUnsupported)

	profileURL := "https://www.tiktok.com/@someone"
	setup.ytdlp.EXPECT().Extract(gomock.Any(), profileURL, gomock.Any()).Return(nil, errPrimary)
	setup.runner.EXPECT().
		Run(gomock.Any(), "gallery-dl", "--dump-json", "--range", "1-5", profileURL).
		Return(nil, errFallback)

	_, err = tikTok.ListBatchItems(t.Context(), "@someone", backend.BatchPosts, 5)
	require.ErrorIs(t, err, backend.ErrBackendFailed)
	require.ErrorIs(t, err, errPrimary)
	require.ErrorIs(t, err, errFallback)
}

func TestFacebookFetchInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		youGetOut []byte
		youGetErr error
		wantTitle string
	}{
		{
			name:      "you-get title",
			youGetOut: []byte(`{"title": "Reel from you-get"}`),
			wantTitle: "Reel from you-get",
		},
		{
			name:      "placeholder when every method fails",
			youGetErr: errFallback,
			wantTitle: "Facebook Video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			setup := newTestToolsSetup(t, "")

			setup.ytdlp.EXPECT().Extract(gomock.Any(), facebookVideoURL, gomock.Any()).Return(nil, errPrimary)
			setup.runner.EXPECT().
				Run(gomock.Any(), "you-get", "--json", facebookVideoURL).
				Return(tt.youGetOut, tt.youGetErr)

			metadata, err := backend.NewFacebook(setup.tools).FetchInfo(t.Context(), facebookVideoURL)
			require.NoError(t, err)
			assert.Equal(t, media.MetadataSingle, metadata.Kind)
			assert.Equal(t, tt.wantTitle, metadata.Reference.Title)
			require.NotNil(t, metadata.Catalog)
			assert.Equal(t, []string{"720p", "480p", "360p"}, metadata.Catalog.VideoLabels())
			assert.Equal(t, []string{"128kbps"}, metadata.Catalog.AudioLabels())
		})
	}
}

func TestFacebookFetchInfoCancelled(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	ctx, cancel := context.WithCancel(t.Context())

	setup.ytdlp.EXPECT().
		Extract(gomock.Any(), facebookVideoURL, gomock.Any()).
		DoAndReturn(func(context.Context, string, extractor.ExtractOptions) (*extractor.Info, error) {
			cancel()

			return nil, errPrimary
		})

	_, err := backend.NewFacebook(setup.tools).FetchInfo(ctx, facebookVideoURL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFacebookDownload(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")
	dir := setup.outputDir

	setup.ytdlp.EXPECT().
		Download(gomock.Any(), facebookVideoURL, extractor.DownloadOptions{
			OutputDir:    dir,
			Format:       extractor.BestAudioFormat,
			ExtractAudio: true,
			AudioFormat:  extractor.AudioFormatMP3,
			AudioQuality: "128K",
		}).
		Return(nil, errPrimary)
	setup.runner.EXPECT().
		Run(gomock.Any(), "you-get", "-o", dir, facebookVideoURL).
		DoAndReturn(writeFiles(t, dir, "video.mp4"))

	result, err := backend.NewFacebook(setup.tools).Download(t.Context(), backend.TypedCall{
		Target:  backend.Target{URL: facebookVideoURL, OutputDir: dir},
		Quality: "128kbps",
		Kind:    media.KindAudio,
	})
	require.NoError(t, err)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, filepath.Join(dir, "video.mp4"), result.FilePath)
	assert.Equal(t, "Facebook Video", result.Title)
}

func TestFacebookListBatchItemsUnsupported(t *testing.T) {
	t.Parallel()

	setup := newTestToolsSetup(t, "")

	_, err := backend.NewFacebook(setup.tools).ListBatchItems(t.Context(), "page", backend.BatchPosts, 5)
	require.ErrorIs(t, err, backend.ErrUnsupported)
}

package grabber_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/media-grabber/internal/backend"
	mock_backend "github.com/oshokin/media-grabber/internal/backend/mocks"
	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/constants"
	mock_history "github.com/oshokin/media-grabber/internal/history/mocks"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/service/grabber"
	mock_grabber "github.com/oshokin/media-grabber/internal/service/grabber/mocks"
	"github.com/oshokin/media-grabber/internal/task"
	mock_thumbnail "github.com/oshokin/media-grabber/internal/thumbnail/mocks"
)

const waitTimeout = 5 * time.Second

// batchBackend is a backend that can also download in bulk.
type batchBackend struct {
	*mock_backend.MockBackend
	*mock_backend.MockBatchDownloader
}

// testServiceSetup runs a service on a dispatcher goroutine, the way the command does.
type testServiceSetup struct {
	ctrl       *gomock.Controller
	backend    *mock_backend.MockBackend
	bulk       *mock_backend.MockBatchDownloader
	tags       *mock_grabber.MockTagProcessor
	thumbnails *mock_thumbnail.MockImageFetcher
	recorder   *mock_history.MockRecorder
	dispatcher *task.Dispatcher
	cfg        *config.Config
	outputDir  string
	service    grabber.Service
}

type setupOptions struct {
	configure    func(cfg *config.Config)
	urlProcessor grabber.URLProcessor
	bulk         bool
	cacheTTL     time.Duration
}

type setupOption func(*setupOptions)

func withConfig(fn func(cfg *config.Config)) setupOption {
	return func(o *setupOptions) { o.configure = fn }
}

func withURLProcessor(p grabber.URLProcessor) setupOption {
	return func(o *setupOptions) { o.urlProcessor = p }
}

func withBulkDownloads() setupOption {
	return func(o *setupOptions) { o.bulk = true }
}

// withMetadataCache puts the backend behind the metadata cache, as the command does.
func withMetadataCache(ttl time.Duration) setupOption {
	return func(o *setupOptions) { o.cacheTTL = ttl }
}

func newTestServiceSetup(t *testing.T, ctrl *gomock.Controller, opts ...setupOption) *testServiceSetup {
	t.Helper()

	o := &setupOptions{urlProcessor: grabber.NewURLProcessor()}
	for _, opt := range opts {
		opt(o)
	}

	outputDir := t.TempDir()
	cfg := &config.Config{
		OutputPath:          outputDir,
		DefaultVideoQuality: "720p",
		DefaultAudioQuality: "192kbps",
		BatchLimit:          20,
		HistoryLimit:        100,
	}

	if o.configure != nil {
		o.configure(cfg)
	}

	setup := &testServiceSetup{
		ctrl:       ctrl,
		backend:    mock_backend.NewMockBackend(ctrl),
		tags:       mock_grabber.NewMockTagProcessor(ctrl),
		thumbnails: mock_thumbnail.NewMockImageFetcher(ctrl),
		recorder:   mock_history.NewMockRecorder(ctrl),
		dispatcher: task.NewDispatcher(),
		cfg:        cfg,
		outputDir:  outputDir,
	}

	setup.backend.EXPECT().Platform().Return(media.PlatformYouTube).AnyTimes()

	var b backend.Backend = setup.backend
	if o.bulk {
		setup.bulk = mock_backend.NewMockBatchDownloader(ctrl)
		b = batchBackend{MockBackend: setup.backend, MockBatchDownloader: setup.bulk}
	}

	if o.cacheTTL > 0 {
		b = backend.NewCached(b, backend.CacheOptions{TTL: o.cacheTTL})
	}

	setup.service = grabber.NewService(cfg, &grabber.Dependencies{
		Registry:     backend.NewRegistry(b),
		URLProcessor: o.urlProcessor,
		TagProcessor: setup.tags,
		Thumbnails:   setup.thumbnails,
		Recorder:     setup.recorder,
		Poster:       setup.dispatcher,
	})

	ctx, cancel := context.WithCancel(t.Context())
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		_ = setup.dispatcher.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	return setup
}

// run posts fn to the coordinator and waits until fn's finish callback fires.
func (s *testServiceSetup) run(t *testing.T, fn func(finish func())) {
	t.Helper()

	done := make(chan struct{})

	s.dispatcher.Post(func() {
		fn(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("service did not finish")
	}
}

// onCoordinator runs fn on the dispatcher goroutine and waits for it.
func (s *testServiceSetup) onCoordinator(t *testing.T, fn func()) {
	t.Helper()

	done := make(chan struct{})

	s.dispatcher.Post(func() {
		defer close(done)

		fn()
	})

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("coordinator did not run the callback")
	}
}

func (s *testServiceSetup) statistics() grabber.DownloadStatistics {
	impl, ok := s.service.(*grabber.ServiceImpl)
	if !ok {
		return grabber.DownloadStatistics{}
	}

	return impl.Statistics()
}

// produce writes a file into the output directory and returns a successful result for it.
func (s *testServiceSetup) produce(t *testing.T, url, name, content, title string) *media.DownloadResult {
	t.Helper()

	path := filepath.Join(s.outputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), constants.DefaultFilePermissions))

	return media.Succeeded(url, path, title, "")
}

func singleMetadata(url, title string) *media.Metadata {
	ref := media.Reference{URL: url, Title: title, Uploader: "Channel", ThumbnailURL: "https://i.ytimg.com/" + title + ".jpg"}

	return &media.Metadata{
		Platform:  media.PlatformYouTube,
		Kind:      media.MetadataSingle,
		Reference: ref,
		Catalog: media.NewCatalog(ref, []media.RawFormat{
			{FormatID: "22", HasVideo: true, HasAudio: true, Height: 720},
			{FormatID: "140", HasAudio: true, Bitrate: 129},
		}),
	}
}

func playlistMetadata(url, title string, children ...string) *media.Metadata {
	refs := make([]media.Reference, 0, len(children))
	for _, child := range children {
		refs = append(refs, media.Reference{URL: child, Title: "title of " + child})
	}

	return &media.Metadata{
		Platform:  media.PlatformYouTube,
		Kind:      media.MetadataPlaylist,
		Reference: media.Reference{URL: url, Title: title},
		Children:  refs,
	}
}

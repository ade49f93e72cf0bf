package backend_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/extractor"
	mock_extractor "github.com/oshokin/media-grabber/internal/extractor/mocks"
)

var (
	errPrimary  = errors.New("primary broke")
	errFallback = errors.New("fallback broke")
)

// testToolsSetup holds mocked tools shared by the backend tests.
type testToolsSetup struct {
	ytdlp     *mock_extractor.MockYTDLP
	runner    *mock_extractor.MockRunner
	playlists *mock_extractor.MockPlaylistLister
	tools     backend.Toolbox
	outputDir string
}

// newTestToolsSetup creates mocked tools. oEmbedEndpoint may be empty when unused.
func newTestToolsSetup(t *testing.T, oEmbedEndpoint string) *testToolsSetup {
	t.Helper()

	ctrl := gomock.NewController(t)
	ytdlp := mock_extractor.NewMockYTDLP(ctrl)
	runner := mock_extractor.NewMockRunner(ctrl)
	playlists := mock_extractor.NewMockPlaylistLister(ctrl)

	return &testToolsSetup{
		ytdlp:     ytdlp,
		runner:    runner,
		playlists: playlists,
		outputDir: t.TempDir(),
		tools: backend.Toolbox{
			YTDLP:     ytdlp,
			Playlists: playlists,
			Gallery:   extractor.NewGalleryDL(runner, ""),
			YouGet:    extractor.NewYouGet(runner, ""),
			FFmpeg:    extractor.NewFFmpeg(runner, ""),
			OEmbed:    extractor.NewOEmbed(http.DefaultClient, oEmbedEndpoint),
		},
	}
}

// writeFiles returns a runner action that creates names inside dir.
func writeFiles(t *testing.T, dir string, names ...string) func(context.Context, string, ...string) ([]byte, error) {
	t.Helper()

	return func(context.Context, string, ...string) ([]byte, error) {
		for _, name := range names {
			err := os.WriteFile(filepath.Join(dir, name), []byte(name), constants.DefaultFilePermissions)
			require.NoError(t, err)
		}

		return nil, nil
	}
}

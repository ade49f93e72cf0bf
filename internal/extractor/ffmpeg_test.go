package extractor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/extractor"
	mock_extractor "github.com/oshokin/media-grabber/internal/extractor/mocks"
	"github.com/oshokin/media-grabber/internal/media"
)

func seconds(v float64) *float64 {
	return &v
}

func TestTrimArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		window *media.TrimWindow
		want   []string
	}{
		{
			name:   "both bounds use duration",
			window: &media.TrimWindow{Start: seconds(10), End: seconds(25.5)},
			want:   []string{"-i", "in.mp4", "-ss", "10", "-t", "15.5", "-c", "copy", "-y", "out.mp4"},
		},
		{
			name:   "start only",
			window: &media.TrimWindow{Start: seconds(3)},
			want:   []string{"-i", "in.mp4", "-ss", "3", "-c", "copy", "-y", "out.mp4"},
		},
		{
			name:   "end only uses absolute position",
			window: &media.TrimWindow{End: seconds(42)},
			want:   []string{"-i", "in.mp4", "-to", "42", "-c", "copy", "-y", "out.mp4"},
		},
		{
			name: "nil window copies",
			want: []string{"-i", "in.mp4", "-c", "copy", "-y", "out.mp4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, extractor.TrimArgs("in.mp4", "out.mp4", tt.window))
		})
	}
}

func TestFFmpegTrim(t *testing.T) {
	t.Parallel()

	window := &media.TrimWindow{Start: seconds(1), End: seconds(2)}

	t.Run("replaces the original", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "clip.mp4")
		require.NoError(t, os.WriteFile(input, []byte("full"), constants.DefaultFilePermissions))

		ctrl := gomock.NewController(t)
		runner := mock_extractor.NewMockRunner(ctrl)

		wantOutput := filepath.Join(dir, "clip_trimmed.mp4")

		runner.EXPECT().
			Run(gomock.Any(), "ffmpeg", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, args ...string) ([]byte, error) {
				assert.Equal(t, wantOutput, args[len(args)-1])

				return nil, os.WriteFile(wantOutput, []byte("cut"), constants.DefaultFilePermissions)
			})

		output, err := extractor.NewFFmpeg(runner, "").Trim(t.Context(), input, window)
		require.NoError(t, err)
		assert.Equal(t, wantOutput, output)
		assert.NoFileExists(t, input)
	})

	t.Run("keeps the original on failure", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "clip.mp4")
		require.NoError(t, os.WriteFile(input, []byte("full"), constants.DefaultFilePermissions))

		ctrl := gomock.NewController(t)
		runner := mock_extractor.NewMockRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "ffmpeg", gomock.Any()).Return(nil, errors.New("exit 1"))

		_, err := extractor.NewFFmpeg(runner, "").Trim(t.Context(), input, window)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "video trimming failed")
		assert.FileExists(t, input)
	})

	t.Run("missing output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "clip.mp4")
		require.NoError(t, os.WriteFile(input, []byte("full"), constants.DefaultFilePermissions))

		ctrl := gomock.NewController(t)
		runner := mock_extractor.NewMockRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), "ffmpeg", gomock.Any()).Return(nil, nil)

		_, err := extractor.NewFFmpeg(runner, "").Trim(t.Context(), input, window)
		require.ErrorIs(t, err, extractor.ErrOutputMissing)
		assert.FileExists(t, input)
	})
}

package extractor

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/utils"
)

// FFmpeg runs ffmpeg for post-processing.
type FFmpeg struct {
	runner     Runner
	executable string
}

// NewFFmpeg creates an ffmpeg wrapper.
func NewFFmpeg(runner Runner, executable string) *FFmpeg {
	if executable == "" {
		executable = "ffmpeg"
	}

	return &FFmpeg{runner: runner, executable: executable}
}

// Trim cuts input to window without re-encoding. The result is written next to
// input as "<base>_trimmed<ext>" and input is removed once the result exists.
func (f *FFmpeg) Trim(ctx context.Context, input string, window *media.TrimWindow) (string, error) {
	output := utils.AddFileSuffix(input, constants.TrimmedSuffix)

	if _, err := f.runner.Run(ctx, f.executable, TrimArgs(input, output, window)...); err != nil {
		return "", fmt.Errorf("video trimming failed: %w", err)
	}

	exists, err := utils.IsFileExist(output)
	if err != nil {
		return "", err
	}

	if !exists {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, output)
	}

	if err = os.Remove(input); err != nil {
		return "", fmt.Errorf("failed to remove untrimmed file: %w", err)
	}

	return output, nil
}

// TrimArgs builds the ffmpeg arguments of a stream-copy cut.
// With both bounds the length is passed as -t, with only an end it is passed as -to.
func TrimArgs(input, output string, window *media.TrimWindow) []string {
	args := []string{"-i", input}

	if window != nil && window.Start != nil {
		args = append(args, "-ss", formatSeconds(*window.Start))
	}

	if window != nil && window.End != nil {
		if window.Start != nil {
			args = append(args, "-t", formatSeconds(*window.End-*window.Start))
		} else {
			args = append(args, "-to", formatSeconds(*window.End))
		}
	}

	return append(args, "-c", "copy", "-y", output)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

package extractor

import (
	"context"
	"encoding/json"
	"fmt"
)

// YouGetInfo is the subset of you-get --json output the grabber reads.
type YouGetInfo struct {
	Title string `json:"title"`
	Site  string `json:"site"`
	URL   string `json:"url"`
}

// YouGet runs you-get.
type YouGet struct {
	runner     Runner
	executable string
}

// NewYouGet creates a you-get wrapper.
func NewYouGet(runner Runner, executable string) *YouGet {
	if executable == "" {
		executable = "you-get"
	}

	return &YouGet{runner: runner, executable: executable}
}

// Info returns the metadata you-get reports for url.
func (y *YouGet) Info(ctx context.Context, url string) (*YouGetInfo, error) {
	output, err := y.runner.Run(ctx, y.executable, "--json", url)
	if err != nil {
		return nil, err
	}

	if len(output) == 0 {
		return nil, ErrEmptyOutput
	}

	var info YouGetInfo
	if err = json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to decode you-get output: %w", err)
	}

	return &info, nil
}

// Download saves url into dir.
func (y *YouGet) Download(ctx context.Context, url, dir string) error {
	_, err := y.runner.Run(ctx, y.executable, "-o", dir, url)

	return err
}

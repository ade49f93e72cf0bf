package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
)

var (
	// ErrNoMatchingShape is returned when the backend rejected every candidate shape.
	ErrNoMatchingShape = errors.New("backend accepts none of the call shapes")
	// ErrNoResult marks an accepted call that returned neither a result nor an error.
	ErrNoResult = errors.New("backend returned no result")
)

// Downloader is the part of backend.Backend the adapter needs.
type Downloader interface {
	Download(ctx context.Context, call backend.Call) (*media.DownloadResult, error)
}

// Candidates returns the calls expressing req, most specific first.
func Candidates(req *media.DownloadRequest, progress media.ProgressFunc) []backend.Call {
	target := backend.Target{
		URL:       req.Reference.URL,
		OutputDir: req.OutputDir,
		Progress:  progress,
	}

	return []backend.Call{
		backend.FullCall{
			Target:   target,
			Quality:  req.Quality,
			Kind:     req.Kind,
			FormatID: req.FormatID,
			Trim:     req.Trim,
		},
		backend.TypedCall{Target: target, Quality: req.Quality, Kind: req.Kind},
		backend.QualityCall{Target: target, Quality: req.Quality},
		backend.BasicCall{Target: target},
	}
}

// Download validates req and calls d with each candidate until one is not rejected on
// shape grounds. The accepted call's result or error is returned as is.
func Download(
	ctx context.Context,
	d Downloader,
	req *media.DownloadRequest,
	progress media.ProgressFunc,
) (*media.DownloadResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrInvalidArgument, err)
	}

	var lastErr error

	for _, call := range Candidates(req, progress) {
		result, err := d.Download(ctx, call)
		if errors.Is(err, backend.ErrShapeMismatch) {
			logger.DebugKV(ctx, "Call shape rejected", "shape", call.Shape().String(), "error", err)

			lastErr = err

			continue
		}

		if err != nil {
			return nil, err
		}

		warnDropped(ctx, req, call.Shape())

		if result == nil {
			return media.Failed(req.Reference.URL, ErrNoResult), nil
		}

		if result.URL == "" {
			result.URL = req.Reference.URL
		}

		return result, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrNoMatchingShape, lastErr)
}

// warnDropped reports request options the accepted shape cannot carry.
func warnDropped(ctx context.Context, req *media.DownloadRequest, shape backend.Shape) {
	var dropped []string

	if shape < backend.ShapeFull {
		if req.FormatID != "" {
			dropped = append(dropped, "format id")
		}

		if !req.Trim.IsEmpty() {
			dropped = append(dropped, "trim window")
		}
	}

	if shape < backend.ShapeTyped && req.Kind == media.KindAudio {
		dropped = append(dropped, "media kind")
	}

	if shape < backend.ShapeQuality && req.Quality != "" {
		dropped = append(dropped, "quality")
	}

	if len(dropped) > 0 {
		logger.WarnKV(ctx, "Backend ignores some download options", "shape", shape.String(), "ignored", dropped)
	}
}

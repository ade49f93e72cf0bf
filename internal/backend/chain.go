package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/task"
)

// step is one method of a primary/fallback chain.
type step[T any] func(ctx context.Context) (T, error)

// withFallback runs primary and, if it fails, fallback. Both errors are joined into one
// consolidated failure. A cancelled context stops the chain before the fallback runs.
func withFallback[T any](
	ctx context.Context,
	platform media.Platform,
	operation string,
	primary, fallback step[T],
) (T, error) {
	result, primaryErr := primary(ctx)
	if primaryErr == nil {
		return result, nil
	}

	var zero T

	if err := task.Checkpoint(ctx); err != nil {
		return zero, err
	}

	logger.WarnKV(ctx, "Primary method failed, trying fallback",
		"platform", platform.String(),
		"operation", operation,
		"error", primaryErr)

	result, fallbackErr := fallback(ctx)
	if fallbackErr == nil {
		return result, nil
	}

	return zero, fmt.Errorf("%w: %s %s: %w", ErrBackendFailed, platform, operation, errors.Join(primaryErr, fallbackErr))
}

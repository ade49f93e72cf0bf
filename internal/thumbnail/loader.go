package thumbnail

import (
	"context"

	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/task"
)

const taskName = "thumbnail"

// Loader owns the current thumbnail fetch. Request, Cancel and every callback run on
// the coordinating goroutine that drains the poster, so the current reference needs no lock.
type Loader struct {
	fetcher ImageFetcher
	poster  task.Poster
	apply   func(*Image)
	current *task.Task[*Image]
}

// NewLoader creates a loader that hands fresh images to apply.
func NewLoader(fetcher ImageFetcher, poster task.Poster, apply func(*Image)) *Loader {
	return &Loader{
		fetcher: fetcher,
		poster:  poster,
		apply:   apply,
	}
}

// Request supersedes the fetch in flight, if any, and starts fetching url.
func (l *Loader) Request(ctx context.Context, url string) *task.Task[*Image] {
	l.Cancel()

	var fetch *task.Task[*Image]

	fetch = task.New(taskName, func(ctx context.Context) (*Image, error) {
		return l.fetcher.Fetch(ctx, url)
	}, task.WithPoster(l.poster)).
		OnSuccess(func(image *Image) {
			if l.current != fetch {
				logger.DebugKV(ctx, "Discarding superseded thumbnail", "url", url)

				return
			}

			l.current = nil
			l.apply(image)
		}).
		OnFailure(func(err error) {
			if l.current == fetch {
				l.current = nil
			}

			logger.WarnKV(ctx, "Failed to fetch thumbnail", "url", url, "error", err)
		})

	l.current = fetch

	if err := fetch.Start(ctx); err != nil {
		logger.WarnKV(ctx, "Failed to start thumbnail fetch", "url", url, "error", err)
	}

	return fetch
}

// Cancel stops the current fetch, if any.
func (l *Loader) Cancel() {
	if l.current == nil {
		return
	}

	if l.current.Cancel() {
		logger.Debugf(context.Background(), "Cancelled thumbnail task %s", l.current.ID())
	}

	l.current = nil
}

// Pending reports whether a fetch is in flight.
func (l *Loader) Pending() bool {
	return l.current != nil
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/task"
)

// ErrNoResult indicates a download that returned neither a result nor an error.
var ErrNoResult = errors.New("download returned no result")

// DownloadFunc downloads one item. It is usually adapter.Download bound to a backend.
type DownloadFunc func(ctx context.Context, req *media.DownloadRequest) (*media.DownloadResult, error)

// Request describes a batch.
type Request struct {
	// Items are downloaded in this order.
	Items []media.Reference
	// OutputDir is shared by every item.
	OutputDir string
	// Quality is the label requested for every item.
	Quality string
	// Kind is the media kind of every item.
	Kind media.Kind
}

// Runner drives a batch serially.
type Runner struct {
	download DownloadFunc
	interval time.Duration
	progress func(media.BatchProgress)
	itemDone func(index int, result *media.DownloadResult)
	aborted  atomic.Bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithInterval paces items at least d apart.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithProgress receives progress events in batch order.
func WithProgress(fn func(media.BatchProgress)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithItemDone receives every item result right after it is known. Index is 1-based.
func WithItemDone(fn func(index int, result *media.DownloadResult)) Option {
	return func(r *Runner) {
		r.itemDone = fn
	}
}

// NewRunner creates a runner.
func NewRunner(download DownloadFunc, opts ...Option) *Runner {
	r := &Runner{download: download}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Abort stops the run after the current item. It is safe to call from any goroutine.
func (r *Runner) Abort() {
	r.aborted.Store(true)
}

// Run downloads the items of req in order and returns one result per processed item.
// The run never fails as a whole: item errors are recorded in their results.
func (r *Runner) Run(ctx context.Context, req Request) *media.BatchResult {
	total := len(req.Items)
	results := make([]media.DownloadResult, 0, total)

	var limiter *rate.Limiter
	if r.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(r.interval), 1)
	}

	for i, item := range req.Items {
		index := i + 1

		if r.shouldStop(ctx) {
			logger.InfoKV(ctx, "Batch aborted", "completed", len(results), "total", total)

			return media.NewBatchResult(total, results, true)
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return media.NewBatchResult(total, results, true)
			}
		}

		r.emit(media.BatchProgress{
			Completed: index - 1,
			Total:     total,
			Status:    fmt.Sprintf("Downloading %d/%d...", index, total),
		})

		result := r.runItem(logger.WithKV(ctx, "batch_index", index), &media.DownloadRequest{
			Reference: item,
			OutputDir: req.OutputDir,
			Quality:   req.Quality,
			Kind:      req.Kind,
		})
		results = append(results, *result)

		if r.itemDone != nil {
			r.itemDone(index, result)
		}

		r.emit(media.BatchProgress{
			Completed: index,
			Total:     total,
			Status:    fmt.Sprintf("Downloaded %d/%d", index, total),
		})
	}

	return media.NewBatchResult(total, results, false)
}

// runItem runs one item as a child task and waits for it. Every outcome,
// including a panic, becomes a result carrying the item url.
func (r *Runner) runItem(ctx context.Context, req *media.DownloadRequest) *media.DownloadResult {
	url := req.Reference.URL

	var result *media.DownloadResult

	child := task.New("batch item", func(ctx context.Context) (*media.DownloadResult, error) {
		return r.download(ctx, req)
	}).
		OnSuccess(func(res *media.DownloadResult) {
			result = res
			if result == nil {
				result = media.Failed(url, ErrNoResult)
			}
		}).
		OnFailure(func(err error) {
			result = media.Failed(url, err)
		})

	if err := child.Start(ctx); err != nil {
		return media.Failed(url, err)
	}

	<-child.Done()

	if result == nil {
		result = media.Failed(url, task.ErrCancelled)
	}

	if result.URL == "" {
		result.URL = url
	}

	if !result.Success {
		logger.WarnKV(ctx, "Batch item failed", "url", url, "error", result.Error)
	}

	return result
}

func (r *Runner) shouldStop(ctx context.Context) bool {
	return r.aborted.Load() || task.Checkpoint(ctx) != nil
}

func (r *Runner) emit(p media.BatchProgress) {
	if r.progress != nil {
		r.progress(p)
	}
}

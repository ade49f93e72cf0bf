package grabber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/batch"
	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/task"
	"github.com/oshokin/media-grabber/internal/utils"
)

// DownloadProfile lists the posts or stories of owner and downloads them as one batch.
func (s *ServiceImpl) DownloadProfile(
	ctx context.Context,
	platform media.Platform,
	owner string,
	kind backend.BatchKind,
	opts *DownloadOptions,
	finish func(),
) {
	s.markStarted()

	errCtx := &ErrorContext{
		Category:  DownloadCategoryProfile,
		Platform:  platform,
		ItemTitle: fmt.Sprintf("%s %s", owner, kind),
		ItemURL:   owner,
		Phase:     "listing " + kind.String(),
	}

	resolved, err := s.resolveOptions(opts)
	if err != nil {
		logger.Errorf(ctx, "Invalid download options: %v", err)
		s.complete(finish)

		return
	}

	b, err := s.registry.Get(platform)
	if err != nil {
		s.handleFailure(ctx, errCtx, err)
		s.complete(finish)

		return
	}

	logger.Infof(ctx, "Listing %s of %s on %s", kind, owner, platform)

	t := task.New(profileTaskName, func(ctx context.Context) (*outcome, error) {
		refs, err := b.ListBatchItems(ctx, owner, kind, s.batchLimit())
		if err != nil {
			return nil, err
		}

		c := &collection{
			platform: platform,
			category: DownloadCategoryProfile,
			title:    errCtx.ItemTitle,
			url:      owner,
		}

		return &outcome{
			item:       &DownloadItem{Platform: platform, URL: owner},
			collection: c,
			batch:      s.downloadCollection(ctx, b, c, refs, resolved),
			quality:    resolved.Quality,
		}, nil
	}, task.WithPoster(s.poster)).
		OnSuccess(func(o *outcome) { s.handleOutcome(ctx, o) }).
		OnFailure(func(err error) { s.handleFailure(ctx, errCtx, err) })

	s.startTracked(ctx, t, func() { s.complete(finish) })
}

// downloadCollection runs on the task goroutine. Items are capped at batch_limit and
// downloaded serially by a batch runner, or handed to the backend as a whole when
// use_backend_batch is on and the backend can do it.
func (s *ServiceImpl) downloadCollection(
	ctx context.Context,
	b backend.Backend,
	c *collection,
	items []media.Reference,
	opts *DownloadOptions,
) *media.BatchResult {
	if limit := s.batchLimit(); len(items) > limit {
		logger.Infof(ctx, "Keeping the first %d of %d item(s)", limit, len(items))

		items = items[:limit]
	}

	logger.Infof(ctx, "%s '%s' holds %d item(s)", c.category, displayTitle(c.title, c.url), len(items))

	if len(items) == 0 {
		return media.NewBatchResult(0, nil, false)
	}

	collectionOpts := *opts
	collectionOpts.OutputDir = s.collectionDir(ctx, opts.OutputDir, c.title)
	opts = &collectionOpts

	if s.cfg.UseBackendBatch {
		if many, ok := backend.AsBatchDownloader(b); ok {
			return s.downloadMany(ctx, many, c, items, opts)
		}

		logger.Debugf(ctx, "%s cannot download in bulk, using the batch runner", c.platform)
	}

	return s.runBatch(ctx, b, c, items, opts)
}

// runBatch drives items through a batch runner. Every finished item is recorded on the coordinator.
func (s *ServiceImpl) runBatch(
	ctx context.Context,
	b backend.Backend,
	c *collection,
	items []media.Reference,
	opts *DownloadOptions,
) *media.BatchResult {
	runner := batch.NewRunner(
		func(ctx context.Context, req *media.DownloadRequest) (*media.DownloadResult, error) {
			return s.downloadRequest(ctx, b, req)
		},
		batch.WithInterval(s.cfg.ParsedBatchItemInterval),
		batch.WithProgress(s.sink.Batch),
		batch.WithItemDone(func(index int, result *media.DownloadResult) {
			ref := items[index-1]
			cancelled := task.Checkpoint(ctx) != nil

			s.poster.Post(func() {
				s.recordBatchItem(ctx, c, ref, result, opts.Quality, cancelled)
			})
		}),
	)

	stop := context.AfterFunc(s.abortBatches, runner.Abort)
	defer stop()

	defer s.sink.Finish()

	return runner.Run(ctx, batch.Request{
		Items:     items,
		OutputDir: opts.OutputDir,
		Quality:   opts.Quality,
		Kind:      opts.Kind,
	})
}

// downloadMany hands the whole collection to the backend and records its results in order.
func (s *ServiceImpl) downloadMany(
	ctx context.Context,
	many backend.BatchDownloader,
	c *collection,
	items []media.Reference,
	opts *DownloadOptions,
) *media.BatchResult {
	urls := utils.Map(items, func(ref media.Reference) string { return ref.URL })

	result, err := many.DownloadMany(ctx, backend.ManyRequest{
		URLs:      urls,
		OutputDir: opts.OutputDir,
		Quality:   opts.Quality,
		Kind:      opts.Kind,
	})
	if err != nil {
		// A backend that rejects the bulk call still owes one result per item.
		results := make([]media.DownloadResult, len(urls))
		for i, url := range urls {
			results[i] = *media.Failed(url, err)
		}

		result = media.NewBatchResult(len(urls), results, false)
	}

	cancelled := task.Checkpoint(ctx) != nil

	for i := range result.Results {
		item := &result.Results[i]

		ref := media.Reference{URL: item.URL}
		if i < len(items) {
			ref = items[i]
		}

		s.poster.Post(func() {
			s.recordBatchItem(ctx, c, ref, item, opts.Quality, cancelled)
		})
	}

	return result
}

// recordBatchItem runs on the coordinator. Items that failed because the run was cancelled
// are not counted.
func (s *ServiceImpl) recordBatchItem(
	ctx context.Context,
	c *collection,
	ref media.Reference,
	result *media.DownloadResult,
	quality string,
	cancelled bool,
) {
	if result.Success {
		s.recordSuccess(ctx, c.platform, ref, result, quality)

		return
	}

	if cancelled {
		return
	}

	url := firstNonEmpty(result.URL, ref.URL)

	s.incrementItemFailed()
	s.recordErrorMessage(&ErrorContext{
		Category:    DownloadCategoryItem,
		Platform:    c.platform,
		ItemTitle:   ref.Title,
		ItemURL:     url,
		Phase:       "downloading " + c.category.String() + " item",
		ParentTitle: c.title,
		ParentURL:   c.url,
	}, result.Error)

	logger.Errorf(ctx, "Failed to download %s: %s", url, result.Error)
}

// collectionDir returns the folder named after the collection title inside outputDir.
// Untitled collections, and folders that cannot be created, fall back to outputDir.
func (s *ServiceImpl) collectionDir(ctx context.Context, outputDir, title string) string {
	name := utils.SanitizeFilename(strings.TrimSpace(title))
	if name == "" {
		return outputDir
	}

	dir := filepath.Join(outputDir, name)
	if err := os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
		logger.Warnf(ctx, "Failed to create folder %s, saving into %s: %v", dir, outputDir, err)

		return outputDir
	}

	return dir
}

func (s *ServiceImpl) batchLimit() int {
	if s.cfg.BatchLimit <= 0 {
		return backend.DefaultBatchLimit
	}

	return int(s.cfg.BatchLimit)
}

package grabber

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/media-grabber/internal/adapter"
	"github.com/oshokin/media-grabber/internal/backend"
	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/history"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/progress"
	"github.com/oshokin/media-grabber/internal/task"
	"github.com/oshokin/media-grabber/internal/thumbnail"
	"github.com/oshokin/media-grabber/internal/utils"
)

// Service provides the operations of the command line.
// Every method except PrintDownloadSummary must be called on the coordinating goroutine,
// the one draining the poster. The methods return at once; finish runs on the same
// goroutine after every task the call started is terminal.
type Service interface {
	// DownloadURLs downloads the given URLs one after another.
	DownloadURLs(ctx context.Context, urls []string, opts *DownloadOptions, finish func())
	// DownloadProfile lists the posts or stories of owner and downloads them as one batch.
	DownloadProfile(
		ctx context.Context,
		platform media.Platform,
		owner string,
		kind backend.BatchKind,
		opts *DownloadOptions,
		finish func(),
	)
	// ShowInfo prints the metadata and format catalog of the given URLs.
	ShowInfo(ctx context.Context, urls []string, opts *InfoOptions, finish func())
	// Shutdown stops batches after their current item and cancels every live task.
	// It returns the number of tasks that acknowledged the cancellation.
	Shutdown(ctx context.Context) int
	// PrintDownloadSummary prints a formatted summary of download statistics.
	PrintDownloadSummary(ctx context.Context)
}

// Dependencies are the collaborators of ServiceImpl.
type Dependencies struct {
	// Registry resolves platforms to backends.
	Registry *backend.Registry
	// URLProcessor expands and classifies command-line URLs.
	URLProcessor URLProcessor
	// TagProcessor writes ID3 tags when embed_metadata is on.
	TagProcessor TagProcessor
	// Thumbnails fetches previews and cover art.
	Thumbnails thumbnail.ImageFetcher
	// Recorder persists one history entry per downloaded item.
	Recorder history.Recorder
	// Progress renders item and batch progress.
	Progress progress.Sink
	// Poster delivers task callbacks to the coordinating goroutine.
	Poster task.Poster
}

// ServiceImpl implements Service on top of the backend registry and the task layer.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// registry resolves platforms to backends.
	registry *backend.Registry
	// urlProcessor handles URL parsing and platform detection.
	urlProcessor URLProcessor
	// tagProcessor writes metadata tags to mp3 files.
	tagProcessor TagProcessor
	// thumbnails fetches previews and cover art.
	thumbnails thumbnail.ImageFetcher
	// recorder persists the download history.
	recorder history.Recorder
	// sink renders progress.
	sink progress.Sink
	// poster delivers callbacks to the coordinator.
	poster task.Poster
	// tracker holds the live tasks; coordinator only.
	tracker *task.Tracker
	// abortBatches is closed by Shutdown to stop every batch after its current item.
	abortBatches       context.Context
	cancelAbortBatches context.CancelFunc
	// stats tracks download statistics for the current session.
	stats *DownloadStatistics
	// statsMutex protects statistics against PrintDownloadSummary running after the coordinator stopped.
	statsMutex *sync.Mutex
}

// startable is a task of any result type.
type startable interface {
	task.Handle
	Start(ctx context.Context) error
}

// Task names used in logs.
const (
	downloadTaskName = "download"
	profileTaskName  = "profile"
	infoTaskName     = "info"
)

// NewService creates a download service instance with dependency-injected components.
func NewService(cfg *config.Config, deps *Dependencies) Service {
	sink := deps.Progress
	if sink == nil {
		sink = progress.Nop{}
	}

	poster := deps.Poster
	if poster == nil {
		poster = task.Inline{}
	}

	abortBatches, cancelAbortBatches := context.WithCancel(context.Background())

	return &ServiceImpl{
		cfg:                cfg,
		registry:           deps.Registry,
		urlProcessor:       deps.URLProcessor,
		tagProcessor:       deps.TagProcessor,
		thumbnails:         deps.Thumbnails,
		recorder:           deps.Recorder,
		sink:               sink,
		poster:             poster,
		tracker:            task.NewTracker(),
		abortBatches:       abortBatches,
		cancelAbortBatches: cancelAbortBatches,
		stats:              new(DownloadStatistics),
		statsMutex:         new(sync.Mutex),
	}
}

// DownloadURLs downloads the given URLs one after another.
func (s *ServiceImpl) DownloadURLs(ctx context.Context, urls []string, opts *DownloadOptions, finish func()) {
	s.markStarted()

	resolved, err := s.resolveOptions(opts)
	if err != nil {
		logger.Errorf(ctx, "Invalid download options: %v", err)
		s.complete(finish)

		return
	}

	items, err := s.urlProcessor.ExtractDownloadItems(ctx, urls)
	if err != nil {
		logger.Errorf(ctx, "Failed to extract items to download: %v", err)
		s.complete(finish)

		return
	}

	if len(items) == 0 {
		logger.Warn(ctx, "Nothing to download")
		s.complete(finish)

		return
	}

	logger.Info(ctx, "Starting download process")

	s.downloadNext(ctx, items, 0, resolved, finish)
}

// downloadNext starts the task of items[index]; its completion starts the next one.
func (s *ServiceImpl) downloadNext(
	ctx context.Context,
	items []*DownloadItem,
	index int,
	opts *DownloadOptions,
	finish func(),
) {
	if index >= len(items) || ctx.Err() != nil {
		logger.Info(ctx, "Download process completed")
		s.complete(finish)

		return
	}

	item := items[index]
	logger.Infof(ctx, "Downloading item: %s (%d / %d)", item.URL, index+1, len(items))

	errCtx := &ErrorContext{
		Category: DownloadCategoryItem,
		Platform: item.Platform,
		ItemURL:  item.URL,
		Phase:    "downloading",
	}

	t := task.New(downloadTaskName, func(ctx context.Context) (*outcome, error) {
		return s.downloadItem(ctx, item, opts)
	}, task.WithPoster(s.poster)).
		OnSuccess(func(o *outcome) { s.handleOutcome(ctx, o) }).
		OnFailure(func(err error) { s.handleFailure(ctx, errCtx, err) })

	s.startTracked(ctx, t, func() {
		s.downloadNext(ctx, items, index+1, opts, finish)
	})
}

// downloadItem runs on the task goroutine. Collections go through the batch path,
// everything else through the call adapter.
func (s *ServiceImpl) downloadItem(ctx context.Context, item *DownloadItem, opts *DownloadOptions) (*outcome, error) {
	b, err := s.registry.Get(item.Platform)
	if err != nil {
		return nil, err
	}

	ref := media.Reference{URL: item.URL}

	metadata, err := b.FetchInfo(ctx, item.URL)
	if err != nil {
		if task.IsCancelled(err) {
			return nil, err
		}

		logger.Warnf(ctx, "Failed to fetch metadata of %s, downloading without it: %v", item.URL, err)

		metadata = nil
	}

	if err = task.Checkpoint(ctx); err != nil {
		return nil, err
	}

	o := &outcome{item: item, reference: ref, quality: opts.Quality}

	if metadata != nil {
		o.reference = metadata.Reference
		o.reference.URL = item.URL

		if metadata.IsCollection() {
			o.collection = &collection{
				platform: item.Platform,
				category: categoryOf(metadata.Kind),
				title:    metadata.Reference.Title,
				url:      item.URL,
			}
			o.batch = s.downloadCollection(ctx, b, o.collection, metadata.Children, opts)

			return o, nil
		}

		warnUnlistedQuality(ctx, metadata.Catalog, opts)
	}

	req := &media.DownloadRequest{
		Reference: o.reference,
		OutputDir: opts.OutputDir,
		Quality:   opts.Quality,
		Kind:      opts.Kind,
		FormatID:  opts.FormatID,
		Trim:      opts.Trim,
	}

	result, err := s.downloadRequest(ctx, b, req)

	s.sink.Finish()

	if err != nil {
		return nil, err
	}

	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrDownloadFailed, result.Error)
	}

	o.result = result

	return o, nil
}

// downloadRequest negotiates the call shape with b and tags the produced mp3 if asked to.
func (s *ServiceImpl) downloadRequest(
	ctx context.Context,
	b backend.Backend,
	req *media.DownloadRequest,
) (*media.DownloadResult, error) {
	result, err := adapter.Download(ctx, b, req, s.sink.Item)
	if err != nil {
		return nil, err
	}

	if result.Success && s.cfg.EmbedMetadata {
		s.writeTags(ctx, req.Reference, result)
	}

	return result, nil
}

// writeTags embeds title, uploader and cover art. Failures only cost the tags.
func (s *ServiceImpl) writeTags(ctx context.Context, ref media.Reference, result *media.DownloadResult) {
	if s.tagProcessor == nil || !IsTaggable(result.FilePath) {
		return
	}

	req := &WriteTagsRequest{
		FilePath: result.FilePath,
		Title:    firstNonEmpty(result.Title, ref.Title),
		Artist:   ref.Uploader,
		Comment:  ref.URL,
	}

	if coverURL := firstNonEmpty(result.Thumbnail, ref.ThumbnailURL); coverURL != "" && s.thumbnails != nil {
		cover, err := s.thumbnails.Fetch(ctx, coverURL)
		if err != nil {
			logger.Warnf(ctx, "Failed to fetch cover art for %s: %v", result.FilePath, err)
		} else {
			req.Cover = cover
		}
	}

	if err := s.tagProcessor.WriteTags(ctx, req); err != nil {
		logger.Warnf(ctx, "Failed to write tags to %s: %v", result.FilePath, err)
	}
}

// handleOutcome runs on the coordinator.
func (s *ServiceImpl) handleOutcome(ctx context.Context, o *outcome) {
	if o.batch == nil {
		s.recordSuccess(ctx, o.item.Platform, o.reference, o.result, o.quality)

		return
	}

	s.incrementCollectionProcessed()

	logger.Infof(ctx, "Finished %s '%s': %d of %d item(s) downloaded",
		o.collection.category, displayTitle(o.collection.title, o.collection.url),
		o.batch.SuccessCount, o.batch.Requested)

	if failures := o.batch.Failures(); len(failures) > 0 {
		logger.Warnf(ctx, "%d item(s) failed: %s", len(failures),
			strings.Join(utils.Map(failures, func(r media.DownloadResult) string { return r.URL }), ", "))
	}

	if o.batch.Aborted {
		logger.Warnf(ctx, "Stopped after %d of %d item(s)", len(o.batch.Results), o.batch.Requested)
	}
}

// handleFailure runs on the coordinator.
func (s *ServiceImpl) handleFailure(ctx context.Context, errCtx *ErrorContext, err error) {
	if task.IsCancelled(err) {
		return
	}

	s.incrementItemFailed()
	s.recordError(errCtx, err)

	logger.Errorf(ctx, "Failed to download %s: %v", errCtx.ItemURL, err)
}

// recordSuccess updates the statistics and appends the history entry of a downloaded item.
func (s *ServiceImpl) recordSuccess(
	ctx context.Context,
	platform media.Platform,
	ref media.Reference,
	result *media.DownloadResult,
	quality string,
) {
	s.incrementItemDownloaded(result.Files)

	logger.Infof(ctx, "Downloaded '%s' to %s", displayTitle(firstNonEmpty(result.Title, ref.Title), ref.URL),
		result.FilePath)

	if s.recorder == nil {
		return
	}

	if err := s.recorder.Add(ctx, history.NewEntry(platform, ref, result, quality)); err != nil {
		logger.Warnf(ctx, "Failed to add history entry for %s: %v", ref.URL, err)
	}
}

// Shutdown stops batches after their current item and cancels every live task.
func (s *ServiceImpl) Shutdown(ctx context.Context) int {
	s.cancelAbortBatches()

	cancelled := s.tracker.CancelAll()
	if cancelled > 0 {
		logger.Infof(ctx, "Cancelled %d running task(s)", cancelled)
	}

	return cancelled
}

// startTracked registers t as live and starts it. finished runs on the coordinator once t is
// terminal, after t's own callback.
func (s *ServiceImpl) startTracked(ctx context.Context, t startable, finished func()) {
	s.startWatch(t, finished)

	if err := t.Start(ctx); err != nil {
		logger.Errorf(ctx, "Failed to start %s task: %v", t.Name(), err)
		t.Cancel()
	}
}

// resolveOptions fills defaults from the configuration and creates the output directory.
func (s *ServiceImpl) resolveOptions(opts *DownloadOptions) (*DownloadOptions, error) {
	resolved := new(DownloadOptions)
	if opts != nil {
		*resolved = *opts
	}

	if resolved.OutputDir == "" {
		resolved.OutputDir = s.cfg.OutputPath
	}

	if resolved.OutputDir == "" {
		resolved.OutputDir = "."
	}

	if resolved.Quality == "" {
		resolved.Quality = s.cfg.DefaultVideoQuality
		if resolved.Kind == media.KindAudio {
			resolved.Quality = s.cfg.DefaultAudioQuality
		}
	}

	var err error
	if resolved.Kind == media.KindAudio {
		_, err = media.ParseAudioLabel(resolved.Quality)
	} else {
		_, err = media.ParseVideoLabel(resolved.Quality)
	}

	if err != nil {
		return nil, err
	}

	if err = resolved.Trim.Validate(); err != nil {
		return nil, err
	}

	if err = os.MkdirAll(resolved.OutputDir, constants.DefaultFolderPermissions); err != nil {
		return nil, fmt.Errorf("failed to create output path: %w", err)
	}

	return resolved, nil
}

// complete records the end of the session and calls finish.
func (s *ServiceImpl) complete(finish func()) {
	s.markFinished()

	if finish != nil {
		finish()
	}
}

func (s *ServiceImpl) markStarted() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	if s.stats.StartTime.IsZero() {
		s.stats.StartTime = time.Now()
	}
}

func (s *ServiceImpl) markFinished() {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.EndTime = time.Now()
}

// warnUnlistedQuality reports a requested label the item does not offer; the backend then
// picks the closest format itself.
func warnUnlistedQuality(ctx context.Context, catalog *media.Catalog, opts *DownloadOptions) {
	if catalog == nil || opts.FormatID != "" {
		return
	}

	if _, ok := catalog.Find(opts.Kind, opts.Quality); ok {
		return
	}

	available := catalog.VideoLabels()
	if opts.Kind == media.KindAudio {
		available = catalog.AudioLabels()
	}

	logger.WarnKV(ctx, "Requested quality is not listed", "quality", opts.Quality, "available", available)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func displayTitle(title, url string) string {
	if title != "" {
		return title
	}

	return url
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/careerscan/internal/crawler"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
	"github.com/user/careerscan/pkg/metrics"
	"github.com/user/careerscan/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// BatchFetcher fetches one batch of frontier entries.
type BatchFetcher interface {
	// FetchBatch returns one CrawlResult per entry, positionally aligned with entries.
	// Per-entry failures are reported inside the results, never as an abort.
	FetchBatch(ctx context.Context, entries []entity.FrontierEntry, policy entity.KeywordPolicy) []entity.CrawlResult
}

type pageBatchFetcher struct {
	renderer    repository.Renderer
	concurrency int
	logger      *slog.Logger
}

// FetcherOption configures the batch fetcher.
type FetcherOption func(*pageBatchFetcher)

// WithConcurrency caps simultaneous renders. Without it every entry of a batch runs at once.
func WithConcurrency(n int) FetcherOption {
	return func(f *pageBatchFetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithFetcherLogger sets the logger used for per-page events.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *pageBatchFetcher) {
		f.logger = logger
	}
}

// NewBatchFetcher creates a BatchFetcher that renders pages with renderer.
func NewBatchFetcher(renderer repository.Renderer, opts ...FetcherOption) BatchFetcher {
	f := &pageBatchFetcher{renderer: renderer}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

func (f *pageBatchFetcher) FetchBatch(ctx context.Context, entries []entity.FrontierEntry, policy entity.KeywordPolicy) []entity.CrawlResult {
	results := make([]entity.CrawlResult, len(entries))

	// A plain Group: one entry failing must not cancel its siblings.
	var g errgroup.Group
	limit := f.concurrency
	if limit <= 0 {
		limit = len(entries)
	}
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, entry := range entries {
		g.Go(func() error {
			results[i] = f.fetchEntry(ctx, entry, policy)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *pageBatchFetcher) fetchEntry(ctx context.Context, entry entity.FrontierEntry, policy entity.KeywordPolicy) (result entity.CrawlResult) {
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = f.failure(entry, fmt.Errorf("%w: renderer panic: %v", repository.ErrNavigationFailed, r))
		}
		metrics.PageFetchDuration.WithLabelValues(utils.Hostname(entry.URL)).Observe(time.Since(startTime).Seconds())
	}()

	page, err := f.renderer.Navigate(ctx, entry.URL)
	if err != nil {
		return f.failure(entry, err)
	}

	result, err = crawler.Process(entry, page, policy)
	if err != nil {
		return f.failure(entry, err)
	}

	metrics.PageFetchesTotal.WithLabelValues("success", "").Inc()
	metrics.JobsDiscoveredTotal.Add(float64(len(result.Jobs)))
	f.logger.Debug("Page processed",
		"organization", entry.Organization,
		"url", entry.URL,
		"jobs", len(result.Jobs),
		"frames", len(result.DiscoveredURLs),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	return result
}

func (f *pageBatchFetcher) failure(entry entity.FrontierEntry, err error) entity.CrawlResult {
	fetchErr := AsFetchError(entry.URL, err)
	metrics.PageFetchesTotal.WithLabelValues("failure", string(fetchErr.Kind)).Inc()
	f.logger.Warn("Page fetch failed",
		"organization", entry.Organization,
		"url", entry.URL,
		"error_type", fetchErr.Kind,
		"error", fetchErr.Cause,
	)
	return entity.FailedResult(entry, fetchErr)
}

// AsFetchError returns err as a *entity.FetchError, classifying plain errors by the
// repository sentinels they wrap.
func AsFetchError(url string, err error) *entity.FetchError {
	var fetchErr *entity.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	kind := entity.FailureNavigation
	switch {
	case errors.Is(err, repository.ErrNavigationTimeout), errors.Is(err, context.DeadlineExceeded):
		kind = entity.FailureTimeout
	case errors.Is(err, repository.ErrExtractionFailed):
		kind = entity.FailureExtraction
	}
	return &entity.FetchError{URL: url, Kind: kind, Cause: err}
}

package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/newscrawl"
	"golang.org/x/sync/errgroup"
)

// Default throttling delays.
const (
	DefaultPerDateDelay    = 500 * time.Millisecond
	DefaultPerArticleDelay = 100 * time.Millisecond
)

// Scheduler runs date targets through a fixed-size worker pool.
// Each worker processes one target at a time: fetch the index page,
// extract article references, then fetch and extract every article in
// the order the extractor returned them, pushing each record to the
// Aggregator as soon as it is built.
//
// A failure while processing one target is logged and never affects
// other targets.
type Scheduler struct {
	Client     *FetchClient
	Extractor  newscrawl.ArticleExtractor
	Aggregator *Aggregator

	Concurrency     int
	PerDateDelay    time.Duration // after every target
	PerArticleDelay time.Duration // after every article fetch

	Logger *slog.Logger
	Sleep  SleepFunc
}

// RunStats summarizes a scheduler run.
type RunStats struct {
	Targets         int // targets processed
	FailedTargets   int // targets whose index page could not be fetched or extracted
	Articles        int // records accepted by the aggregator
	PartialArticles int // accepted records missing article page fields
	Duplicates      int // records dropped by the aggregator
}

type runCounters struct {
	targets, failed, articles, partial, duplicates atomic.Int64
}

// Run processes targets until all are done or ctx is canceled.
// On cancellation no new targets are started; workers finish the request
// they are in, skip the rest of their current target, and return.
//
// Run returns an error only for invalid scheduler settings, before any
// work begins.
func (s *Scheduler) Run(ctx context.Context, targets []newscrawl.DateTarget) (*RunStats, error) {
	if s.Concurrency < 1 {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "concurrency must be >= 1, got %d", s.Concurrency)
	}
	if s.Client == nil || s.Extractor == nil || s.Aggregator == nil {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "scheduler requires a client, extractor and aggregator")
	}

	var counters runCounters

	var g errgroup.Group
	g.SetLimit(s.Concurrency)
	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		// Go blocks while all workers are busy.
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			s.processTarget(ctx, target, &counters)
			return nil
		})
	}
	_ = g.Wait()

	return &RunStats{
		Targets:         int(counters.targets.Load()),
		FailedTargets:   int(counters.failed.Load()),
		Articles:        int(counters.articles.Load()),
		PartialArticles: int(counters.partial.Load()),
		Duplicates:      int(counters.duplicates.Load()),
	}, nil
}

// processTarget crawls one date. It never panics.
func (s *Scheduler) processTarget(ctx context.Context, target newscrawl.DateTarget, counters *runCounters) {
	logger := s.logger()
	counters.targets.Add(1)

	defer func() {
		if r := recover(); r != nil {
			counters.failed.Add(1)
			logger.Error("date failed",
				"date", target.Date.String(),
				"url", target.URL,
				"kind", newscrawl.KindInternal,
				"err", fmt.Sprintf("panic: %v", r),
			)
		}
	}()
	defer s.pause(ctx, s.PerDateDelay)

	begin := time.Now()
	refs, err := s.fetchIndex(ctx, target)
	if err != nil && newscrawl.KindOf(err) == newscrawl.KindCanceled {
		logger.Debug("date skipped", "date", target.Date.String(), "url", target.URL)
		return
	}
	if err != nil {
		counters.failed.Add(1)
		logger.Warn("date failed",
			"date", target.Date.String(),
			"url", target.URL,
			"kind", newscrawl.KindOf(err),
			"err", err,
		)
		return
	}

	var added int
	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		ref.DiscoveredFrom = target.Date
		ref.SourceIndexURL = target.URL

		rec := s.processArticle(ctx, ref)
		if s.Aggregator.Add(ctx, rec) {
			added++
			counters.articles.Add(1)
			if rec.Partial {
				counters.partial.Add(1)
			}
		} else {
			counters.duplicates.Add(1)
		}

		s.pause(ctx, s.PerArticleDelay)
	}

	logger.Info("date crawled",
		"date", target.Date.String(),
		"url", target.URL,
		"links", len(refs),
		"articles", added,
		"duration", time.Since(begin),
	)
}

// fetchIndex fetches a date index page and extracts its article references.
func (s *Scheduler) fetchIndex(ctx context.Context, target newscrawl.DateTarget) ([]newscrawl.ArticleReference, error) {
	result := s.Client.Fetch(ctx, target.URL)
	if !result.OK() {
		return nil, result.Err
	}

	refs, err := s.Extractor.ExtractIndexLinks(result.Content, target.URL)
	if err != nil {
		return nil, &newscrawl.ExtractError{URL: target.URL, Err: err}
	}
	return refs, nil
}

// processArticle fetches and extracts one article. When the article page
// cannot be fetched or extracted, the reference's own fields are kept as
// a partial record.
func (s *Scheduler) processArticle(ctx context.Context, ref newscrawl.ArticleReference) *newscrawl.ArticleRecord {
	logger := s.logger()

	result := s.Client.Fetch(ctx, ref.URL)
	if !result.OK() {
		logger.Debug("article kept partial",
			"url", ref.URL,
			"kind", result.Err.Kind,
			"err", result.Err,
		)
		return newscrawl.NewPartialRecord(ref)
	}

	fields, err := s.extractFields(result.Content, ref.URL)
	if err != nil {
		logger.Debug("article kept partial",
			"url", ref.URL,
			"kind", newscrawl.KindExtraction,
			"err", err,
		)
		return newscrawl.NewPartialRecord(ref)
	}
	return newscrawl.MergeRecord(ref, fields)
}

// extractFields runs the field extractor, turning a panic into an error so
// one bad page costs only its own record.
func (s *Scheduler) extractFields(rawHTML, url string) (fields *newscrawl.ArticleFields, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields, err = nil, fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return s.Extractor.ExtractArticleFields(rawHTML, url)
}

func (s *Scheduler) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if s.Sleep != nil {
		_ = s.Sleep(ctx, d)
		return
	}
	_ = Sleep(ctx, d)
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

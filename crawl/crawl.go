package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fwojciec/newscrawl"
)

// Crawler wires the frontier, scheduler, aggregator and sink into a
// complete archive crawl.
type Crawler struct {
	Config    newscrawl.Config
	Fetcher   newscrawl.PageFetcher
	Extractor newscrawl.ArticleExtractor

	// Sink receives the full collection once the frontier is exhausted.
	Sink newscrawl.ResultSink
	// Writer, if set, receives every record as soon as it is produced.
	Writer newscrawl.ArticleWriter

	// Retryable overrides the uniform retry-everything policy.
	Retryable RetryPolicy

	Logger *slog.Logger
	Sleep  SleepFunc
	Now    func() time.Time
}

// Result holds the outcome of a crawl.
type Result struct {
	RunStats
	Records   []*newscrawl.ArticleRecord
	Locations []string
}

// Crawl crawls every day in the configured window ending today.
func (c *Crawler) Crawl(ctx context.Context) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	frontier := &DateFrontier{BaseURL: c.Config.BaseURL}
	targets, err := frontier.Generate(c.Config.WindowYears, c.now())
	if err != nil {
		return nil, err
	}
	return c.run(ctx, targets)
}

// CrawlDate crawls a single day's index page.
func (c *Crawler) CrawlDate(ctx context.Context, date civil.Date) (*Result, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if !date.IsValid() {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "invalid date %s", date)
	}

	return c.run(ctx, []newscrawl.DateTarget{{
		URL:  DateURL(c.Config.BaseURL, date),
		Date: date,
	}})
}

func (c *Crawler) run(ctx context.Context, targets []newscrawl.DateTarget) (*Result, error) {
	logger := c.logger()
	begin := time.Now()

	logger.Info("crawl started",
		"base_url", c.Config.BaseURL,
		"targets", len(targets),
		"concurrency", c.Config.Concurrency,
	)

	opts := []AggregatorOption{WithLogger(logger)}
	if c.Writer != nil {
		opts = append(opts, WithWriter(c.Writer))
	}
	agg := NewAggregator(c.Config.KeepDuplicates, opts...)

	sched := &Scheduler{
		Client:          c.client(),
		Extractor:       c.Extractor,
		Aggregator:      agg,
		Concurrency:     c.Config.Concurrency,
		PerDateDelay:    c.Config.PerDateDelay,
		PerArticleDelay: c.Config.PerArticleDelay,
		Logger:          logger,
		Sleep:           c.Sleep,
	}
	stats, err := sched.Run(ctx, targets)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunStats: *stats,
		Records:  agg.Snapshot(),
	}

	logger.Info("crawl finished",
		"targets", stats.Targets,
		"failed_targets", stats.FailedTargets,
		"articles", stats.Articles,
		"partial", stats.PartialArticles,
		"duplicates", stats.Duplicates,
		"duration", time.Since(begin),
		"canceled", ctx.Err() != nil,
	)

	if c.Sink == nil {
		return result, nil
	}
	// Whatever was collected is persisted, including after cancellation.
	locations, err := c.Sink.Write(context.WithoutCancel(ctx), result.Records)
	if err != nil {
		return result, fmt.Errorf("writing results: %w", err)
	}
	result.Locations = locations
	return result, nil
}

func (c *Crawler) validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Fetcher == nil {
		return newscrawl.Errorf(newscrawl.EINVALID, "fetcher required")
	}
	if c.Extractor == nil {
		return newscrawl.Errorf(newscrawl.EINVALID, "extractor required")
	}
	return nil
}

func (c *Crawler) client() *FetchClient {
	client := &FetchClient{
		Fetcher:     c.Fetcher,
		MaxRetries:  c.Config.MaxRetries,
		Timeout:     c.Config.FetchTimeout,
		BackoffUnit: c.Config.BackoffUnit,
		Retryable:   c.Retryable,
		Logger:      c.logger(),
		Sleep:       c.Sleep,
	}
	if c.Config.RequestsPerSecond > 0 {
		// One token per worker so the pool starts without queueing.
		client.Limiter = NewHostLimiter(c.Config.RequestsPerSecond, c.Config.Concurrency)
	}
	return client
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

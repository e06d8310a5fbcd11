package crawl

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newscrawl"
)

// Aggregator accumulates article records from concurrent workers.
//
// By default every record is kept, so an article listed on two date index
// pages yields two records. This mirrors the archive's observed behavior
// and is probably not what most callers want; pass keepDuplicates=false to
// keep only the first record per URL.
//
// Aggregator is safe for concurrent use.
type Aggregator struct {
	keepDuplicates bool
	writer         newscrawl.ArticleWriter
	logger         *slog.Logger

	mu         sync.Mutex
	records    []*newscrawl.ArticleRecord
	seen       map[uint64]struct{}
	duplicates int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithWriter streams every accepted record to w as it arrives.
func WithWriter(w newscrawl.ArticleWriter) AggregatorOption {
	return func(a *Aggregator) {
		a.writer = w
	}
}

// WithLogger sets the logger used to report streaming write failures.
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an empty Aggregator.
func NewAggregator(keepDuplicates bool, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		keepDuplicates: keepDuplicates,
		seen:           make(map[uint64]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a
}

// Add records rec. It returns false if rec was dropped as a duplicate.
// Records must not be modified after they are added.
func (a *Aggregator) Add(ctx context.Context, rec *newscrawl.ArticleRecord) bool {
	key := urlKey(rec.URL)

	a.mu.Lock()
	if !a.keepDuplicates {
		if _, ok := a.seen[key]; ok {
			a.duplicates++
			a.mu.Unlock()
			return false
		}
		a.seen[key] = struct{}{}
	}
	a.records = append(a.records, rec)
	a.mu.Unlock()

	if a.writer != nil {
		// Persist even when the crawl is being canceled; this is what lets
		// partial results survive an interrupted run.
		if err := a.writer.WriteArticle(context.WithoutCancel(ctx), rec); err != nil {
			a.logger.Warn("article write failed", "url", rec.URL, "err", err)
		}
	}
	return true
}

// Snapshot returns the accepted records in the order they were added.
// The returned slice is a copy; the records themselves are shared.
func (a *Aggregator) Snapshot() []*newscrawl.ArticleRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*newscrawl.ArticleRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of accepted records.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Duplicates returns the number of records dropped as duplicates.
func (a *Aggregator) Duplicates() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duplicates
}

// urlKey hashes a URL for duplicate detection.
// URLs differing only by fragment are the same article.
func urlKey(rawURL string) uint64 {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		rawURL = rawURL[:idx]
	}
	return xxhash.Sum64String(rawURL)
}

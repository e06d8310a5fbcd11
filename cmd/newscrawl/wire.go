package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/fs"
	"github.com/fwojciec/newscrawl/goquery"
	"github.com/fwojciec/newscrawl/htmltomarkdown"
	nchttp "github.com/fwojciec/newscrawl/http"
	"github.com/fwojciec/newscrawl/readability"
	"github.com/fwojciec/newscrawl/rod"
	ncslog "github.com/fwojciec/newscrawl/slog"
	"github.com/fwojciec/newscrawl/sqlite"
	"github.com/fwojciec/newscrawl/trafilatura"
)

// config builds the crawl configuration from the shared flags.
func (f *SourceFlags) config() newscrawl.Config {
	cfg := newscrawl.DefaultConfig()
	cfg.BaseURL = f.BaseURL
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	cfg.Headless = f.Headless
	cfg.FetchTimeout = f.Timeout
	cfg.MaxRetries = f.Retries
	cfg.RequestsPerSecond = f.RPS
	return cfg
}

func (f *RunFlags) apply(cfg *newscrawl.Config) {
	cfg.Concurrency = f.Concurrency
	cfg.PerDateDelay = f.DateDelay
	cfg.PerArticleDelay = f.ArticleDelay
	cfg.KeepDuplicates = !f.Dedup
}

// newFetcher returns the configured fetcher wrapped with logging. The
// returned cleanup closes fetchers created here; an injected fetcher is
// left open.
func newFetcher(deps *Dependencies, cfg newscrawl.Config, src *SourceFlags) (newscrawl.PageFetcher, func(), error) {
	if deps.Fetcher != nil {
		return ncslog.NewLoggingFetcher(deps.Fetcher, deps.Logger), func() {}, nil
	}

	var fetcher newscrawl.PageFetcher
	switch src.Fetcher {
	case "http":
		fetcher = nchttp.NewFetcher(
			nchttp.WithTimeout(cfg.FetchTimeout),
			nchttp.WithUserAgent(cfg.UserAgent),
		)
	default:
		rf, err := rod.NewFetcher(
			rod.WithFetchTimeout(cfg.FetchTimeout),
			rod.WithUserAgent(cfg.UserAgent),
			rod.WithHeadless(cfg.Headless),
			rod.WithBrowserRecycling(src.Recycle),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed. Use --fetcher=http to crawl without a browser.")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rf
	}

	cleanup := func() {
		if err := fetcher.Close(); err != nil {
			deps.Logger.Warn("fetcher close failed", "err", err)
		}
	}
	return ncslog.NewLoggingFetcher(fetcher, deps.Logger), cleanup, nil
}

// newExtractor returns the configured extractor wrapped with logging.
// Index pages are always parsed with selectors; article fields come from
// the selected engine.
func newExtractor(deps *Dependencies, f *SourceFlags) newscrawl.ArticleExtractor {
	var conv newscrawl.Converter
	if f.ContentFormat == "markdown" {
		conv = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(f.BaseURL))
	}

	selectors := goquery.NewExtractor(goquery.WithConverter(conv))

	var extractor newscrawl.ArticleExtractor = selectors
	switch f.Extractor {
	case "trafilatura":
		extractor = newscrawl.CombinedExtractor{
			IndexExtractor: selectors,
			FieldExtractor: trafilatura.NewExtractor(trafilatura.WithConverter(conv)),
		}
	case "readability":
		extractor = newscrawl.CombinedExtractor{
			IndexExtractor: selectors,
			FieldExtractor: readability.NewExtractor(readability.WithConverter(conv)),
		}
	}
	return ncslog.NewLoggingExtractor(extractor, deps.Logger)
}

// newSink returns the file sink for the run flags.
func newSink(deps *Dependencies, f *RunFlags) (newscrawl.ResultSink, error) {
	formats := make([]fs.Format, 0, len(f.Format))
	for _, name := range f.Format {
		format, err := fs.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}
	if len(formats) == 0 {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "at least one output format required")
	}

	sink := fs.NewSink(filepath.Clean(f.Output), f.Prefix, formats...)
	if deps.Now != nil {
		sink.Now = deps.Now
	}
	return ncslog.NewLoggingSink(sink, deps.Logger), nil
}

// openDB opens the article database when --db is set. The returned writer
// is nil otherwise.
func openDB(f *RunFlags) (*sqlite.DB, newscrawl.ArticleWriter, error) {
	if f.DB == "" {
		return nil, nil, nil
	}
	db := sqlite.NewDB(f.DB)
	if err := db.Open(); err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewArticleService(db), nil
}

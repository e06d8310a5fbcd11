package main

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.Years < 0 {
		return newscrawl.Errorf(newscrawl.EINVALID, "years must be >= 0, got %d", c.Years)
	}
	return runCrawl(deps, &c.SourceFlags, &c.RunFlags, c.Years, func(cr *crawl.Crawler) (*crawl.Result, error) {
		return cr.Crawl(deps.Ctx)
	})
}

// Run executes the date command.
func (c *DateCmd) Run(deps *Dependencies) error {
	date, err := civil.ParseDate(c.Date)
	if err != nil {
		return newscrawl.Errorf(newscrawl.EINVALID, "invalid date %q, expected YYYY-MM-DD", c.Date)
	}
	return runCrawl(deps, &c.SourceFlags, &c.RunFlags, 0, func(cr *crawl.Crawler) (*crawl.Result, error) {
		return cr.CrawlDate(deps.Ctx, date)
	})
}

func runCrawl(deps *Dependencies, src *SourceFlags, run *RunFlags, years int, do func(*crawl.Crawler) (*crawl.Result, error)) error {
	cfg := src.config()
	run.apply(&cfg)
	cfg.WindowYears = years
	if err := cfg.Validate(); err != nil {
		return err
	}

	sink, err := newSink(deps, run)
	if err != nil {
		return err
	}

	db, writer, err := openDB(run)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	fetcher, cleanup, err := newFetcher(deps, cfg, src)
	if err != nil {
		return err
	}
	defer cleanup()

	crawler := &crawl.Crawler{
		Config:    cfg,
		Fetcher:   fetcher,
		Extractor: newExtractor(deps, src),
		Sink:      sink,
		Writer:    writer,
		Logger:    deps.Logger,
		Sleep:     deps.Sleep,
		Now:       deps.Now,
	}

	result, err := do(crawler)
	if result != nil {
		printResult(deps.Stdout, result, run.DB)
	}
	if err != nil {
		return err
	}
	if deps.Ctx.Err() != nil {
		return fmt.Errorf("crawl interrupted: %w", deps.Ctx.Err())
	}
	return nil
}

func printResult(w io.Writer, r *crawl.Result, dbPath string) {
	fmt.Fprintf(w, "Crawled %d dates (%d failed)\n", r.Targets, r.FailedTargets)
	fmt.Fprintf(w, "Collected %d articles (%d partial, %d duplicates dropped)\n", r.Articles, r.PartialArticles, r.Duplicates)

	if len(r.Locations) == 0 && dbPath == "" {
		fmt.Fprintln(w, "No articles saved")
		return
	}
	if len(r.Locations) > 0 {
		fmt.Fprintln(w, "Saved to:")
		for _, loc := range r.Locations {
			fmt.Fprintf(w, "  %s\n", loc)
		}
	}
	if dbPath != "" {
		fmt.Fprintf(w, "Database: %s\n", dbPath)
	}
}

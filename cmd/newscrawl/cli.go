package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Fetcher newscrawl.PageFetcher
	Now     func() time.Time
	Sleep   crawl.SleepFunc
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" env:"NEWSCRAWL_VERBOSE" help:"Log every fetch and extraction"`
	LogJSON bool `name:"log-json" env:"NEWSCRAWL_LOG_JSON" help:"Write logs as JSON"`

	Crawl CrawlCmd `cmd:"" help:"Crawl every date in the archive window"`
	Date  DateCmd  `cmd:"" help:"Crawl a single date's index page"`
	Probe ProbeCmd `cmd:"" help:"Fetch one index page and show what would be extracted"`
}

// SourceFlags select how pages are fetched and parsed.
type SourceFlags struct {
	BaseURL       string        `name:"base-url" default:"https://newsday.co.tt" env:"NEWSCRAWL_BASE_URL" help:"Archive base URL"`
	UserAgent     string        `name:"user-agent" env:"NEWSCRAWL_USER_AGENT" help:"User-Agent header (default: desktop Chrome)"`
	Headless      bool          `default:"true" negatable:"" env:"NEWSCRAWL_HEADLESS" help:"Run Chrome without a window"`
	Fetcher       string        `enum:"rod,http" default:"rod" env:"NEWSCRAWL_FETCHER" help:"Page fetcher: rod (Chrome) or http"`
	Extractor     string        `enum:"selectors,trafilatura,readability" default:"selectors" env:"NEWSCRAWL_EXTRACTOR" help:"Article field extractor"`
	ContentFormat string        `name:"content-format" enum:"text,markdown" default:"text" env:"NEWSCRAWL_CONTENT_FORMAT" help:"Article content format"`
	Timeout       time.Duration `short:"t" default:"30s" env:"NEWSCRAWL_TIMEOUT" help:"Timeout per fetch attempt"`
	Retries       int           `default:"3" env:"NEWSCRAWL_RETRIES" help:"Fetch attempts per page"`
	RPS           float64       `name:"rps" default:"0" env:"NEWSCRAWL_RPS" help:"Requests per second cap (0 for none)"`
	Recycle       int64         `name:"browser-recycle" default:"75" env:"NEWSCRAWL_BROWSER_RECYCLE" help:"Pages per Chrome process before it is replaced"`
}

// RunFlags control scheduling and output of a crawl.
type RunFlags struct {
	Concurrency  int           `short:"c" default:"5" env:"NEWSCRAWL_CONCURRENCY" help:"Dates crawled in parallel"`
	DateDelay    time.Duration `name:"date-delay" default:"500ms" env:"NEWSCRAWL_DATE_DELAY" help:"Pause after each date"`
	ArticleDelay time.Duration `name:"article-delay" default:"100ms" env:"NEWSCRAWL_ARTICLE_DELAY" help:"Pause after each article"`
	Dedup        bool          `env:"NEWSCRAWL_DEDUP" help:"Drop articles already collected from another date"`
	Output       string        `short:"o" default:"." env:"NEWSCRAWL_OUTPUT" help:"Directory for result files"`
	Prefix       string        `default:"newsday_articles" env:"NEWSCRAWL_PREFIX" help:"Result file name prefix"`
	Format       []string      `default:"json,csv,xml" env:"NEWSCRAWL_FORMAT" help:"Result file formats (json, csv, xml)"`
	DB           string        `name:"db" env:"NEWSCRAWL_DB" help:"SQLite database receiving articles as they are crawled"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	SourceFlags `embed:""`
	RunFlags    `embed:""`

	Years int `short:"y" default:"15" env:"NEWSCRAWL_YEARS" help:"Years of archive to crawl, ending today"`
}

// DateCmd is the "date" subcommand.
type DateCmd struct {
	SourceFlags `embed:""`
	RunFlags    `embed:""`

	Date string `arg:"" help:"Date to crawl (YYYY-MM-DD)"`
}

// ProbeCmd is the "probe" subcommand.
type ProbeCmd struct {
	SourceFlags `embed:""`

	URL string `arg:"" help:"Index page URL"`
}

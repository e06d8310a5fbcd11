package newscrawl

import (
	"net/url"
	"time"
)

// DefaultBaseURL is the archive crawled when no base URL is configured.
const DefaultBaseURL = "https://newsday.co.tt"

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config holds crawl settings. It is read-only once a crawl starts.
type Config struct {
	WindowYears     int           // years of history to crawl, counted back from now
	Concurrency     int           // number of date workers, >= 1
	PerArticleDelay time.Duration // pause after every article fetch
	PerDateDelay    time.Duration // pause after every date target
	MaxRetries      int           // fetch attempts per URL, >= 1
	FetchTimeout    time.Duration // per-attempt timeout

	BaseURL           string
	UserAgent         string
	Headless          bool
	KeepDuplicates    bool          // keep one record per discovery instead of per URL
	BackoffUnit       time.Duration // retry i sleeps 2^i units
	RequestsPerSecond float64       // global per-host cap, 0 disables
}

// DefaultConfig returns the default crawl configuration.
// Duplicates are kept by default: an article listed on two index pages
// produces two records.
func DefaultConfig() Config {
	return Config{
		WindowYears:     15,
		Concurrency:     5,
		PerArticleDelay: 100 * time.Millisecond,
		PerDateDelay:    500 * time.Millisecond,
		MaxRetries:      3,
		FetchTimeout:    30 * time.Second,

		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		Headless:       true,
		KeepDuplicates: true,
		BackoffUnit:    time.Second,
	}
}

// Validate returns an EINVALID error describing the first invalid setting.
func (c *Config) Validate() error {
	if c.WindowYears < 0 {
		return Errorf(EINVALID, "window years must be >= 0, got %d", c.WindowYears)
	}
	if c.Concurrency < 1 {
		return Errorf(EINVALID, "concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.MaxRetries < 1 {
		return Errorf(EINVALID, "max retries must be >= 1, got %d", c.MaxRetries)
	}
	if c.PerArticleDelay < 0 || c.PerDateDelay < 0 || c.BackoffUnit < 0 {
		return Errorf(EINVALID, "delays must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return Errorf(EINVALID, "fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	if c.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "requests per second must not be negative")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Errorf(EINVALID, "base URL must be absolute, got %q", c.BaseURL)
	}
	return nil
}

// Package rod implements newscrawl.PageFetcher with a Chrome browser driven
// by go-rod, for archive pages that need JavaScript to render.
package rod

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fwojciec/newscrawl"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a page load when the caller sets no deadline.
const DefaultFetchTimeout = 30 * time.Second

var _ newscrawl.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

type fetcherConfig struct {
	timeout time.Duration
	browser BrowserConfig
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

// WithFetchTimeout sets the per-page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *fetcherConfig) {
		c.browser.UserAgent = ua
	}
}

// WithHeadless controls whether Chrome runs without a window.
func WithHeadless(headless bool) Option {
	return func(c *fetcherConfig) {
		c.browser.Headless = headless
	}
}

// WithBrowserRecycling replaces the browser after n pages.
func WithBrowserRecycling(n int64) Option {
	return func(c *fetcherConfig) {
		c.browser.MaxPages = n
	}
}

// NewFetcher launches Chrome and returns a Fetcher using it. Chrome runs
// headless with the default desktop User-Agent unless configured otherwise.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{
		timeout: DefaultFetchTimeout,
		browser: BrowserConfig{
			Headless:  true,
			UserAgent: newscrawl.DefaultUserAgent,
			MaxPages:  DefaultMaxPages,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(cfg.browser)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		manager: manager,
		timeout: cfg.timeout,
	}, nil
}

// Fetch navigates to url and returns the rendered HTML together with the
// status code of the main document response.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*newscrawl.Response, error) {
	if f.closed.Load() {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page()
	if err != nil {
		return nil, err
	}
	defer release()

	page = page.Context(ctx)

	var status int
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	waitDocument()

	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	// Documents served from cache emit no response event.
	if status == 0 {
		status = http.StatusOK
	}

	return &newscrawl.Response{Content: html, StatusCode: status}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// BrowserGenerations reports how many browsers the Fetcher has launched.
func (f *Fetcher) BrowserGenerations() int {
	return f.manager.Generations()
}

package newscrawl

import "context"

// Response is the raw result of loading a page.
type Response struct {
	Content    string
	StatusCode int
}

// PageFetcher retrieves raw page content.
// Implementations may use plain HTTP or browser automation.
type PageFetcher interface {
	// Fetch loads the URL and returns its content and HTTP status.
	// Non-200 statuses are returned as a Response, not an error;
	// errors are reserved for transport failures.
	// The context carries the per-attempt timeout.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases fetcher resources.
	Close() error
}

// FetchResult is the outcome of a fetch after retries.
// Exactly one of Content/StatusCode or Err is meaningful: the fetch
// succeeded when Err is nil.
type FetchResult struct {
	Content    string
	StatusCode int
	Attempts   int
	Err        *FetchError
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool { return r.Err == nil }

// RequestLimiter throttles outgoing requests per host.
type RequestLimiter interface {
	// Wait blocks until a request to host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}

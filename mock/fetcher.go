package mock

import (
	"context"

	"github.com/fwojciec/newscrawl"
)

var _ newscrawl.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of newscrawl.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string) (*newscrawl.Response, error)
	CloseFn func() error
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (*newscrawl.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *PageFetcher) Close() error {
	return f.CloseFn()
}

var _ newscrawl.RequestLimiter = (*RequestLimiter)(nil)

// RequestLimiter is a mock implementation of newscrawl.RequestLimiter.
type RequestLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *RequestLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}

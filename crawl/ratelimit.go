package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/newscrawl"
	"golang.org/x/time/rate"
)

var _ newscrawl.RequestLimiter = (*HostLimiter)(nil)

// HostLimiter caps the request rate per host across all workers using
// token buckets. It complements the fixed per-worker delays: those space
// out one worker's requests, HostLimiter bounds the combined rate.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second
// per host with the given burst. A burst below 1 is treated as 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    max(burst, 1),
	}
}

// Wait blocks until a request to host is allowed.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}

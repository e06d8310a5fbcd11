package crawl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/newscrawl"
)

// DefaultBackoffUnit is the base backoff delay: retries wait 1s, 2s, 4s...
const DefaultBackoffUnit = time.Second

// SleepFunc pauses for d or until ctx is canceled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy decides whether a failed fetch should be attempted again.
type RetryPolicy func(result newscrawl.FetchResult) bool

// RetryTransient retries transport failures, 429 and 5xx responses and
// gives up immediately on other statuses such as 404.
func RetryTransient(result newscrawl.FetchResult) bool {
	if result.Err == nil {
		return false
	}
	switch result.Err.Kind {
	case newscrawl.KindTransport:
		return true
	case newscrawl.KindHTTPStatus:
		return result.StatusCode == http.StatusTooManyRequests || result.StatusCode >= 500
	default:
		return false
	}
}

// FetchClient wraps a PageFetcher with per-attempt timeouts and
// exponential-backoff retry. Fetch never returns an error: every outcome
// is a typed FetchResult.
//
// FetchClient is safe for concurrent use if Fetcher and Limiter are.
type FetchClient struct {
	Fetcher     newscrawl.PageFetcher
	MaxRetries  int           // total attempts; values below 1 mean 1
	Timeout     time.Duration // per attempt; 0 disables
	BackoffUnit time.Duration // 0 means DefaultBackoffUnit

	// Retryable classifies failures. Nil retries every failure, including
	// permanent ones such as 404.
	Retryable RetryPolicy

	Limiter newscrawl.RequestLimiter
	Logger  *slog.Logger
	Sleep   SleepFunc
}

// Fetch loads url, retrying failed attempts after 2^i backoff units.
//
// Once an attempt has started it runs to completion (bounded by Timeout)
// even if ctx is canceled; cancellation is observed before the next
// attempt and during backoff, and is reported as KindCanceled.
func (c *FetchClient) Fetch(ctx context.Context, rawURL string) newscrawl.FetchResult {
	maxAttempts := max(c.MaxRetries, 1)
	logger := c.logger()

	var result newscrawl.FetchResult
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result = c.attempt(ctx, rawURL)
		result.Attempts = attempt + 1
		if result.OK() || result.Err.Kind == newscrawl.KindCanceled {
			return result
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}
		if c.Retryable != nil && !c.Retryable(result) {
			break
		}

		delay := c.backoff(attempt)
		logger.Debug("fetch retry",
			"url", rawURL,
			"attempt", attempt+1,
			"delay", delay,
			"err", result.Err,
		)
		if err := c.sleep(ctx, delay); err != nil {
			result.Err = &newscrawl.FetchError{Kind: newscrawl.KindCanceled, URL: rawURL, Err: err}
			return result
		}
	}

	logger.Warn("fetch failed",
		"url", rawURL,
		"attempts", result.Attempts,
		"kind", result.Err.Kind,
		"err", result.Err,
	)
	return result
}

// attempt performs a single fetch.
func (c *FetchClient) attempt(ctx context.Context, rawURL string) newscrawl.FetchResult {
	if err := ctx.Err(); err != nil {
		return failure(newscrawl.KindCanceled, rawURL, err)
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, hostOf(rawURL)); err != nil {
			return failure(newscrawl.KindCanceled, rawURL, err)
		}
	}

	// The attempt is detached from ctx cancellation so an in-flight request
	// is never torn down mid-response; the timeout still bounds it.
	var (
		actx   context.Context
		cancel context.CancelFunc
	)
	if c.Timeout > 0 {
		actx, cancel = context.WithTimeout(context.WithoutCancel(ctx), c.Timeout)
	} else {
		actx, cancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	defer cancel()

	type outcome struct {
		resp *newscrawl.Response
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("fetcher panic: %v", r)}
			}
		}()
		resp, err := c.Fetcher.Fetch(actx, rawURL)
		done <- outcome{resp: resp, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-actx.Done():
		// Fetchers that ignore the context still time out here.
		return failure(newscrawl.KindTransport, rawURL, fmt.Errorf("timeout after %s: %w", c.Timeout, actx.Err()))
	}

	if out.err != nil {
		return failure(newscrawl.KindTransport, rawURL, out.err)
	}
	if out.resp == nil {
		return failure(newscrawl.KindTransport, rawURL, errors.New("empty response"))
	}
	if out.resp.StatusCode != http.StatusOK {
		return newscrawl.FetchResult{
			StatusCode: out.resp.StatusCode,
			Err: &newscrawl.FetchError{
				Kind:       newscrawl.KindHTTPStatus,
				URL:        rawURL,
				StatusCode: out.resp.StatusCode,
			},
		}
	}
	return newscrawl.FetchResult{
		Content:    out.resp.Content,
		StatusCode: out.resp.StatusCode,
	}
}

// backoff returns 2^attempt backoff units.
func (c *FetchClient) backoff(attempt int) time.Duration {
	unit := c.BackoffUnit
	if unit == 0 {
		unit = DefaultBackoffUnit
	}
	return unit * time.Duration(1<<attempt)
}

func (c *FetchClient) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

func (c *FetchClient) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func failure(kind newscrawl.ErrorKind, rawURL string, err error) newscrawl.FetchResult {
	return newscrawl.FetchResult{
		Err: &newscrawl.FetchError{Kind: kind, URL: rawURL, Err: err},
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

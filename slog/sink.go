package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newscrawl"
)

var _ newscrawl.ResultSink = (*LoggingSink)(nil)

// LoggingSink wraps a ResultSink and logs each write.
type LoggingSink struct {
	next   newscrawl.ResultSink
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next newscrawl.ResultSink, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, logger: logger}
}

// Write delegates to the wrapped sink and logs the outcome.
func (s *LoggingSink) Write(ctx context.Context, records []*newscrawl.ArticleRecord) (locations []string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			s.logger.Error("results write failed",
				"records", len(records),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		if len(records) == 0 {
			s.logger.Warn("no results to write")
			return
		}
		s.logger.Info("results written",
			"records", len(records),
			"locations", locations,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Write(ctx, records)
}

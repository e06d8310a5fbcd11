package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/newscrawl"
)

var _ newscrawl.ArticleExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an ArticleExtractor with debug logging.
type LoggingExtractor struct {
	next   newscrawl.ArticleExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next newscrawl.ArticleExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractIndexLinks logs how many article links were found.
func (e *LoggingExtractor) ExtractIndexLinks(rawHTML string, pageURL string) (refs []newscrawl.ArticleReference, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("index extraction",
			"url", pageURL,
			"links", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractIndexLinks(rawHTML, pageURL)
}

// ExtractArticleFields logs which fields were found.
func (e *LoggingExtractor) ExtractArticleFields(rawHTML string, url string) (fields *newscrawl.ArticleFields, err error) {
	defer func(begin time.Time) {
		var found []string
		if fields != nil {
			found = presentFields(fields)
		}
		e.logger.Debug("article extraction",
			"url", url,
			"fields", found,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractArticleFields(rawHTML, url)
}

func presentFields(f *newscrawl.ArticleFields) []string {
	var names []string
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"title", f.Title},
		{"content", f.Content},
		{"author", f.Author},
		{"date", f.PublishedDate},
		{"category", f.Category},
	} {
		if field.value != nil {
			names = append(names, field.name)
		}
	}
	return names
}

package mock

import (
	"context"

	"github.com/fwojciec/newscrawl"
)

var _ newscrawl.ResultSink = (*ResultSink)(nil)

// ResultSink is a mock implementation of newscrawl.ResultSink.
type ResultSink struct {
	WriteFn func(ctx context.Context, records []*newscrawl.ArticleRecord) ([]string, error)
}

func (s *ResultSink) Write(ctx context.Context, records []*newscrawl.ArticleRecord) ([]string, error) {
	return s.WriteFn(ctx, records)
}

var _ newscrawl.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of newscrawl.ArticleWriter.
type ArticleWriter struct {
	WriteArticleFn func(ctx context.Context, record *newscrawl.ArticleRecord) error
}

func (w *ArticleWriter) WriteArticle(ctx context.Context, record *newscrawl.ArticleRecord) error {
	return w.WriteArticleFn(ctx, record)
}

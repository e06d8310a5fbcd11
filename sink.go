package newscrawl

import "context"

// ResultSink persists the final collection of records.
type ResultSink interface {
	// Write persists records and returns where they were written
	// (file paths, database paths). Empty input may return no locations.
	Write(ctx context.Context, records []*ArticleRecord) (locations []string, err error)
}

// ArticleWriter persists records one at a time as they are produced.
// It lets partial results survive an interrupted crawl.
type ArticleWriter interface {
	WriteArticle(ctx context.Context, record *ArticleRecord) error
}

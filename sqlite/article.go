package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/newscrawl"
	"github.com/google/uuid"
)

var (
	_ newscrawl.ArticleWriter = (*ArticleService)(nil)
	_ newscrawl.ResultSink    = (*ArticleService)(nil)
)

const insertArticle = `
	INSERT INTO articles (id, url, title, preview_text, content, author, published_date, category,
		content_hash, crawl_date, source_index_url, partial, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// execer is satisfied by both *DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ArticleService stores article records. Records are appended as produced;
// the same URL may appear more than once.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// WriteArticle stores a single record.
func (s *ArticleService) WriteArticle(ctx context.Context, record *newscrawl.ArticleRecord) error {
	return insert(ctx, s.db, record)
}

// Write stores records in one transaction and returns the database path.
// Either every record is stored or none is.
func (s *ArticleService) Write(ctx context.Context, records []*newscrawl.ArticleRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, record := range records {
		if err := insert(ctx, tx, record); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return []string{s.db.Path()}, nil
}

func insert(ctx context.Context, db execer, r *newscrawl.ArticleRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	var hash string
	if r.Content != nil {
		hash = hashContent(*r.Content)
	}

	_, err := db.ExecContext(ctx, insertArticle,
		uuid.New().String(), r.URL, r.Title, r.PreviewText,
		nullString(r.Content), nullString(r.Author), nullString(r.PublishedDate), nullString(r.Category),
		hash, r.CrawlDate.String(), r.SourceIndexURL, r.Partial, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// FindArticles retrieves articles matching the filter, ordered by crawl
// date and then insertion order.
func (s *ArticleService) FindArticles(ctx context.Context, filter newscrawl.ArticleFilter) ([]*newscrawl.ArticleRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT url, title, preview_text, content, author, published_date, category,
		crawl_date, source_index_url, partial FROM articles`)
	appendWhere(&query, &args, filter)
	query.WriteString(" ORDER BY crawl_date ASC, rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*newscrawl.ArticleRecord
	for rows.Next() {
		var (
			r                                    newscrawl.ArticleRecord
			content, author, published, category sql.NullString
			crawlDate                            string
		)
		if err := rows.Scan(&r.URL, &r.Title, &r.PreviewText, &content, &author, &published, &category,
			&crawlDate, &r.SourceIndexURL, &r.Partial); err != nil {
			return nil, err
		}

		r.Content = stringPtr(content)
		r.Author = stringPtr(author)
		r.PublishedDate = stringPtr(published)
		r.Category = stringPtr(category)
		if r.CrawlDate, err = parseDate(crawlDate, "crawl_date"); err != nil {
			return nil, err
		}

		records = append(records, &r)
	}

	return records, rows.Err()
}

// CountArticles returns the number of articles matching the filter.
// Pagination fields are ignored.
func (s *ArticleService) CountArticles(ctx context.Context, filter newscrawl.ArticleFilter) (int, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT COUNT(*) FROM articles")
	appendWhere(&query, &args, filter)

	var n int
	if err := s.db.QueryRowContext(ctx, query.String(), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func appendWhere(query *strings.Builder, args *[]any, filter newscrawl.ArticleFilter) {
	query.WriteString(" WHERE 1=1")
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		*args = append(*args, *filter.URL)
	}
	if filter.CrawlDate != nil {
		query.WriteString(" AND crawl_date = ?")
		*args = append(*args, filter.CrawlDate.String())
	}
}

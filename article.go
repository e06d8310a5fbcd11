package newscrawl

import (
	"cloud.google.com/go/civil"
)

// DateTarget is a single day's archive index page.
type DateTarget struct {
	URL  string     `json:"url"`
	Date civil.Date `json:"date"`
}

// ArticleReference is an article link discovered on an index page.
type ArticleReference struct {
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	PreviewText    string     `json:"previewText,omitempty"`
	DiscoveredFrom civil.Date `json:"discoveredFrom"`
	SourceIndexURL string     `json:"sourceIndexUrl"`
}

// ArticleFields holds the fields extracted from an article page.
// A nil field means the extractor found no match.
type ArticleFields struct {
	Title         *string
	Content       *string
	Author        *string
	PublishedDate *string // raw, as it appears on the page
	Category      *string
}

// ArticleRecord is a crawled article.
// Optional fields are nil when extraction found no match; callers must
// not assume presence.
type ArticleRecord struct {
	URL            string     `json:"url"`
	Title          string     `json:"title"`
	PreviewText    string     `json:"previewText,omitempty"`
	Content        *string    `json:"content,omitempty"`
	Author         *string    `json:"author,omitempty"`
	PublishedDate  *string    `json:"publishedDate,omitempty"`
	Category       *string    `json:"category,omitempty"`
	CrawlDate      civil.Date `json:"crawlDate"`
	SourceIndexURL string     `json:"sourceIndexUrl"`

	// Partial is true when the article page could not be fetched or
	// extracted and the record only carries the reference's fields.
	Partial bool `json:"partial,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ArticleRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if r.SourceIndexURL == "" {
		return Errorf(EINVALID, "article source index URL required")
	}
	return nil
}

// NewPartialRecord builds a record from the reference alone.
func NewPartialRecord(ref ArticleReference) *ArticleRecord {
	return &ArticleRecord{
		URL:            ref.URL,
		Title:          ref.Title,
		PreviewText:    ref.PreviewText,
		CrawlDate:      ref.DiscoveredFrom,
		SourceIndexURL: ref.SourceIndexURL,
		Partial:        true,
	}
}

// MergeRecord builds a record from a reference and the fields extracted
// from its article page. Extracted fields take precedence over the
// reference's; a missing extracted title keeps the reference title.
func MergeRecord(ref ArticleReference, fields *ArticleFields) *ArticleRecord {
	rec := NewPartialRecord(ref)
	if fields == nil {
		return rec
	}
	rec.Partial = false
	if fields.Title != nil && *fields.Title != "" {
		rec.Title = *fields.Title
	}
	rec.Content = fields.Content
	rec.Author = fields.Author
	rec.PublishedDate = fields.PublishedDate
	rec.Category = fields.Category
	return rec
}

// ArticleFilter represents a filter for finding stored articles.
type ArticleFilter struct {
	URL       *string
	CrawlDate *civil.Date

	Offset int
	Limit  int
}

// String returns a pointer to s, or nil when s is empty.
// Extractors use it to report absent fields.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package goquery implements newscrawl.ArticleExtractor with CSS selector
// heuristics tuned for newspaper archive pages.
package goquery

import (
	"github.com/fwojciec/newscrawl"
)

// DefaultMinTitleLength is the anchor text length a link must exceed to
// be treated as an article headline.
const DefaultMinTitleLength = 10

var _ newscrawl.ArticleExtractor = (*Extractor)(nil)

// Extractor finds article links on date index pages and pulls title,
// content, author, date and category from article pages. It holds no
// per-call state and is safe for concurrent use.
type Extractor struct {
	converter      newscrawl.Converter
	minTitleLength int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter renders article content through c (typically to Markdown)
// instead of flattening it to plain text.
func WithConverter(c newscrawl.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// WithMinTitleLength sets the anchor text length a link must exceed.
func WithMinTitleLength(n int) Option {
	return func(e *Extractor) {
		e.minTitleLength = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{minTitleLength: DefaultMinTitleLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

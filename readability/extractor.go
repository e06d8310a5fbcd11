// Package readability implements newscrawl.FieldExtractor with
// go-readability's article detection.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/newscrawl"
	"github.com/go-shiori/go-readability"
)

var _ newscrawl.FieldExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract article fields from HTML.
type Extractor struct {
	converter newscrawl.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter renders the article HTML through c instead of returning
// readability's plain text.
func WithConverter(c newscrawl.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractArticleFields returns the title, byline, publication time and
// article body readability finds in rawHTML. Readability has no notion of
// category, so Category is always nil.
func (e *Extractor) ExtractArticleFields(rawHTML string, pageURL string) (*newscrawl.ArticleFields, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "empty HTML input")
	}

	u, err := url.Parse(pageURL)
	if err != nil || !u.IsAbs() {
		u = nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, err
	}

	fields := &newscrawl.ArticleFields{
		Title:  newscrawl.String(strings.TrimSpace(article.Title)),
		Author: newscrawl.String(strings.TrimSpace(article.Byline)),
	}
	if article.PublishedTime != nil {
		fields.PublishedDate = newscrawl.String(article.PublishedTime.Format("2006-01-02"))
	}

	content := strings.TrimSpace(article.TextContent)
	if e.converter != nil && article.Content != "" {
		if content, err = e.converter.Convert(article.Content); err != nil {
			return nil, err
		}
	}
	fields.Content = newscrawl.String(content)

	return fields, nil
}

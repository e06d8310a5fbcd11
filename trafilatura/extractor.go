// Package trafilatura implements newscrawl.FieldExtractor with
// go-trafilatura's boilerplate removal and metadata detection.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/newscrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ newscrawl.FieldExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract article fields from HTML.
type Extractor struct {
	converter newscrawl.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter renders the main content node through c instead of
// returning trafilatura's plain text.
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

// ExtractArticleFields returns the title, author, publication date,
// categories and main content trafilatura finds in rawHTML.
func (e *Extractor) ExtractArticleFields(rawHTML string, pageURL string) (*newscrawl.ArticleFields, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	fields := &newscrawl.ArticleFields{
		Title:    newscrawl.String(strings.TrimSpace(result.Metadata.Title)),
		Author:   newscrawl.String(strings.TrimSpace(result.Metadata.Author)),
		Category: newscrawl.String(strings.Join(result.Metadata.Categories, ", ")),
	}
	if !result.Metadata.Date.IsZero() {
		fields.PublishedDate = newscrawl.String(result.Metadata.Date.Format("2006-01-02"))
	}

	content := strings.TrimSpace(result.ContentText)
	if e.converter != nil && result.ContentNode != nil {
		contentHTML, err := renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
		if content, err = e.converter.Convert(contentHTML); err != nil {
			return nil, err
		}
	}
	fields.Content = newscrawl.String(content)

	return fields, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newscrawl"
	"golang.org/x/net/html"
)

// Selector cascades, tried in order; the first match with text wins.
var (
	titleSelectors = []string{
		"h1", ".headline", ".title", `[class*="title"]`, `[class*="headline"]`,
	}
	contentSelectors = []string{
		".article-content", ".entry-content", ".post-content",
		`[class*="content"]`, ".story-body", "article",
	}
	authorSelectors = []string{
		".author", ".byline", `[class*="author"]`, `[class*="byline"]`,
	}
	dateSelectors = []string{
		".date", ".published", `[class*="date"]`, "time",
	}
	categorySelectors = []string{
		".category", ".section", `[class*="category"]`,
	}
)

// ExtractArticleFields pulls the article fields out of rawHTML. Fields
// with no matching element are left nil.
func (e *Extractor) ExtractArticleFields(rawHTML string, url string) (*newscrawl.ArticleFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	fields := &newscrawl.ArticleFields{
		Title:    newscrawl.String(firstText(doc, titleSelectors)),
		Author:   newscrawl.String(firstText(doc, authorSelectors)),
		Category: newscrawl.String(firstText(doc, categorySelectors)),
	}

	published := firstMatch(doc, dateSelectors, func(s *goquery.Selection) string {
		if dt, ok := s.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return dt
		}
		return s.Text()
	})
	fields.PublishedDate = newscrawl.String(published)

	content, err := e.content(doc)
	if err != nil {
		return nil, fmt.Errorf("content of %s: %w", url, err)
	}
	fields.Content = newscrawl.String(content)

	return fields, nil
}

// content returns the article body: plain text with one line per text
// block, or the converter's rendering of the body HTML.
func (e *Extractor) content(doc *goquery.Document) (string, error) {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		sel.Find("script, style, noscript").Remove()

		text := nodeText(sel.Nodes[0])
		if text == "" {
			continue
		}
		if e.converter == nil {
			return text, nil
		}

		body, err := goquery.OuterHtml(sel)
		if err != nil {
			return "", err
		}
		return e.converter.Convert(body)
	}
	return "", nil
}

func firstText(doc *goquery.Document, selectors []string) string {
	return firstMatch(doc, selectors, func(s *goquery.Selection) string { return s.Text() })
}

// firstMatch returns the collapsed value of the first selector whose first
// match yields non-blank text.
func firstMatch(doc *goquery.Document, selectors []string, value func(*goquery.Selection) string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		if v := collapseSpace(value(sel)); v != "" {
			return v
		}
	}
	return ""
}

// nodeText joins the trimmed text nodes under n with newlines.
func nodeText(n *html.Node) string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				lines = append(lines, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(lines, "\n")
}

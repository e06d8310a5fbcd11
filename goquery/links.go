package goquery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newscrawl"
)

// articlePaths match URL paths that lead to articles rather than
// navigation, tag or author pages.
var articlePaths = []*regexp.Regexp{
	regexp.MustCompile(`/\d{4}/\d{2}/\d{2}/.+`),
	regexp.MustCompile(`/news/`),
	regexp.MustCompile(`/sports/`),
	regexp.MustCompile(`/features/`),
	regexp.MustCompile(`/editorial/`),
	regexp.MustCompile(`/entertainment/`),
}

// ExtractIndexLinks returns the article links on a date index page in
// document order. A link qualifies when it stays on the page's host, its
// path looks like an article and its anchor text is longer than the
// minimum title length. Each URL is returned once.
func (e *Extractor) ExtractIndexLinks(rawHTML string, pageURL string) ([]newscrawl.ArticleReference, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "invalid page URL %q", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, newscrawl.Errorf(newscrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var refs []newscrawl.ArticleReference

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil || resolved.Host != base.Host || !isArticlePath(resolved.Path) {
			return
		}

		title := collapseSpace(sel.Text())
		if utf8.RuneCountInString(title) <= e.minTitleLength {
			return
		}

		u := resolved.String()
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}

		refs = append(refs, newscrawl.ArticleReference{
			URL:         u,
			Title:       title,
			PreviewText: title,
		})
	})

	return refs, nil
}

func isArticlePath(path string) bool {
	for _, re := range articlePaths {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// resolveURL resolves href against base with the fragment stripped.
// Returns nil if href cannot be parsed or points back at base itself.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if resolved.String() == baseNoFragment.String() {
		return nil
	}
	return resolved
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

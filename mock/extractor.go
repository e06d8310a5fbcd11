package mock

import "github.com/fwojciec/newscrawl"

var _ newscrawl.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of newscrawl.ArticleExtractor.
type ArticleExtractor struct {
	ExtractIndexLinksFn    func(html string, pageURL string) ([]newscrawl.ArticleReference, error)
	ExtractArticleFieldsFn func(html string, url string) (*newscrawl.ArticleFields, error)
}

func (e *ArticleExtractor) ExtractIndexLinks(html string, pageURL string) ([]newscrawl.ArticleReference, error) {
	return e.ExtractIndexLinksFn(html, pageURL)
}

func (e *ArticleExtractor) ExtractArticleFields(html string, url string) (*newscrawl.ArticleFields, error) {
	return e.ExtractArticleFieldsFn(html, url)
}

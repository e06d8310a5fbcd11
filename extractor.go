package newscrawl

// IndexExtractor finds article links on a date index page.
type IndexExtractor interface {
	// ExtractIndexLinks returns the article references found in rawHTML.
	// pageURL is used to resolve relative links. The returned references
	// carry URL, Title and PreviewText; the caller fills in the date and
	// source index URL.
	ExtractIndexLinks(rawHTML string, pageURL string) ([]ArticleReference, error)
}

// FieldExtractor extracts structured fields from an article page.
type FieldExtractor interface {
	// ExtractArticleFields returns the fields found in rawHTML.
	// Fields with no match are nil.
	ExtractArticleFields(rawHTML string, url string) (*ArticleFields, error)
}

// ArticleExtractor extracts both index links and article fields.
// Implementations must be pure transformations of their input.
type ArticleExtractor interface {
	IndexExtractor
	FieldExtractor
}

// CombinedExtractor pairs an IndexExtractor with a separately implemented
// FieldExtractor.
type CombinedExtractor struct {
	IndexExtractor
	FieldExtractor
}

var _ ArticleExtractor = CombinedExtractor{}

package newscrawl

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an article's content HTML into Markdown.
	Convert(html string) (string, error)
}

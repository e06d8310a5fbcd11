package main

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fwojciec/newscrawl/crawl"
)

const previewLength = 200

// Run executes the probe command: fetch one index page, list its article
// links, then fetch the first article and show its fields.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	cfg := c.config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	fetcher, cleanup, err := newFetcher(deps, cfg, &c.SourceFlags)
	if err != nil {
		return err
	}
	defer cleanup()

	client := &crawl.FetchClient{
		Fetcher:     fetcher,
		MaxRetries:  cfg.MaxRetries,
		Timeout:     cfg.FetchTimeout,
		BackoffUnit: cfg.BackoffUnit,
		Logger:      deps.Logger,
		Sleep:       deps.Sleep,
	}
	extractor := newExtractor(deps, &c.SourceFlags)

	index := client.Fetch(deps.Ctx, c.URL)
	if !index.OK() {
		return fmt.Errorf("failed to fetch index: %w", index.Err)
	}

	refs, err := extractor.ExtractIndexLinks(index.Content, c.URL)
	if err != nil {
		return fmt.Errorf("failed to extract links: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Found %d article links\n", len(refs))
	for i, ref := range refs {
		fmt.Fprintf(deps.Stdout, "%3d. %s\n     %s\n", i+1, ref.Title, ref.URL)
	}
	if len(refs) == 0 {
		return nil
	}

	first := refs[0]
	article := client.Fetch(deps.Ctx, first.URL)
	if !article.OK() {
		return fmt.Errorf("failed to fetch article: %w", article.Err)
	}
	fields, err := extractor.ExtractArticleFields(article.Content, first.URL)
	if err != nil {
		return fmt.Errorf("failed to extract article: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "\nFirst article: %s\n", first.URL)
	printField(deps.Stdout, "Title", fields.Title)
	printField(deps.Stdout, "Author", fields.Author)
	printField(deps.Stdout, "Published", fields.PublishedDate)
	printField(deps.Stdout, "Category", fields.Category)
	printField(deps.Stdout, "Content", fields.Content)
	return nil
}

func printField(w io.Writer, name string, value *string) {
	if value == nil {
		fmt.Fprintf(w, "  %s: (none)\n", name)
		return
	}
	fmt.Fprintf(w, "  %s: %s\n", name, truncate(*value, previewLength))
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

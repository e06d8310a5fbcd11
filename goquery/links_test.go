package goquery_test

import (
	"testing"

	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexURL = "https://newsday.co.tt/2024/01/15/"

func TestExtractor_ExtractIndexLinks(t *testing.T) {
	t.Parallel()

	t.Run("extracts dated and section article links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<nav>
	<a href="/">Home</a>
	<a href="/category/news/">News</a>
</nav>
<main>
	<h2><a href="/2024/01/15/pm-announces-new-budget/">PM announces new budget measures</a></h2>
	<h2><a href="https://newsday.co.tt/sports/windies-win-series/">Windies win series in Barbados</a></h2>
	<h2><a href="/features/carnival-costume-makers/">Carnival costume makers prepare</a></h2>
</main>
</body>
</html>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		require.Len(t, refs, 3)
		assert.Equal(t, "https://newsday.co.tt/2024/01/15/pm-announces-new-budget/", refs[0].URL)
		assert.Equal(t, "PM announces new budget measures", refs[0].Title)
		assert.Equal(t, refs[0].Title, refs[0].PreviewText)
		assert.Equal(t, "https://newsday.co.tt/sports/windies-win-series/", refs[1].URL)
		assert.Equal(t, "https://newsday.co.tt/features/carnival-costume-makers/", refs[2].URL)
	})

	t.Run("drops links with short anchor text", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/2024/01/15/story/">Read more</a>
<a href="/2024/01/15/story/"><img src="thumb.jpg"></a>
<a href="/news/long-story/">Exactly10c</a>
<a href="/news/long-story-2/">Eleven char</a>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "https://newsday.co.tt/news/long-story-2/", refs[0].URL)
	})

	t.Run("honors a custom minimum title length", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/2024/01/15/story/">Read more</a>`

		refs, err := goquery.NewExtractor(goquery.WithMinTitleLength(3)).ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		assert.Len(t, refs, 1)
	})

	t.Run("ignores paths that do not look like articles", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/author/jane-doe/">Articles by Jane Doe</a>
<a href="/2024/01/15/">Back to today's index</a>
<a href="/tag/politics/">More politics coverage</a>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("filters external links", func(t *testing.T) {
		t.Parallel()

		html := `<a href="https://othernews.example/news/rival-story/">A story on another site</a>
<a href="https://epaper.newsday.co.tt/news/digital-edition/">Digital edition of the paper</a>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("skips non-HTTP scheme links", func(t *testing.T) {
		t.Parallel()

		html := `<a href="javascript:void('/news/x/')">Javascript news link</a>
<a href="mailto:editor@newsday.co.tt?subject=/news/">Email the news editor</a>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("deduplicates links and strips fragments", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/news/flooding-in-penal/">Flooding in Penal after heavy rain</a>
<a href="/news/flooding-in-penal/#comments">Flooding in Penal: read the comments</a>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "https://newsday.co.tt/news/flooding-in-penal/", refs[0].URL)
		assert.Equal(t, "Flooding in Penal after heavy rain", refs[0].Title)
	})

	t.Run("collapses whitespace in anchor text", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/news/story/">
			Police   investigate
			<span>shooting</span>
		</a>`

		refs, err := goquery.NewExtractor().ExtractIndexLinks(html, indexURL)

		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "Police investigate shooting", refs[0].Title)
	})

	t.Run("returns error for invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewExtractor().ExtractIndexLinks(`<a href="/news/x/">x</a>`, "/relative/only")

		require.Error(t, err)
		assert.Equal(t, newscrawl.EINVALID, newscrawl.ErrorCode(err))
	})

	t.Run("handles empty HTML", func(t *testing.T) {
		t.Parallel()

		refs, err := goquery.NewExtractor().ExtractIndexLinks("", indexURL)

		require.NoError(t, err)
		assert.Empty(t, refs)
	})
}

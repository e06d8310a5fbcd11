package newscrawl_test

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/fwojciec/newscrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReference() newscrawl.ArticleReference {
	return newscrawl.ArticleReference{
		URL:            "https://newsday.co.tt/2024/03/01/budget-debate-continues/",
		Title:          "Budget debate continues in Parliament",
		PreviewText:    "Budget debate continues in Parliament",
		DiscoveredFrom: civil.Date{Year: 2024, Month: 3, Day: 1},
		SourceIndexURL: "https://newsday.co.tt/2024/03/01/",
	}
}

func TestMergeRecord(t *testing.T) {
	t.Parallel()

	t.Run("extracted fields override the reference", func(t *testing.T) {
		t.Parallel()

		rec := newscrawl.MergeRecord(testReference(), &newscrawl.ArticleFields{
			Title:   newscrawl.String("Budget debate: day two"),
			Content: newscrawl.String("The debate resumed."),
			Author:  newscrawl.String("Jane Doe"),
		})

		assert.Equal(t, "Budget debate: day two", rec.Title)
		require.NotNil(t, rec.Content)
		assert.Equal(t, "The debate resumed.", *rec.Content)
		require.NotNil(t, rec.Author)
		assert.Equal(t, "Jane Doe", *rec.Author)
		assert.Nil(t, rec.PublishedDate)
		assert.Nil(t, rec.Category)
		assert.False(t, rec.Partial)
		assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 1}, rec.CrawlDate)
		assert.Equal(t, "https://newsday.co.tt/2024/03/01/", rec.SourceIndexURL)
	})

	t.Run("missing extracted title keeps the reference title", func(t *testing.T) {
		t.Parallel()

		rec := newscrawl.MergeRecord(testReference(), &newscrawl.ArticleFields{})

		assert.Equal(t, "Budget debate continues in Parliament", rec.Title)
		assert.False(t, rec.Partial)
	})

	t.Run("nil fields produce a partial record", func(t *testing.T) {
		t.Parallel()

		rec := newscrawl.MergeRecord(testReference(), nil)

		assert.True(t, rec.Partial)
		assert.Equal(t, "https://newsday.co.tt/2024/03/01/budget-debate-continues/", rec.URL)
		assert.Nil(t, rec.Content)
	})
}

func TestArticleRecord_JSON_omits_absent_fields(t *testing.T) {
	t.Parallel()

	rec := newscrawl.NewPartialRecord(testReference())
	data, err := json.Marshal(rec)

	require.NoError(t, err)
	assert.NotContains(t, string(data), "content")
	assert.NotContains(t, string(data), "author")
	assert.Contains(t, string(data), `"crawlDate":"2024-03-01"`)
}

func TestArticleRecord_Validate(t *testing.T) {
	t.Parallel()

	rec := &newscrawl.ArticleRecord{SourceIndexURL: "https://newsday.co.tt/2024/03/01/"}
	assert.Equal(t, newscrawl.EINVALID, newscrawl.ErrorCode(rec.Validate()))

	rec.URL = "https://newsday.co.tt/2024/03/01/a/"
	assert.NoError(t, rec.Validate())
}

package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleWriter_WriteArticle(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteArticleFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *newscrawl.ArticleRecord
		w := &mock.ArticleWriter{
			WriteArticleFn: func(_ context.Context, rec *newscrawl.ArticleRecord) error {
				calledWith = rec
				return nil
			},
		}

		rec := &newscrawl.ArticleRecord{
			URL:            "https://newsday.co.tt/2024/01/02/story/",
			Title:          "Story",
			SourceIndexURL: "https://newsday.co.tt/2024/01/02/",
		}

		err := w.WriteArticle(context.Background(), rec)

		require.NoError(t, err)
		assert.Equal(t, rec, calledWith)
	})
}

func TestResultSink_Write(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteFn", func(t *testing.T) {
		t.Parallel()

		s := &mock.ResultSink{
			WriteFn: func(_ context.Context, records []*newscrawl.ArticleRecord) ([]string, error) {
				return []string{"out.json"}, nil
			},
		}

		locations, err := s.Write(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"out.json"}, locations)
	})
}

package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/mock"
	ncslog "github.com/fwojciec/newscrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSink_Write(t *testing.T) {
	t.Parallel()

	records := []*newscrawl.ArticleRecord{{URL: "https://newsday.co.tt/news/a/"}, {URL: "https://newsday.co.tt/news/b/"}}

	t.Run("logs record count and locations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ResultSink{
			WriteFn: func(_ context.Context, _ []*newscrawl.ArticleRecord) ([]string, error) {
				return []string{"out.json", "out.csv"}, nil
			},
		}

		locations, err := ncslog.NewLoggingSink(inner, debugLogger(&buf)).Write(context.Background(), records)

		require.NoError(t, err)
		assert.Equal(t, []string{"out.json", "out.csv"}, locations)
		output := buf.String()
		assert.Contains(t, output, "results written")
		assert.Contains(t, output, "records=2")
		assert.Contains(t, output, "out.json")
	})

	t.Run("warns when there is nothing to write", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ResultSink{
			WriteFn: func(_ context.Context, _ []*newscrawl.ArticleRecord) ([]string, error) {
				return nil, nil
			},
		}

		_, err := ncslog.NewLoggingSink(inner, debugLogger(&buf)).Write(context.Background(), nil)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "no results to write")
	})

	t.Run("logs and returns errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.ResultSink{
			WriteFn: func(_ context.Context, _ []*newscrawl.ArticleRecord) ([]string, error) {
				return nil, errors.New("disk full")
			},
		}

		_, err := ncslog.NewLoggingSink(inner, debugLogger(&buf)).Write(context.Background(), records)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}

package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/newscrawl"
	main "github.com/fwojciec/newscrawl/cmd/newscrawl"
	"github.com/fwojciec/newscrawl/mock"
	"github.com/fwojciec/newscrawl/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = `<html><body>
<nav><a href="/">Home</a></nav>
<a href="/2024/03/15/budget-debate-continues/">Budget debate continues in Parliament</a>
<a href="https://newsday.co.tt/sports/windies-win-series/">Windies win series against England</a>
<a href="https://elsewhere.example/2024/03/15/offsite/">Offsite story that is not ours</a>
</body></html>`

const articleHTML = `<html><body>
<h1>Budget debate continues in Parliament</h1>
<div class="author">By Jane Doe</div>
<time datetime="2024-03-15">March 15, 2024</time>
<div class="article-content"><p>The debate resumed on Friday.</p></div>
</body></html>`

// archive serves a fixed index page at /YYYY/MM/DD/ and an article page
// everywhere else.
type archive struct {
	mu       sync.Mutex
	requests []string
}

func (a *archive) fetcher() *mock.PageFetcher {
	return &mock.PageFetcher{
		FetchFn: func(_ context.Context, url string) (*newscrawl.Response, error) {
			a.mu.Lock()
			a.requests = append(a.requests, url)
			a.mu.Unlock()
			if strings.HasSuffix(url, "/2024/03/15/") {
				return &newscrawl.Response{Content: indexHTML, StatusCode: 200}, nil
			}
			return &newscrawl.Response{Content: articleHTML, StatusCode: 200}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func newTestMain(a *archive) *main.Main {
	m := main.NewMain()
	m.Fetcher = a.fetcher()
	m.Now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	m.Sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return m
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "newscrawl")
	assert.Contains(t, stdout.String(), "crawl")
	assert.Contains(t, stdout.String(), "probe")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_DateRequiresValidDate(t *testing.T) {
	t.Parallel()

	m := newTestMain(&archive{})
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"date", "2024-02-30", "-o", t.TempDir()}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, newscrawl.EINVALID, newscrawl.ErrorCode(err))
}

func TestMain_Run_DateRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	a := &archive{}
	m := newTestMain(a)
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"date", "2024-03-15", "-o", t.TempDir(), "--format", "xlsx"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, newscrawl.EINVALID, newscrawl.ErrorCode(err))
	assert.Empty(t, a.requests)
}

func TestMain_Run_Date(t *testing.T) {
	t.Parallel()

	a := &archive{}
	m := newTestMain(a)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "articles.db")
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"date", "2024-03-15",
		"-o", dir,
		"--format", "json,csv",
		"--db", dbPath,
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Crawled 1 dates (0 failed)")
	assert.Contains(t, stdout.String(), "Collected 2 articles (0 partial")
	assert.Contains(t, stdout.String(), dbPath)

	jsonPath := filepath.Join(dir, "newsday_articles_20240315_120000.json")
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Budget debate continues in Parliament")
	assert.Contains(t, string(data), "Jane Doe")
	assert.FileExists(t, filepath.Join(dir, "newsday_articles_20240315_120000.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "newsday_articles_20240315_120000.xml"))

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	count, err := sqlite.NewArticleService(db).CountArticles(context.Background(), newscrawl.ArticleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMain_Run_CrawlWindow(t *testing.T) {
	t.Parallel()

	a := &archive{}
	m := newTestMain(a)
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"crawl", "--years", "0", "-o", dir, "--prefix", "test"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Crawled 1 dates")
	assert.Equal(t, "https://newsday.co.tt/2024/03/15/", a.requests[0])
	assert.Len(t, a.requests, 3)
	for _, ext := range []string{"json", "csv", "xml"} {
		assert.FileExists(t, filepath.Join(dir, "test_20240315_120000."+ext))
	}
	assert.Contains(t, stderr.String(), "crawl finished")
}

func TestMain_Run_CrawlVerboseLogsFetches(t *testing.T) {
	t.Parallel()

	m := newTestMain(&archive{})
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"-v", "--log-json", "crawl", "--years", "0", "-o", t.TempDir()}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"fetch"`)
}

func TestMain_Run_Probe(t *testing.T) {
	t.Parallel()

	m := newTestMain(&archive{})
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"probe", "https://newsday.co.tt/2024/03/15/"}, &stdout, &stderr)

	require.NoError(t, err)
	out := stdout.String()
	assert.Contains(t, out, "Found 2 article links")
	assert.Contains(t, out, "https://newsday.co.tt/2024/03/15/budget-debate-continues/")
	assert.Contains(t, out, "Windies win series against England")
	assert.NotContains(t, out, "Offsite story")
	assert.Contains(t, out, "Author: By Jane Doe")
	assert.Contains(t, out, "Content: The debate resumed on Friday.")
}

//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/newscrawl"
	"github.com/fwojciec/newscrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Integration_NewsdayDateIndex(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)
	defer fetcher.Close()

	resp, err := fetcher.Fetch(ctx, newscrawl.DefaultBaseURL+"/2024/01/15/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	html := strings.ToLower(resp.Content)
	assert.Contains(t, html, "<body", "expected body tag")
	assert.Contains(t, html, "/2024/01/", "expected links to dated articles")

	t.Logf("Fetched %d bytes from date index", len(resp.Content))
}

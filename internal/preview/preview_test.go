package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="A Proper Title" />
<meta property="og:description" content="What the page is about." />
<meta property="og:image" content="https://example.com/cover.png" />
<meta property="og:site_name" content="Example Site" />
</head>
<body><p>hello</p></body>
</html>`

func TestFetchParsesOpenGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := NewFetcher(Config{})
	p, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, srv.URL, p.URL)
	assert.Equal(t, "A Proper Title", p.Title)
	assert.Equal(t, "What the page is about.", p.Description)
	assert.Equal(t, "https://example.com/cover.png", p.ImageURL)
	assert.Equal(t, "Example Site", p.SiteName)
}

func TestFetchFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Only A Title</title></head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(Config{})
	p, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Only A Title", p.Title)
	assert.Empty(t, p.ImageURL)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(Config{})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchCachesWithinTTL(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := NewFetcher(Config{
		TTL: time.Hour,
		Now: func() time.Time { return current },
	})

	ctx := context.Background()
	_, err := f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	_, err = f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hits.Load(), "second fetch should be served from cache")

	// Past the TTL the entry is refetched
	current = current.Add(2 * time.Hour)
	_, err = f.Fetch(ctx, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestParseOpenGraphStopsAtBody(t *testing.T) {
	page := `<html><head><meta property="og:title" content="Head Title"/></head>
<body><meta property="og:title" content="Body Title"/></body></html>`
	p := parseOpenGraph(strings.NewReader(page))
	assert.Equal(t, "Head Title", p.Title)
}

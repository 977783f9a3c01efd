// Package preview fetches OpenGraph metadata for citation links so the feed
// can render link cards. Results are cached in-process with a fixed TTL.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultTTL bounds how long a fetched preview is served from cache.
	DefaultTTL = 24 * time.Hour

	maxBodyBytes = 512 * 1024
	fetchTimeout = 10 * time.Second
)

// Preview is the OpenGraph surface of one URL.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
}

type cacheEntry struct {
	preview   Preview
	fetchedAt time.Time
}

// Fetcher retrieves and caches link previews.
type Fetcher struct {
	httpClient *http.Client
	ttl        time.Duration
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Config holds configuration for the fetcher.
type Config struct {
	HTTPClient *http.Client
	TTL        time.Duration    // 0 means DefaultTTL.
	Now        func() time.Time // Overridable for tests; defaults to time.Now.
}

// NewFetcher creates a preview fetcher.
func NewFetcher(cfg Config) *Fetcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Fetcher{
		httpClient: client,
		ttl:        ttl,
		now:        now,
		cache:      make(map[string]cacheEntry),
	}
}

// Fetch returns the preview for a URL, serving from cache while fresh.
// Stale entries are evicted lazily on lookup.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Preview, error) {
	f.mu.RLock()
	entry, ok := f.cache[url]
	f.mu.RUnlock()
	if ok && f.now().Sub(entry.fetchedAt) < f.ttl {
		p := entry.preview
		return &p, nil
	}

	preview, err := f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[url] = cacheEntry{preview: *preview, fetchedAt: f.now()}
	f.mu.Unlock()
	return preview, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "soulfeed-preview/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	preview := parseOpenGraph(io.LimitReader(resp.Body, maxBodyBytes))
	preview.URL = url
	return preview, nil
}

// parseOpenGraph scans the document head for og: meta tags, falling back to
// <title> when og:title is absent. Tokenizer errors end the scan; whatever
// was collected up to that point is returned.
func parseOpenGraph(r io.Reader) *Preview {
	p := &Preview{}
	var fallbackTitle string

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if p.Title == "" {
				p.Title = fallbackTitle
			}
			return p

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "meta":
				if !hasAttr {
					continue
				}
				var property, content string
				for {
					key, val, more := z.TagAttr()
					switch string(key) {
					case "property", "name":
						property = string(val)
					case "content":
						content = string(val)
					}
					if !more {
						break
					}
				}
				applyMeta(p, property, content)
			case "title":
				if z.Next() == html.TextToken {
					fallbackTitle = strings.TrimSpace(string(z.Text()))
				}
			case "body":
				// og tags live in the head; stop early
				if p.Title == "" {
					p.Title = fallbackTitle
				}
				return p
			}
		}
	}
}

func applyMeta(p *Preview, property, content string) {
	if content == "" {
		return
	}
	switch property {
	case "og:title":
		p.Title = content
	case "og:description", "description":
		if p.Description == "" || property == "og:description" {
			p.Description = content
		}
	case "og:image":
		p.ImageURL = content
	case "og:site_name":
		p.SiteName = content
	}
}

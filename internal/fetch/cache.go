package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Cache memoizes GET requests by exact URL for a fixed TTL. It is the only
// component that talks to the network: everything above it sees decoded
// UTF-8 text. Concurrent Get calls for the same URL are coalesced so that at
// most one request per URL is in flight at any time. Failed fetches are not
// cached; the next Get retries.
type Cache struct {
	client *http.Client
	ttl    time.Duration
	logger *slog.Logger

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	text      string
	fetchedAt time.Time
}

// NewCache initializes a Cache that issues requests through client and keeps
// responses for ttl. A nil client falls back to http.DefaultClient.
func NewCache(client *http.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{
		client:  client,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]entry),
	}
}

// Get returns the response body for url, fetching it if no fresh cached copy
// exists. The body is decoded to UTF-8 according to the charset advertised
// in the response's Content-Type header.
func (c *Cache) Get(ctx context.Context, url string) (string, error) {
	if text, ok := c.lookup(url); ok {
		return text, nil
	}

	// Coalesce concurrent misses for the same URL into a single request. A
	// caller that lost the race re-checks the cache inside the critical
	// section and finds the entry its predecessor just stored.
	text, err, _ := c.group.Do(url, func() (interface{}, error) {
		if text, ok := c.lookup(url); ok {
			return text, nil
		}
		text, err := c.fetch(ctx, url)
		if err != nil {
			return "", err
		}
		c.store(url, text)
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

// InvalidateAll drops every cached entry immediately, so that subsequent
// Get calls hit the network again regardless of TTL.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Cache) lookup(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	if !ok || time.Since(e.fetchedAt) >= c.ttl {
		return "", false
	}
	return e.text, true
}

func (c *Cache) store(url, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = entry{text: text, fetchedAt: time.Now()}
}

func (c *Cache) fetch(ctx context.Context, url string) (string, error) {
	c.logger.Info("Fetching upstream data", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("got response %d from %s", res.StatusCode, url)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from %s: %w", url, err)
	}
	return decodeBody(body, res.Header.Get("Content-Type"))
}

// decodeBody converts body to UTF-8 according to the charset parameter of
// the Content-Type header. A missing or empty charset is treated as UTF-8.
func decodeBody(body []byte, contentType string) (string, error) {
	name := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			name = params["charset"]
		}
	}
	if name == "" || strings.EqualFold(name, "utf-8") {
		return string(body), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unreadable charset %q: %w", name, err)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s body: %w", name, err)
	}
	return string(decoded), nil
}

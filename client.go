package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client is a thin HTTP client for a running catalog service, for host
// platforms that integrate over REST rather than embedding the internal
// packages directly.
type Client struct {
	baseUrl    string
	httpClient *http.Client
}

// NewClient initializes a Client against the service at baseUrl. A nil
// httpClient falls back to http.DefaultClient.
func NewClient(baseUrl string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseUrl:    baseUrl,
		httpClient: httpClient,
	}
}

// Stations returns the stations the service is configured to expose.
func (c *Client) Stations(ctx context.Context) ([]Station, error) {
	var stations []Station
	if err := c.get(ctx, "/stations", "", &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// Browse lists the children of a browsable catalog address.
func (c *Client) Browse(ctx context.Context, uri string) ([]Ref, error) {
	var result BrowseResult
	if err := c.get(ctx, "/browse", uri, &result); err != nil {
		return nil, err
	}
	return result.Refs, nil
}

// Lookup resolves a catalog address to its playable tracks.
func (c *Client) Lookup(ctx context.Context, uri string) ([]Track, error) {
	var result LookupResult
	if err := c.get(ctx, "/lookup", uri, &result); err != nil {
		return nil, err
	}
	return result.Tracks, nil
}

// Resolve translates a catalog address to a playable stream URL. An empty
// URL with a nil error means the address has nothing to play right now.
func (c *Client) Resolve(ctx context.Context, uri string) (string, error) {
	var result PlayResult
	if err := c.get(ctx, "/play", uri, &result); err != nil {
		return "", err
	}
	return result.Url, nil
}

// Refresh asks the service to drop its cached upstream data.
func (c *Client) Refresh(ctx context.Context) error {
	url := c.baseUrl + "/refresh"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		return fmt.Errorf("got response %d from %s", res.StatusCode, url)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path, uri string, out interface{}) error {
	url := c.baseUrl + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if uri != "" {
		q := req.URL.Query()
		q.Set("uri", uri)
		req.URL.RawQuery = q.Encode()
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("got response %d from %s", res.StatusCode, url)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body from %s: %w", url, err)
	}
	return nil
}

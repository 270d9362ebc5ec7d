package audioapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
)

const (
	archiveIndexUrl = "https://audioapi.orf.at/%s/json/4.0/broadcasts/"
	broadcastUrl    = "https://audioapi.orf.at/%s/api/json/4.0/broadcast/%s/%s"
)

// Fetcher is the cache-backed fetch primitive the client reads through; it
// is satisfied by *fetch.Cache.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
	InvalidateAll()
}

// Client reads the three upstream audioapi resources and decodes them into
// raw records. Transport and decode failures never propagate past this
// boundary: they are logged and surface as empty or absent results, so that
// a flaky upstream degrades browsing rather than breaking it.
type Client struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewClient(fetcher Fetcher, logger *slog.Logger) *Client {
	return &Client{
		fetcher: fetcher,
		logger:  logger,
	}
}

// ArchiveIndex returns the station's rolling index of archived days, or an
// empty list if the index can't be fetched or decoded.
func (c *Client) ArchiveIndex(ctx context.Context, station string) []DayRecord {
	url := fmt.Sprintf(archiveIndexUrl, station)
	var days []DayRecord
	if !c.getJson(ctx, url, &days) {
		return nil
	}
	return days
}

// DayDetail scans the station's archive index for the entry matching dayId,
// returning nil if the day is absent from the rolling archive.
func (c *Client) DayDetail(ctx context.Context, station, dayId string) *DayRecord {
	for _, rec := range c.ArchiveIndex(ctx, station) {
		if strconv.Itoa(rec.Day) == dayId {
			day := rec
			return &day
		}
	}
	return nil
}

// ShowDetail fetches the full broadcast record for one show, returning nil
// if the record is absent or malformed.
func (c *Client) ShowDetail(ctx context.Context, station, showId, dayId string) *ShowRecord {
	url := fmt.Sprintf(broadcastUrl, station, showId, dayId)
	var show ShowRecord
	if !c.getJson(ctx, url, &show) {
		return nil
	}
	return &show
}

// Refresh drops all cached upstream responses.
func (c *Client) Refresh() {
	c.fetcher.InvalidateAll()
}

func (c *Client) getJson(ctx context.Context, url string, out interface{}) bool {
	text, err := c.fetcher.Get(ctx, url)
	if err != nil {
		c.logger.Error("Failed to fetch upstream resource", "url", url, "error", err)
		return false
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		c.logger.Error("Failed to decode upstream resource", "url", url, "error", err)
		return false
	}
	return true
}

package stream

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/orfradio/catalog"
	"github.com/orfradio/catalog/internal/audioapi"
)

const (
	liveUrl    = "https://orf-live.ors-shoutcast.at/%s-%s"
	archiveUrl = "https://loopstream01.apa.at/?channel=%s&shoutcast=0&id=%s&offset=%d&offsetende=%s"
)

var (
	ErrNoLiveStream    = errors.New("station has no live stream")
	ErrNoArchive       = errors.New("station has no archive stream")
	ErrShowNotFound    = errors.New("no broadcast record for show")
	ErrSegmentNotFound = errors.New("no stream segment covers the requested start time")
)

// bitrateTiers maps the two supported live bitrates to their shoutcast
// encoding tier codes.
var bitrateTiers = map[int]string{
	128: "q1a",
	192: "q2a",
}

// LiveURL renders the live-stream endpoint for a station at the chosen
// bitrate (128 or 192 kbit/s).
func LiveURL(st catalog.Station, bitrate int) (string, error) {
	if st.LiveSlug == "" {
		return "", fmt.Errorf("%w: %s", ErrNoLiveStream, st.Slug)
	}
	tier, ok := bitrateTiers[bitrate]
	if !ok {
		return "", fmt.Errorf("unsupported live bitrate %d", bitrate)
	}
	return fmt.Sprintf(liveUrl, st.LiveSlug, tier), nil
}

// ShowSource provides broadcast detail records; it is satisfied by
// *audioapi.Client.
type ShowSource interface {
	ShowDetail(ctx context.Context, station, showId, dayId string) *audioapi.ShowRecord
}

// Locator resolves archive item addresses to playable stream URLs.
type Locator struct {
	src ShowSource
}

func NewLocator(src ShowSource) *Locator {
	return &Locator{
		src: src,
	}
}

// ItemURL maps an item's time-range id onto the stream segment that was
// recording at the item's start and renders the playback URL with the
// byte-time offsets into that segment.
//
// An empty URL with a nil error means the show was fetched but has no
// stream segments yet: a legitimate upstream state (not yet archived), not
// a failure.
func (l *Locator) ItemURL(ctx context.Context, st catalog.Station, dayId, showId, itemId string) (string, error) {
	if st.StreamSlug == "" {
		return "", fmt.Errorf("%w: %s", ErrNoArchive, st.Slug)
	}
	rec := l.src.ShowDetail(ctx, st.Slug, showId, dayId)
	if rec == nil {
		return "", fmt.Errorf("%w: %s/%s/%s", ErrShowNotFound, st.Slug, dayId, showId)
	}
	if len(rec.Streams) == 0 {
		return "", nil
	}

	start, end, err := parseItemId(itemId)
	if err != nil {
		return "", err
	}

	// Segments are ordered by ascending start and have no explicit end, so
	// the segment recording at any instant is the latest-starting one whose
	// start is at or before it. Scan from the back to find it.
	var segment *audioapi.StreamRecord
	for i := len(rec.Streams) - 1; i >= 0; i-- {
		if rec.Streams[i].Start <= start {
			segment = &rec.Streams[i]
			break
		}
	}
	if segment == nil {
		return "", fmt.Errorf("%w: item %s of %s/%s/%s", ErrSegmentNotFound, itemId, st.Slug, dayId, showId)
	}

	offsetEnd := ""
	if end != 0 {
		offsetEnd = strconv.FormatInt(end-segment.Start, 10)
	}
	return fmt.Sprintf(archiveUrl, st.StreamSlug, segment.LoopStreamId, start-segment.Start, offsetEnd), nil
}

// parseItemId splits an item id into its start timestamp and, if present,
// its end timestamp. An absent end is returned as zero.
func parseItemId(itemId string) (start, end int64, err error) {
	startStr, endStr, hasEnd := strings.Cut(itemId, "-")
	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed item id %q: %w", itemId, err)
	}
	if !hasEnd {
		return start, 0, nil
	}
	end, err = strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed item id %q: %w", itemId, err)
	}
	return start, end, nil
}

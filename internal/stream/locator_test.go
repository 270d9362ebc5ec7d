package stream

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orfradio/catalog"
	"github.com/orfradio/catalog/internal/audioapi"
)

var oe1 = catalog.Station{Slug: "oe1", Name: "Ö1", StreamSlug: "oe1", LiveSlug: "oe1"}

type mockShowSource struct {
	rec *audioapi.ShowRecord
}

func (m *mockShowSource) ShowDetail(ctx context.Context, station, showId, dayId string) *audioapi.ShowRecord {
	return m.rec
}

func Test_LiveURL(t *testing.T) {
	url, err := LiveURL(oe1, 192)
	assert.NoError(t, err)
	assert.Equal(t, "https://orf-live.ors-shoutcast.at/oe1-q2a", url)

	url, err = LiveURL(oe1, 128)
	assert.NoError(t, err)
	assert.Equal(t, "https://orf-live.ors-shoutcast.at/oe1-q1a", url)

	campus := catalog.Station{Slug: "campus", Name: "Ö1 Campus", LiveSlug: "campus"}
	url, err = LiveURL(campus, 192)
	assert.NoError(t, err)
	assert.Equal(t, "https://orf-live.ors-shoutcast.at/campus-q2a", url)

	_, err = LiveURL(catalog.Station{Slug: "mute"}, 192)
	assert.ErrorIs(t, err, ErrNoLiveStream)

	_, err = LiveURL(oe1, 160)
	assert.ErrorContains(t, err, "unsupported live bitrate")
}

func Test_ItemURL_selectsCoveringSegment(t *testing.T) {
	l := NewLocator(&mockShowSource{rec: &audioapi.ShowRecord{
		Streams: []audioapi.StreamRecord{
			{Start: 1000, LoopStreamId: "A"},
			{Start: 2000, LoopStreamId: "B"},
		},
	}})

	// 2500 falls into segment B, which started at 2000
	url, err := l.ItemURL(context.Background(), oe1, "20170604", "475617", "2500-2700")
	require.NoError(t, err)
	assert.Equal(t, "https://loopstream01.apa.at/?channel=oe1&shoutcast=0&id=B&offset=500&offsetende=700", url)

	// A bare start id leaves the end offset empty
	url, err = l.ItemURL(context.Background(), oe1, "20170604", "475617", "1500")
	require.NoError(t, err)
	assert.Equal(t, "https://loopstream01.apa.at/?channel=oe1&shoutcast=0&id=A&offset=500&offsetende=", url)
}

func Test_ItemURL_startBeforeEverySegment(t *testing.T) {
	l := NewLocator(&mockShowSource{rec: &audioapi.ShowRecord{
		Streams: []audioapi.StreamRecord{{Start: 1000, LoopStreamId: "A"}},
	}})
	_, err := l.ItemURL(context.Background(), oe1, "20170604", "475617", "500-800")
	assert.ErrorIs(t, err, ErrSegmentNotFound)
}

func Test_ItemURL_notYetArchived(t *testing.T) {
	// A show without stream segments is a legitimate state, not an error:
	// the empty URL tells the host there is nothing to play yet
	l := NewLocator(&mockShowSource{rec: &audioapi.ShowRecord{}})
	url, err := l.ItemURL(context.Background(), oe1, "20170604", "475617", "2500-2700")
	assert.NoError(t, err)
	assert.Equal(t, "", url)
}

func Test_ItemURL_showNotFound(t *testing.T) {
	l := NewLocator(&mockShowSource{})
	_, err := l.ItemURL(context.Background(), oe1, "20170604", "475617", "2500-2700")
	assert.ErrorIs(t, err, ErrShowNotFound)
}

func Test_ItemURL_malformedItemId(t *testing.T) {
	l := NewLocator(&mockShowSource{rec: &audioapi.ShowRecord{
		Streams: []audioapi.StreamRecord{{Start: 1000, LoopStreamId: "A"}},
	}})
	for _, itemId := range []string{"", "abc", "2500-xyz"} {
		_, err := l.ItemURL(context.Background(), oe1, "20170604", "475617", itemId)
		assert.ErrorContains(t, err, "malformed item id")
	}
}

func Test_ItemURL_liveOnlyStation(t *testing.T) {
	l := NewLocator(&mockShowSource{rec: &audioapi.ShowRecord{
		Streams: []audioapi.StreamRecord{{Start: 1000, LoopStreamId: "A"}},
	}})
	campus := catalog.Station{Slug: "campus", LiveSlug: "campus"}
	_, err := l.ItemURL(context.Background(), campus, "20170604", "475617", "1500")
	assert.ErrorIs(t, err, ErrNoArchive)
}

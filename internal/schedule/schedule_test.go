package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orfradio/catalog"
	"github.com/orfradio/catalog/internal/audioapi"
)

var allTypes = map[string]bool{"M": true, "B": true, "BJ": true, "N": true, "J": true, "W": true, "S": true}

func Test_Day(t *testing.T) {
	day := Day(&audioapi.DayRecord{
		Day:     20170604,
		DateISO: "2017-06-04T00:00:00+02:00",
	})
	assert.Equal(t, catalog.Day{Id: "20170604", Label: "Sun 04. Jun 2017"}, day)
}

func Test_ShowsForDay(t *testing.T) {
	rec := &audioapi.DayRecord{
		Day:     20170604,
		DateISO: "2017-06-04T00:00:00+02:00",
		Broadcasts: []audioapi.BroadcastRecord{
			{
				ProgramKey:    "475617",
				Title:         "Nachrichten",
				ScheduledISO:  "2017-06-04T10:59:49+02:00",
				IsBroadcasted: true,
				EndOffset:     7200000,
			},
			{
				ProgramKey:    "475630",
				Title:         "Abendjournal",
				ScheduledISO:  "2017-06-04T18:00:00+02:00",
				IsBroadcasted: true,
				EndOffset:     7200000,
			},
		},
	}

	// At noon local time, only the morning news has aired yet
	now := time.Date(2017, 6, 4, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	shows := ShowsForDay(rec, now)
	require.Len(t, shows, 1)
	assert.Equal(t, "475617", shows[0].Id)
	assert.Contains(t, shows[0].Title, "Nachrichten")
	assert.Equal(t, "10:59", shows[0].Time)
	assert.True(t, shows[0].Broadcasted)

	// Late in the evening both are listed
	now = time.Date(2017, 6, 4, 23, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Len(t, ShowsForDay(rec, now), 2)
}

func Test_ShowsForDay_marksScheduleCorrections(t *testing.T) {
	rec := &audioapi.DayRecord{
		Broadcasts: []audioapi.BroadcastRecord{{
			ProgramKey:    "1",
			Title:         "Opernabend",
			ScheduledISO:  "2017-06-04T19:30:00+02:00",
			IsBroadcasted: false,
		}},
	}
	shows := ShowsForDay(rec, time.Date(2017, 6, 5, 0, 0, 0, 0, time.UTC))
	require.Len(t, shows, 1)
	assert.Equal(t, "Opernabend *", shows[0].Title)
	assert.False(t, shows[0].Broadcasted)
}

func Test_ShowsForDay_ordersNextMorningLast(t *testing.T) {
	// The index lists the calendar day chronologically, but shows before
	// 06:00 aired at the tail of the radio day and belong at the end
	rec := &audioapi.DayRecord{
		Broadcasts: []audioapi.BroadcastRecord{
			{ProgramKey: "night", ScheduledISO: "2017-06-04T01:00:00+02:00", IsBroadcasted: true},
			{ProgramKey: "noon", ScheduledISO: "2017-06-04T12:00:00+02:00", IsBroadcasted: true},
			{ProgramKey: "evening", ScheduledISO: "2017-06-04T23:00:00+02:00", IsBroadcasted: true},
		},
	}
	shows := ShowsForDay(rec, time.Date(2017, 6, 5, 12, 0, 0, 0, time.UTC))
	require.Len(t, shows, 3)
	assert.Equal(t, "noon", shows[0].Id)
	assert.Equal(t, "evening", shows[1].Id)
	assert.Equal(t, "night", shows[2].Id)
}

func Test_ShowsForDay_offsetOnlyTimestamps(t *testing.T) {
	// Some upstream timestamps come without an offset; endOffset supplies it
	rec := &audioapi.DayRecord{
		Broadcasts: []audioapi.BroadcastRecord{{
			ProgramKey:    "1",
			Title:         "Mittagsjournal",
			ScheduledISO:  "2017-06-04T12:00:00",
			IsBroadcasted: true,
			EndOffset:     7200000,
		}},
	}
	shows := ShowsForDay(rec, time.Date(2017, 6, 4, 10, 30, 0, 0, time.UTC))
	require.Len(t, shows, 1)
	assert.Equal(t, "12:00", shows[0].Time)
}

func Test_ItemsForShow_idDerivation(t *testing.T) {
	show := &audioapi.ShowRecord{
		Title: "Konzert",
		Start: 100,
		End:   500,
		Items: []audioapi.ItemRecord{
			{Start: 100, Type: "M", Title: "Erstes Stück"},
			{Start: 200, Type: "M", Title: "Zweites Stück"},
			{Start: 350, Type: "M", Title: "Drittes Stück"},
		},
	}
	items := ItemsForShow(show, "20170604", allTypes)
	require.Len(t, items, 3)
	assert.Equal(t, "100-200", items[0].Id)
	assert.Equal(t, "200-350", items[1].Id)
	assert.Equal(t, "350", items[2].Id)
	assert.Equal(t, int64(100), items[0].Length)
	assert.Equal(t, int64(150), items[1].Length)
	assert.Equal(t, int64(150), items[2].Length)
	assert.Equal(t, "Konzert", items[0].ShowTitle)
	assert.Equal(t, "2017-06-04", items[0].ShowDate)
}

func Test_ItemsForShow_syntheticLeadItem(t *testing.T) {
	// The recording starts before the first listed item; a synthetic item
	// keeps that opening stretch reachable
	show := &audioapi.ShowRecord{
		Start: 50,
		End:   500,
		Items: []audioapi.ItemRecord{
			{Start: 100, Type: "M", Title: "Erstes Stück"},
		},
	}
	items := ItemsForShow(show, "20170604", allTypes)
	require.Len(t, items, 2)
	assert.Equal(t, "50-100", items[0].Id)
	assert.Equal(t, "S", items[0].Type)
	assert.Equal(t, "ohne Namen", items[0].Title)
	assert.Equal(t, int64(50), items[0].Length)
	assert.Equal(t, "100", items[1].Id)
}

func Test_ItemsForShow_titleFallback(t *testing.T) {
	show := &audioapi.ShowRecord{
		Start: 0,
		End:   400,
		Items: []audioapi.ItemRecord{
			{Start: 0, Type: "M"},
			{Start: 100, Type: "BJ"},
			{Start: 200, Type: "N"},
			{Start: 300, Type: "X"},
		},
	}
	items := ItemsForShow(show, "20170604", map[string]bool{"M": true, "BJ": true, "N": true, "X": true})
	require.Len(t, items, 4)
	assert.Equal(t, "Musik ohne Namen", items[0].Title)
	assert.Equal(t, "Journal ohne Namen", items[1].Title)
	assert.Equal(t, "Nachrichten ohne Namen", items[2].Title)
	assert.Equal(t, "ohne Namen", items[3].Title)
}

func Test_ItemsForShow_stripsMojibake(t *testing.T) {
	show := &audioapi.ShowRecord{
		Start: 0,
		End:   100,
		Items: []audioapi.ItemRecord{
			{Start: 0, Type: "M", Title: "Mittags\u0085journal \u0096 Beitrag", Interpreter: "Wiener Philharmoniker"},
		},
	}
	items := ItemsForShow(show, "20170604", allTypes)
	require.Len(t, items, 1)
	assert.Equal(t, "Mittagsjournal  Beitrag", items[0].Title)
	assert.Equal(t, "Wiener Philharmoniker", items[0].Artist)
}

func Test_ItemsForShow_wholeShowFallback(t *testing.T) {
	show := &audioapi.ShowRecord{
		Title:     "Guten Morgen Österreich",
		Moderator: "Eine Moderatorin",
		Start:     1000,
		End:       5000,
		Items: []audioapi.ItemRecord{
			{Start: 1000, Type: "W"},
			{Start: 2000, Type: "J"},
		},
	}
	items := ItemsForShow(show, "20170604", map[string]bool{"M": true})
	require.Len(t, items, 1)
	assert.Equal(t, "1000", items[0].Id)
	assert.Equal(t, "Guten Morgen Österreich", items[0].Title)
	assert.Equal(t, "Eine Moderatorin", items[0].Artist)
	assert.Equal(t, int64(4000), items[0].Length)
	assert.Equal(t, "", items[0].Type)
}

func Test_ItemsForShow_noItemsAtAll(t *testing.T) {
	show := &audioapi.ShowRecord{
		Title: "Stille Stunde",
		Start: 1000,
		End:   2000,
	}
	items := ItemsForShow(show, "20170604", allTypes)
	require.Len(t, items, 1)
	assert.Equal(t, "1000", items[0].Id)
	assert.Equal(t, int64(1000), items[0].Length)
}

func Test_GetItem(t *testing.T) {
	show := &audioapi.ShowRecord{
		Start: 100,
		End:   500,
		Items: []audioapi.ItemRecord{
			{Start: 100, Type: "M", Title: "Erstes Stück"},
			{Start: 200, Type: "M", Title: "Zweites Stück"},
		},
	}

	// Both the full "start-end" form and the bare start resolve the item
	item, ok := GetItem(show, "20170604", "100-200", allTypes)
	require.True(t, ok)
	assert.Equal(t, "Erstes Stück", item.Title)

	item, ok = GetItem(show, "20170604", "100", allTypes)
	require.True(t, ok)
	assert.Equal(t, "100-200", item.Id)

	_, ok = GetItem(show, "20170604", "999", allTypes)
	assert.False(t, ok)
}

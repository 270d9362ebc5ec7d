package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/orfradio/catalog"
	"github.com/orfradio/catalog/internal/audioapi"
)

// typeLabels maps upstream item type codes to the German labels used when
// an item carries no title of its own.
var typeLabels = map[string]string{
	"M":  "Musik",
	"B":  "Beitrag",
	"BJ": "Journal",
	"N":  "Nachrichten",
	"J":  "Jingle",
	"W":  "Werbung",
}

// Day converts one archive index entry into a catalog Day.
func Day(rec *audioapi.DayRecord) catalog.Day {
	return catalog.Day{
		Id:    strconv.Itoa(rec.Day),
		Label: dayLabel(rec),
	}
}

func dayLabel(rec *audioapi.DayRecord) string {
	t, err := parseISO(rec.DateISO, 0)
	if err != nil {
		return strconv.Itoa(rec.Day)
	}
	return t.Format("Mon 02. Jan 2006")
}

// ShowsForDay converts a day's broadcast entries into Shows. Only shows
// whose scheduled start lies strictly before now are listed, so browsing a
// day never offers broadcasts that haven't aired yet. Shows scheduled
// before 06:00 belong to the following morning and are ordered after the
// rest of the day. A show whose isBroadcasted flag is false announces a
// schedule correction; its title carries a trailing " *" marker.
func ShowsForDay(rec *audioapi.DayRecord, now time.Time) []catalog.Show {
	var shows, nextMorning []catalog.Show
	for _, b := range rec.Broadcasts {
		scheduled, err := parseISO(b.ScheduledISO, b.EndOffset)
		if err != nil {
			continue
		}
		if !scheduled.Before(now) {
			continue
		}
		title := sanitizeTitle(b.Title)
		if !b.IsBroadcasted {
			title += " *"
		}
		show := catalog.Show{
			Id:          b.ProgramKey,
			Title:       title,
			Time:        scheduled.Format("15:04"),
			Broadcasted: b.IsBroadcasted,
		}
		if scheduled.Hour() < 6 {
			nextMorning = append(nextMorning, show)
		} else {
			shows = append(shows, show)
		}
	}
	return append(shows, nextMorning...)
}

// ItemsForShow converts a broadcast record into the show's playable items,
// keeping only items whose type code is enabled in allowedTypes.
//
// When the show's recorded start predates its first item, a synthetic item
// of type "S" fills the gap, so that the opening moments of the recording
// stay reachable. When nothing survives the type filter (or the show has no
// items at all), a single synthetic item spanning the whole show is
// returned instead, with the show's own title and moderator.
func ItemsForShow(show *audioapi.ShowRecord, dayId string, allowedTypes map[string]bool) []catalog.Item {
	recs := show.Items
	if len(recs) > 0 && show.Start < recs[0].Start {
		lead := audioapi.ItemRecord{
			Start:    show.Start,
			StartISO: time.UnixMilli(show.Start).UTC().Format(time.RFC3339),
			Type:     "S",
		}
		recs = append([]audioapi.ItemRecord{lead}, recs...)
	}

	showDate := formatDayId(dayId)
	showTitle := sanitizeTitle(show.Title)
	items := make([]catalog.Item, 0, len(recs))
	for i, rec := range recs {
		if !allowedTypes[rec.Type] {
			continue
		}
		title := sanitizeTitle(rec.Title)
		if title == "" {
			title = genericTitle(rec.Type)
		}
		items = append(items, catalog.Item{
			Id:        itemId(recs, i),
			Title:     title,
			Time:      rec.StartISO,
			Artist:    rec.Interpreter,
			Length:    itemLength(show, recs, i),
			Type:      rec.Type,
			ShowTitle: showTitle,
			ShowDate:  showDate,
		})
	}
	if len(items) > 0 {
		return items
	}

	// Nothing playable item-wise; offer the show as one whole track.
	return []catalog.Item{{
		Id:        strconv.FormatInt(show.Start, 10),
		Title:     showTitle,
		Time:      time.UnixMilli(show.Start).UTC().Format(time.RFC3339),
		Artist:    show.Moderator,
		Length:    show.End - show.Start,
		Type:      "",
		ShowTitle: showTitle,
		ShowDate:  showDate,
	}}
}

// GetItem re-derives the show's item list and returns the item whose id
// starts with the same timestamp as itemId. Callers may pass either the
// full "start-end" form or just "start".
func GetItem(show *audioapi.ShowRecord, dayId, itemId string, allowedTypes map[string]bool) (catalog.Item, bool) {
	want, _, _ := strings.Cut(itemId, "-")
	for _, item := range ItemsForShow(show, dayId, allowedTypes) {
		start, _, _ := strings.Cut(item.Id, "-")
		if start == want {
			return item, true
		}
	}
	return catalog.Item{}, false
}

// itemId derives the item's identifier from its own start timestamp and,
// unless it is the last item, the next item's start timestamp. The id is
// unique within the show and carries the exact interval the stream locator
// needs, with no second lookup.
func itemId(recs []audioapi.ItemRecord, i int) string {
	if i+1 < len(recs) {
		return fmt.Sprintf("%d-%d", recs[i].Start, recs[i+1].Start)
	}
	return strconv.FormatInt(recs[i].Start, 10)
}

func itemLength(show *audioapi.ShowRecord, recs []audioapi.ItemRecord, i int) int64 {
	if i+1 < len(recs) {
		return recs[i+1].Start - recs[i].Start
	}
	return show.End - recs[i].Start
}

func genericTitle(typeCode string) string {
	if label, ok := typeLabels[typeCode]; ok {
		return label + " ohne Namen"
	}
	return "ohne Namen"
}

// sanitizeTitle strips the Latin-1 C1 control range (U+0080 through U+009F).
// Upstream titles occasionally carry these mis-encoded bytes; they are
// removed outright, not replaced.
func sanitizeTitle(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x80 && r <= 0x9f {
			return -1
		}
		return r
	}, s)
}

// formatDayId renders an 8-digit day id as an ISO date for display.
func formatDayId(dayId string) string {
	if len(dayId) != 8 {
		return dayId
	}
	return dayId[:4] + "-" + dayId[4:6] + "-" + dayId[6:]
}

// parseISO parses an upstream ISO timestamp. Upstream is inconsistent about
// offsets: some timestamps carry one, some don't. Timestamps without an
// offset are interpreted in the fixed zone given by offsetMs, the UTC
// offset upstream reports alongside them.
func parseISO(iso string, offsetMs int64) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, nil
		}
	}
	zone := time.FixedZone("", int(offsetMs/1000))
	return time.ParseInLocation("2006-01-02T15:04:05", iso, zone)
}

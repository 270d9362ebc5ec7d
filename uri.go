package catalog

import (
	"fmt"
	"strings"
)

// Scheme is the URI scheme of all catalog addresses.
const Scheme = "orfradio"

// AddressKind discriminates the six variants of a catalog address.
type AddressKind int

const (
	KindRoot AddressKind = iota
	KindStation
	KindLive
	KindArchiveDay
	KindArchiveShow
	KindArchiveItem
)

func (k AddressKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindStation:
		return "station"
	case KindLive:
		return "live"
	case KindArchiveDay:
		return "archive-day"
	case KindArchiveShow:
		return "archive-show"
	case KindArchiveItem:
		return "archive-item"
	}
	return fmt.Sprintf("AddressKind(%d)", int(k))
}

// Address is a parsed catalog location. The grammar is:
//
//	address := "orfradio:" [ station [ "/" ( "live" | day ["/" show ["/" item]] ) ] ]
//
// Only the fields implied by Kind are set; e.g. an archive-day address has
// Station and DayId but no ShowId or ItemId. ParseAddress and Address.String
// are exact inverses for every well-formed address.
type Address struct {
	Kind    AddressKind
	Station string
	DayId   string
	ShowId  string
	ItemId  string
}

// InvalidAddressError reports a URI that does not match the catalog's
// addressing grammar.
type InvalidAddressError struct {
	Uri string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("not a valid catalog address: %q", e.Uri)
}

// ParseAddress parses a catalog URI into its typed Address form, or returns
// an *InvalidAddressError if the URI does not match the grammar.
func ParseAddress(uri string) (Address, error) {
	path, ok := strings.CutPrefix(uri, Scheme+":")
	if !ok {
		return Address{}, &InvalidAddressError{Uri: uri}
	}
	if path == "" {
		return Address{Kind: KindRoot}, nil
	}

	parts := strings.Split(path, "/")
	if len(parts) > 4 {
		return Address{}, &InvalidAddressError{Uri: uri}
	}
	for _, part := range parts {
		if part == "" {
			return Address{}, &InvalidAddressError{Uri: uri}
		}
	}

	station := parts[0]
	if len(parts) == 1 {
		return Address{Kind: KindStation, Station: station}, nil
	}
	if parts[1] == "live" {
		// "live" is a leaf; nothing may follow it
		if len(parts) > 2 {
			return Address{}, &InvalidAddressError{Uri: uri}
		}
		return Address{Kind: KindLive, Station: station}, nil
	}
	switch len(parts) {
	case 2:
		return Address{Kind: KindArchiveDay, Station: station, DayId: parts[1]}, nil
	case 3:
		return Address{Kind: KindArchiveShow, Station: station, DayId: parts[1], ShowId: parts[2]}, nil
	default:
		return Address{Kind: KindArchiveItem, Station: station, DayId: parts[1], ShowId: parts[2], ItemId: parts[3]}, nil
	}
}

// String serializes the address back to its canonical URI form.
func (a Address) String() string {
	switch a.Kind {
	case KindRoot:
		return Scheme + ":"
	case KindStation:
		return fmt.Sprintf("%s:%s", Scheme, a.Station)
	case KindLive:
		return fmt.Sprintf("%s:%s/live", Scheme, a.Station)
	case KindArchiveDay:
		return fmt.Sprintf("%s:%s/%s", Scheme, a.Station, a.DayId)
	case KindArchiveShow:
		return fmt.Sprintf("%s:%s/%s/%s", Scheme, a.Station, a.DayId, a.ShowId)
	case KindArchiveItem:
		return fmt.Sprintf("%s:%s/%s/%s/%s", Scheme, a.Station, a.DayId, a.ShowId, a.ItemId)
	}
	return ""
}

// RootAddress returns the address of the catalog root.
func RootAddress() Address {
	return Address{Kind: KindRoot}
}

// StationAddress returns the address of a station directory.
func StationAddress(station string) Address {
	return Address{Kind: KindStation, Station: station}
}

// LiveAddress returns the address of a station's live stream.
func LiveAddress(station string) Address {
	return Address{Kind: KindLive, Station: station}
}

// DayAddress returns the address of one archive day of a station.
func DayAddress(station, dayId string) Address {
	return Address{Kind: KindArchiveDay, Station: station, DayId: dayId}
}

// ShowAddress returns the address of one archived show.
func ShowAddress(station, dayId, showId string) Address {
	return Address{Kind: KindArchiveShow, Station: station, DayId: dayId, ShowId: showId}
}

// ItemAddress returns the address of one playable item within an archived
// show.
func ItemAddress(station, dayId, showId, itemId string) Address {
	return Address{Kind: KindArchiveItem, Station: station, DayId: dayId, ShowId: showId, ItemId: itemId}
}

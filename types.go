package catalog

// Station identifies one ORF radio channel. Slug is the audioapi slug that
// appears in catalog addresses, StreamSlug is the loopstream channel used for
// archive playback, and LiveSlug is the shoutcast mount for the live stream.
// An empty StreamSlug means the station has no archive and offers live
// playback only.
type Station struct {
	Slug       string `json:"slug" yaml:"slug"`
	Name       string `json:"name" yaml:"name"`
	StreamSlug string `json:"streamSlug,omitempty" yaml:"streamSlug,omitempty"`
	LiveSlug   string `json:"liveSlug,omitempty" yaml:"liveSlug,omitempty"`
}

// Day is one calendar day of a station's rolling archive.
type Day struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

// Show is one scheduled broadcast within a day. Time is the scheduled start
// in HH:MM. Broadcasted is false when the upstream schedule was corrected
// after the fact; such shows carry a trailing " *" marker in their title.
type Show struct {
	Id          string `json:"id"`
	Title       string `json:"title"`
	Time        string `json:"time"`
	Broadcasted bool   `json:"broadcasted"`
}

// Item is one individually playable unit within a show. Id encodes the
// item's start timestamp in epoch milliseconds and, unless the item is the
// last one in its show, the next item's start timestamp joined by a hyphen.
type Item struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Time      string `json:"time"`
	Artist    string `json:"artist"`
	Length    int64  `json:"length"`
	Type      string `json:"type"`
	ShowTitle string `json:"showTitle"`
	ShowDate  string `json:"showDate"`
}

const (
	RefDirectory = "directory"
	RefTrack     = "track"
)

// Ref is a browsable reference to a catalog location: either a directory
// that can be browsed further or a playable track.
type Ref struct {
	Uri  string `json:"uri"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Track is the fully-populated result of looking up a playable address.
type Track struct {
	Uri    string `json:"uri"`
	Name   string `json:"name"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Length int64  `json:"length,omitempty"`
}

// BrowseResult is the response body of the service's GET /browse endpoint.
type BrowseResult struct {
	Refs []Ref `json:"refs"`
}

// LookupResult is the response body of the service's GET /lookup endpoint.
type LookupResult struct {
	Tracks []Track `json:"tracks"`
}

// PlayResult is the response body of the service's GET /play endpoint. An
// empty Url means the address is not playable right now (not yet archived,
// or not a playable address); the host platform is expected to handle that
// gracefully rather than receive an error.
type PlayResult struct {
	Url string `json:"url"`
}

package audioapi

// DayRecord is one entry of a station's rolling archive index: a calendar
// day plus the broadcasts scheduled on it.
type DayRecord struct {
	Day        int               `json:"day"`
	DateISO    string            `json:"dateISO"`
	Broadcasts []BroadcastRecord `json:"broadcasts"`
}

// BroadcastRecord is the archive index's summary of one scheduled broadcast.
// EndOffset is the broadcast's UTC offset in milliseconds; upstream reports
// it alongside ISO timestamps that may or may not carry their own offset.
type BroadcastRecord struct {
	ProgramKey    string `json:"programKey"`
	Title         string `json:"title"`
	ScheduledISO  string `json:"scheduledISO"`
	IsBroadcasted bool   `json:"isBroadcasted"`
	StartISO      string `json:"startISO"`
	EndISO        string `json:"endISO"`
	EndOffset     int64  `json:"endOffset"`
}

// ShowRecord is the full detail record of one broadcast, including its
// per-item breakdown and the stream segments that back its recording. Start
// and End are epoch milliseconds.
type ShowRecord struct {
	Title     string         `json:"title"`
	Moderator string         `json:"moderator"`
	Start     int64          `json:"start"`
	End       int64          `json:"end"`
	Items     []ItemRecord   `json:"items"`
	Streams   []StreamRecord `json:"streams"`
}

// ItemRecord is one sub-segment of a broadcast as reported upstream. Title
// and Interpreter may be absent, null, or mojibake-ridden; the schedule
// package cleans them up.
type ItemRecord struct {
	Start       int64  `json:"start"`
	StartISO    string `json:"startISO"`
	Duration    int64  `json:"duration"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Interpreter string `json:"interpreter"`
}

// StreamRecord is one contiguous recorded audio segment. Segments are
// ordered by ascending Start and have no explicit end; a segment covers
// everything from its start until the next segment begins.
type StreamRecord struct {
	Start        int64  `json:"start"`
	LoopStreamId string `json:"loopStreamId"`
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/mux"

	"github.com/orfradio/catalog"
	"github.com/orfradio/catalog/internal/audioapi"
	"github.com/orfradio/catalog/internal/schedule"
	"github.com/orfradio/catalog/internal/stream"
)

// Upstream provides the raw catalog records the handlers normalize and
// serve; it is satisfied by *audioapi.Client.
type Upstream interface {
	ArchiveIndex(ctx context.Context, station string) []audioapi.DayRecord
	DayDetail(ctx context.Context, station, dayId string) *audioapi.DayRecord
	ShowDetail(ctx context.Context, station, showId, dayId string) *audioapi.ShowRecord
	Refresh()
}

// StreamLocator resolves archive items to playable URLs; it is satisfied by
// *stream.Locator.
type StreamLocator interface {
	ItemURL(ctx context.Context, st catalog.Station, dayId, showId, itemId string) (string, error)
}

// Options carries the deployment's catalog configuration: which stations
// are exposed, which archive item types are listed, whether the after-hours
// display substitution is active, and the live bitrate to resolve.
type Options struct {
	Stations     []catalog.Station
	ArchiveTypes map[string]bool
	Afterhours   bool
	LiveBitrate  int
}

// afterhoursPattern matches a leading zero in display times of the small
// hours (00:00 through 04:59); the zero is swapped for a capital O so those
// entries sort after the rest of the day in hosts that order by name.
var afterhoursPattern = regexp.MustCompile(`^0([0-4]:)`)

// Server exposes the catalog over HTTP: browse and lookup listings, playback
// resolution, and a cache-refresh hook.
type Server struct {
	api     Upstream
	locator StreamLocator
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

func NewServer(api Upstream, locator StreamLocator, opts Options, logger *slog.Logger) *Server {
	return &Server{
		api:     api,
		locator: locator,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/stations").Methods("GET").HandlerFunc(s.handleGetStations)
	r.Path("/browse").Methods("GET").HandlerFunc(s.handleBrowse)
	r.Path("/lookup").Methods("GET").HandlerFunc(s.handleLookup)
	r.Path("/play").Methods("GET").HandlerFunc(s.handlePlay)
	r.Path("/refresh").Methods("POST").HandlerFunc(s.handleRefresh)
}

func (s *Server) handleGetStations(res http.ResponseWriter, req *http.Request) {
	writeJson(res, s.opts.Stations)
}

func (s *Server) handleBrowse(res http.ResponseWriter, req *http.Request) {
	// A malformed or unbrowsable address degrades to an empty listing; the
	// host platform renders an empty directory rather than an error
	refs := []catalog.Ref{}

	uri := req.URL.Query().Get("uri")
	addr, err := catalog.ParseAddress(uri)
	if err != nil {
		s.logger.Error("Failed to parse browse URI", "uri", uri, "error", err)
		writeJson(res, catalog.BrowseResult{Refs: refs})
		return
	}

	switch addr.Kind {
	case catalog.KindRoot:
		refs = s.browseRoot()
	case catalog.KindStation:
		refs = s.browseStation(req.Context(), addr.Station)
	case catalog.KindArchiveDay:
		refs = s.browseDay(req.Context(), addr.Station, addr.DayId)
	case catalog.KindArchiveShow:
		refs = s.browseShow(req.Context(), addr.Station, addr.DayId, addr.ShowId)
	case catalog.KindLive, catalog.KindArchiveItem:
		s.logger.Warn("Browse called with URI that does not support browsing", "uri", uri)
	}
	writeJson(res, catalog.BrowseResult{Refs: refs})
}

func (s *Server) handleLookup(res http.ResponseWriter, req *http.Request) {
	tracks := []catalog.Track{}

	uri := req.URL.Query().Get("uri")
	addr, err := catalog.ParseAddress(uri)
	if err != nil {
		s.logger.Error("Failed to parse lookup URI", "uri", uri, "error", err)
		writeJson(res, catalog.LookupResult{Tracks: tracks})
		return
	}

	switch addr.Kind {
	case catalog.KindRoot:
		s.logger.Warn("Lookup called with URI that does not support lookup", "uri", uri)
	case catalog.KindLive:
		tracks = []catalog.Track{{Uri: addr.String(), Name: "Live"}}
	case catalog.KindStation:
		tracks = refsToTracks(s.browseStation(req.Context(), addr.Station))
	case catalog.KindArchiveDay:
		tracks = refsToTracks(s.browseDay(req.Context(), addr.Station, addr.DayId))
	case catalog.KindArchiveShow:
		tracks = s.lookupShow(req.Context(), addr.Station, addr.DayId, addr.ShowId)
	case catalog.KindArchiveItem:
		tracks = s.lookupItem(req.Context(), addr)
	}
	writeJson(res, catalog.LookupResult{Tracks: tracks})
}

func (s *Server) handlePlay(res http.ResponseWriter, req *http.Request) {
	// Playback resolution always answers with a URL field; an empty URL is
	// the explicit "nothing to play" signal
	url := ""

	uri := req.URL.Query().Get("uri")
	addr, err := catalog.ParseAddress(uri)
	if err != nil {
		s.logger.Error("Failed to parse play URI", "uri", uri, "error", err)
		writeJson(res, catalog.PlayResult{Url: url})
		return
	}

	switch addr.Kind {
	case catalog.KindLive:
		if st, ok := catalog.StationBySlug(s.opts.Stations, addr.Station); ok {
			url, err = stream.LiveURL(st, s.opts.LiveBitrate)
			if err != nil {
				s.logger.Error("Failed to resolve live stream", "uri", uri, "error", err)
			}
		}
	case catalog.KindArchiveItem:
		if st, ok := catalog.StationBySlug(s.opts.Stations, addr.Station); ok {
			url, err = s.locator.ItemURL(req.Context(), st, addr.DayId, addr.ShowId, addr.ItemId)
			if err != nil {
				s.logger.Error("Failed to resolve archive item", "uri", uri, "error", err)
			}
		}
	case catalog.KindRoot, catalog.KindStation, catalog.KindArchiveDay, catalog.KindArchiveShow:
		s.logger.Warn("Play called with URI that is not playable", "uri", uri)
	}
	writeJson(res, catalog.PlayResult{Url: url})
}

func (s *Server) handleRefresh(res http.ResponseWriter, req *http.Request) {
	s.api.Refresh()
	s.logger.Info("Invalidated upstream fetch cache")
	res.WriteHeader(http.StatusNoContent)
}

func (s *Server) browseRoot() []catalog.Ref {
	refs := make([]catalog.Ref, 0, len(s.opts.Stations))
	for _, st := range s.opts.Stations {
		refs = append(refs, catalog.Ref{
			Uri:  catalog.StationAddress(st.Slug).String(),
			Name: st.Name,
			Type: catalog.RefDirectory,
		})
	}
	return refs
}

func (s *Server) browseStation(ctx context.Context, slug string) []catalog.Ref {
	st, ok := catalog.StationBySlug(s.opts.Stations, slug)
	if !ok {
		return []catalog.Ref{}
	}
	refs := []catalog.Ref{{
		Uri:  catalog.LiveAddress(st.Slug).String(),
		Name: st.Name + " Live",
		Type: catalog.RefTrack,
	}}
	if st.StreamSlug == "" {
		return refs
	}
	for _, rec := range s.api.ArchiveIndex(ctx, st.Slug) {
		rec := rec
		day := schedule.Day(&rec)
		refs = append(refs, catalog.Ref{
			Uri:  catalog.DayAddress(st.Slug, day.Id).String(),
			Name: day.Label,
			Type: catalog.RefDirectory,
		})
	}
	return refs
}

func (s *Server) browseDay(ctx context.Context, station, dayId string) []catalog.Ref {
	rec := s.api.DayDetail(ctx, station, dayId)
	if rec == nil {
		return []catalog.Ref{}
	}
	shows := schedule.ShowsForDay(rec, s.now())
	refs := make([]catalog.Ref, 0, len(shows))
	for _, show := range shows {
		refs = append(refs, catalog.Ref{
			Uri:  catalog.ShowAddress(station, dayId, show.Id).String(),
			Name: s.entryName(show.Time, show.Title, true),
			Type: catalog.RefDirectory,
		})
	}
	return refs
}

func (s *Server) browseShow(ctx context.Context, station, dayId, showId string) []catalog.Ref {
	refs := []catalog.Ref{}
	for _, item := range s.showItems(ctx, station, dayId, showId) {
		refs = append(refs, catalog.Ref{
			Uri:  catalog.ItemAddress(station, dayId, showId, item.Id).String(),
			Name: s.entryName(itemTime(item), item.Title, false),
			Type: catalog.RefTrack,
		})
	}
	return refs
}

func (s *Server) lookupShow(ctx context.Context, station, dayId, showId string) []catalog.Track {
	tracks := []catalog.Track{}
	for _, item := range s.showItems(ctx, station, dayId, showId) {
		tracks = append(tracks, s.itemTrack(catalog.ItemAddress(station, dayId, showId, item.Id), item))
	}
	return tracks
}

func (s *Server) lookupItem(ctx context.Context, addr catalog.Address) []catalog.Track {
	rec := s.api.ShowDetail(ctx, addr.Station, addr.ShowId, addr.DayId)
	if rec == nil {
		return []catalog.Track{}
	}
	item, ok := schedule.GetItem(rec, addr.DayId, addr.ItemId, s.opts.ArchiveTypes)
	if !ok {
		return []catalog.Track{}
	}
	// Reply with the item's full id, even when the request carried only the
	// leading start timestamp
	uri := catalog.ItemAddress(addr.Station, addr.DayId, addr.ShowId, item.Id)
	return []catalog.Track{s.itemTrack(uri, item)}
}

func (s *Server) showItems(ctx context.Context, station, dayId, showId string) []catalog.Item {
	rec := s.api.ShowDetail(ctx, station, showId, dayId)
	if rec == nil {
		return nil
	}
	return schedule.ItemsForShow(rec, dayId, s.opts.ArchiveTypes)
}

// entryName renders a listing entry as "<time>: <title>". In day listings,
// the after-hours substitution (if enabled) renames the small hours so that
// a day's post-midnight tail sorts after its evening.
func (s *Server) entryName(t, title string, afterhours bool) string {
	if afterhours && s.opts.Afterhours {
		t = afterhoursPattern.ReplaceAllString(t, "O$1")
	}
	return fmt.Sprintf("%s: %s", t, title)
}

func (s *Server) itemTrack(uri catalog.Address, item catalog.Item) catalog.Track {
	return catalog.Track{
		Uri:    uri.String(),
		Name:   s.entryName(itemTime(item), item.Title, false),
		Artist: item.Artist,
		Album:  fmt.Sprintf("%s (%s)", item.ShowTitle, item.ShowDate),
		Genre:  item.Type,
		Length: item.Length,
	}
}

// refsToTracks converts a browse listing into bare tracks for lookup calls
// on container addresses, which answer with names and URIs only.
func refsToTracks(refs []catalog.Ref) []catalog.Track {
	tracks := make([]catalog.Track, 0, len(refs))
	for _, ref := range refs {
		tracks = append(tracks, catalog.Track{Uri: ref.Uri, Name: ref.Name})
	}
	return tracks
}

// itemTime extracts the wall-clock time of day from an item's ISO start
// timestamp for display.
func itemTime(item catalog.Item) string {
	t, err := time.Parse(time.RFC3339, item.Time)
	if err != nil {
		return item.Time
	}
	return t.Format("15:04:05")
}

func writeJson(res http.ResponseWriter, body interface{}) {
	res.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(res).Encode(body); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

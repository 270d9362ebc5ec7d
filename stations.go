package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultStations is the built-in registry of ORF channels, in the order
// they appear when browsing the catalog root. Stations without a StreamSlug
// (Ö1 Campus, Slovenski spored) have no archive and expose live only.
var DefaultStations = []Station{
	{Slug: "oe1", Name: "Ö1", StreamSlug: "oe1", LiveSlug: "oe1"},
	{Slug: "oe3", Name: "Ö3", StreamSlug: "oe3", LiveSlug: "oe3"},
	{Slug: "fm4", Name: "FM4", StreamSlug: "fm4", LiveSlug: "fm4"},
	{Slug: "campus", Name: "Ö1 Campus", LiveSlug: "campus"},
	{Slug: "bgl", Name: "Radio Burgenland", StreamSlug: "oe2b", LiveSlug: "bgl"},
	{Slug: "ktn", Name: "Radio Kärnten", StreamSlug: "oe2k", LiveSlug: "ktn"},
	{Slug: "noe", Name: "Radio Niederösterreich", StreamSlug: "oe2n", LiveSlug: "noe"},
	{Slug: "ooe", Name: "Radio Oberösterreich", StreamSlug: "oe2o", LiveSlug: "ooe"},
	{Slug: "sbg", Name: "Radio Salzburg", StreamSlug: "oe2s", LiveSlug: "sbg"},
	{Slug: "stm", Name: "Radio Steiermark", StreamSlug: "oe2st", LiveSlug: "stm"},
	{Slug: "tir", Name: "Radio Tirol", StreamSlug: "oe2t", LiveSlug: "tir"},
	{Slug: "vbg", Name: "Radio Vorarlberg", StreamSlug: "oe2v", LiveSlug: "vbg"},
	{Slug: "wie", Name: "Radio Wien", StreamSlug: "oe2w", LiveSlug: "wie"},
	{Slug: "slo", Name: "ORF Slovenski spored", LiveSlug: "slo"},
}

// StationBySlug returns the station with the given slug from stations, or
// false if no such station exists.
func StationBySlug(stations []Station, slug string) (Station, bool) {
	for _, st := range stations {
		if st.Slug == slug {
			return st, true
		}
	}
	return Station{}, false
}

// SelectStations filters stations down to the given slugs, preserving
// registry order. Unknown slugs are ignored.
func SelectStations(stations []Station, slugs []string) []Station {
	selected := make([]Station, 0, len(slugs))
	for _, st := range stations {
		for _, slug := range slugs {
			if st.Slug == slug {
				selected = append(selected, st)
				break
			}
		}
	}
	return selected
}

// LoadStationsFile reads a YAML station registry from path, replacing the
// built-in DefaultStations for deployments that need to override names or
// stream mounts.
func LoadStationsFile(path string) ([]Station, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var stations []Station
	if err := yaml.Unmarshal(raw, &stations); err != nil {
		return nil, fmt.Errorf("failed to parse station registry %s: %w", path, err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("station registry %s contains no stations", path)
	}
	for _, st := range stations {
		if st.Slug == "" {
			return nil, fmt.Errorf("station registry %s contains a station without a slug", path)
		}
	}
	return stations, nil
}

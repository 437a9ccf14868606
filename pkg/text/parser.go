// Package text parses free-form music requests into structured search terms.
package text

import (
	"regexp"
	"strings"
)

// SearchTypeTrack is the default search type for parsed queries.
const SearchTypeTrack = "track"

var (
	// "Song by Artist", "Song from Artist", "Song of Artist"
	byArtistRegex = regexp.MustCompile(`(?i)^(.+)\s+(?:by|from|of)\s+(.+)$`)
	// "Song - Artist"
	dashArtistRegex = regexp.MustCompile(`(?i)^(.+)\s*-\s*(.+)$`)
)

// ParsedQuery is the structured form of a free-text search query. Artist
// is empty when the query names no artist.
type ParsedQuery struct {
	Song       string
	Artist     string
	SearchType string
}

// HasArtist reports whether the query named an artist.
func (q ParsedQuery) HasArtist() bool {
	return q.Artist != ""
}

// ParseQuery splits a query like "Imagine by John Lennon" or
// "Imagine - John Lennon" into song and artist. The first matching
// pattern wins; a query matching neither is treated as a bare song
// title. ParseQuery never fails.
func ParseQuery(query string) ParsedQuery {
	for _, re := range []*regexp.Regexp{byArtistRegex, dashArtistRegex} {
		if m := re.FindStringSubmatch(query); m != nil {
			return ParsedQuery{
				Song:       strings.TrimSpace(m[1]),
				Artist:     strings.TrimSpace(m[2]),
				SearchType: SearchTypeTrack,
			}
		}
	}

	return ParsedQuery{
		Song:       strings.TrimSpace(query),
		SearchType: SearchTypeTrack,
	}
}

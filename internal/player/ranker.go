package player

import (
	"sidekick/internal/core"
	"sidekick/pkg/similarity"
	"sidekick/pkg/text"
)

// artistMatchThreshold is the minimum artist-name similarity a candidate
// must reach when the query names an artist. Candidates at or below the
// threshold are excluded, with no fallback to the unfiltered list.
const artistMatchThreshold = 0.6

// Rank selects the candidate whose track name is most similar to the
// parsed song title. When the query names an artist, candidates are
// first restricted to those whose primary artist clears
// artistMatchThreshold. Ties keep the first-seen maximum. Returns nil
// when no candidate qualifies.
func Rank(parsed text.ParsedQuery, candidates []core.Track) *core.Track {
	if parsed.HasArtist() {
		filtered := make([]core.Track, 0, len(candidates))
		for _, c := range candidates {
			if similarity.Score(parsed.Artist, c.PrimaryArtist()) > artistMatchThreshold {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}

	var best *core.Track
	highest := 0.0
	for i := range candidates {
		score := similarity.Score(parsed.Song, candidates[i].Name)
		if score > highest {
			highest = score
			best = &candidates[i]
		}
	}

	return best
}

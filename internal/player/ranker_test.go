package player

import (
	"testing"

	"sidekick/internal/core"
	"sidekick/pkg/similarity"
	"sidekick/pkg/text"
)

func track(id, name string, artists ...string) core.Track {
	return core.Track{ID: id, URI: "spotify:track:" + id, Name: name, Artists: artists}
}

func TestRank_SelectsClosestTitle(t *testing.T) {
	parsed := text.ParseQuery("Imagine")
	candidates := []core.Track{
		track("t1", "Imagine Dragons Radio", "Imagine Dragons"),
		track("t2", "Imagine", "John Lennon"),
		track("t3", "Imagination", "Foster the People"),
	}

	got := Rank(parsed, candidates)
	if got == nil {
		t.Fatal("Rank() = nil, want a match")
	}
	if got.ID != "t2" {
		t.Errorf("Rank() selected %q, want t2", got.ID)
	}
}

func TestRank_ArtistFilter(t *testing.T) {
	parsed := text.ParseQuery("Imagine by John Lennon")
	candidates := []core.Track{
		track("t1", "Imagine", "Ariana Grande"),
		track("t2", "Imagine", "John Lennon"),
	}

	got := Rank(parsed, candidates)
	if got == nil {
		t.Fatal("Rank() = nil, want a match")
	}
	if got.ID != "t2" {
		t.Errorf("Rank() selected %q, want t2", got.ID)
	}
}

func TestRank_ArtistFilterNeverAdmitsWeakMatches(t *testing.T) {
	parsed := text.ParseQuery("Yesterday by Beatles")
	candidates := []core.Track{
		track("t1", "Yesterday", "Boyz II Men"),
		track("t2", "Yesterday", "The Beatles"),
		track("t3", "Yesterday", "Leona Lewis"),
	}

	got := Rank(parsed, candidates)
	if got == nil {
		t.Fatal("Rank() = nil, want a match")
	}
	if score := similarity.Score(parsed.Artist, got.PrimaryArtist()); score <= 0.6 {
		t.Errorf("selected candidate artist similarity = %f, must exceed 0.6", score)
	}
	if got.ID != "t2" {
		t.Errorf("Rank() selected %q, want t2", got.ID)
	}
}

func TestRank_EmptyAfterArtistFilterReturnsNil(t *testing.T) {
	// No fallback to the unfiltered list when the filter empties it.
	parsed := text.ParseQuery("Yesterday by Beatles")
	candidates := []core.Track{
		track("t1", "Yesterday", "Boyz II Men"),
		track("t2", "Yesterday", "Leona Lewis"),
	}

	if got := Rank(parsed, candidates); got != nil {
		t.Errorf("Rank() = %q, want nil when artist filter empties the list", got.ID)
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	if got := Rank(text.ParseQuery("anything"), nil); got != nil {
		t.Errorf("Rank() = %q, want nil for empty candidate list", got.ID)
	}
}

func TestRank_Deterministic(t *testing.T) {
	parsed := text.ParseQuery("Imagine")
	candidates := []core.Track{
		track("t1", "Imagine", "John Lennon"),
		track("t2", "Imagine", "Ariana Grande"),
	}

	first := Rank(parsed, candidates)
	for range 10 {
		got := Rank(parsed, candidates)
		if got == nil || got.ID != first.ID {
			t.Fatal("Rank() is not deterministic for tied candidates")
		}
	}
	if first.ID != "t1" {
		t.Errorf("tie should keep the first-seen maximum, got %q", first.ID)
	}
}

func TestRank_CandidateWithoutArtists(t *testing.T) {
	parsed := text.ParseQuery("Imagine by John Lennon")
	candidates := []core.Track{
		{ID: "t1", Name: "Imagine"},
		track("t2", "Imagine", "John Lennon"),
	}

	got := Rank(parsed, candidates)
	if got == nil || got.ID != "t2" {
		t.Error("candidates without artist credits must not pass the artist filter")
	}
}

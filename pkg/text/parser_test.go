package text

import "testing"

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantSong   string
		wantArtist string
	}{
		{
			name:       "Song by artist",
			query:      "Imagine by John Lennon",
			wantSong:   "Imagine",
			wantArtist: "John Lennon",
		},
		{
			name:       "Song from artist",
			query:      "Imagine from John Lennon",
			wantSong:   "Imagine",
			wantArtist: "John Lennon",
		},
		{
			name:       "Song of artist",
			query:      "Imagine of John Lennon",
			wantSong:   "Imagine",
			wantArtist: "John Lennon",
		},
		{
			name:       "Song dash artist",
			query:      "Imagine - John Lennon",
			wantSong:   "Imagine",
			wantArtist: "John Lennon",
		},
		{
			name:       "Bare song title",
			query:      "Imagine",
			wantSong:   "Imagine",
			wantArtist: "",
		},
		{
			name:       "Case insensitive separator",
			query:      "Imagine BY John Lennon",
			wantSong:   "Imagine",
			wantArtist: "John Lennon",
		},
		{
			name:       "By pattern wins over dash",
			query:      "Stand by Me - Ben E. King",
			wantSong:   "Stand",
			wantArtist: "Me - Ben E. King",
		},
		{
			name:       "Greedy song keeps later separator",
			query:      "Killed by Death by Motorhead",
			wantSong:   "Killed by Death",
			wantArtist: "Motorhead",
		},
		{
			name:       "Surrounding whitespace trimmed",
			query:      "  Imagine  ",
			wantSong:   "Imagine",
			wantArtist: "",
		},
		{
			name:       "Empty query",
			query:      "",
			wantSong:   "",
			wantArtist: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.query)
			if got.Song != tt.wantSong {
				t.Errorf("ParseQuery(%q).Song = %q, want %q", tt.query, got.Song, tt.wantSong)
			}
			if got.Artist != tt.wantArtist {
				t.Errorf("ParseQuery(%q).Artist = %q, want %q", tt.query, got.Artist, tt.wantArtist)
			}
			if got.SearchType != SearchTypeTrack {
				t.Errorf("ParseQuery(%q).SearchType = %q, want %q", tt.query, got.SearchType, SearchTypeTrack)
			}
		})
	}
}

func TestParsedQuery_HasArtist(t *testing.T) {
	if !ParseQuery("Imagine by John Lennon").HasArtist() {
		t.Error("expected HasArtist() = true when artist is present")
	}
	if ParseQuery("Imagine").HasArtist() {
		t.Error("expected HasArtist() = false for bare title")
	}
}

package player

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

// Mock implementations for testing

type playCall struct {
	deviceID string
	uri      string
}

type mockMusicService struct {
	searchResults [][]core.Track
	searchErr     error
	searchCalls   int

	deviceLists [][]core.Device
	devicesErr  error
	deviceCalls int

	playErr   error
	playCalls []playCall
}

func (m *mockMusicService) Search(_ context.Context, _, _ string, _ int) ([]core.Track, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	idx := m.searchCalls
	m.searchCalls++
	if idx >= len(m.searchResults) {
		idx = len(m.searchResults) - 1
	}
	return m.searchResults[idx], nil
}

func (m *mockMusicService) Devices(_ context.Context) ([]core.Device, error) {
	if m.devicesErr != nil {
		return nil, m.devicesErr
	}
	idx := m.deviceCalls
	m.deviceCalls++
	if idx >= len(m.deviceLists) {
		idx = len(m.deviceLists) - 1
	}
	return m.deviceLists[idx], nil
}

func (m *mockMusicService) Play(_ context.Context, deviceID, uri string) error {
	if m.playErr != nil {
		return m.playErr
	}
	m.playCalls = append(m.playCalls, playCall{deviceID: deviceID, uri: uri})
	return nil
}

type mockLauncher struct {
	err   error
	calls int
}

func (m *mockLauncher) Launch(_ context.Context) error {
	m.calls++
	return m.err
}

type mockHistory struct {
	played map[string]bool
}

func (m *mockHistory) Played(id string) bool { return m.played[id] }
func (m *mockHistory) MarkPlayed(id string)  { m.played[id] = true }
func (m *mockHistory) Size() int             { return len(m.played) }
func (m *mockHistory) Clear()                { m.played = map[string]bool{} }

func newTestPlayer(music *mockMusicService, launcher *mockLauncher, opts ...Option) *Player {
	opts = append(opts, WithSleep(func(time.Duration) {}))
	return New(music, launcher, zap.NewNop(), opts...)
}

func imagineCatalog() []core.Track {
	return []core.Track{
		track("t1", "Imagine", "John Lennon"),
		track("t2", "Imagine Dragons Radio", "Imagine Dragons"),
	}
}

func TestSearchAndPlay_PrefersActiveDevice(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{imagineCatalog()},
		deviceLists: [][]core.Device{{
			{ID: "d1", Name: "Kitchen", Active: false},
			{ID: "d2", Name: "Office", Active: true},
		}},
	}
	launcher := &mockLauncher{}

	result := newTestPlayer(music, launcher).SearchAndPlay(context.Background(), "Imagine", "")

	if !result.OK() {
		t.Fatalf("SearchAndPlay() failed: %s", result.Message)
	}
	if len(music.playCalls) != 1 {
		t.Fatalf("play commands issued = %d, want exactly 1", len(music.playCalls))
	}
	if music.playCalls[0].deviceID != "d2" {
		t.Errorf("played on %q, want active device d2", music.playCalls[0].deviceID)
	}
	if music.playCalls[0].uri != "spotify:track:t1" {
		t.Errorf("played uri %q, want spotify:track:t1", music.playCalls[0].uri)
	}
}

func TestSearchAndPlay_FallsBackToFirstDevice(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{imagineCatalog()},
		deviceLists: [][]core.Device{{
			{ID: "d1", Name: "Kitchen", Active: false},
			{ID: "d2", Name: "Office", Active: false},
		}},
	}

	result := newTestPlayer(music, &mockLauncher{}).SearchAndPlay(context.Background(), "Imagine", "")

	if !result.OK() {
		t.Fatalf("SearchAndPlay() failed: %s", result.Message)
	}
	if music.playCalls[0].deviceID != "d1" {
		t.Errorf("played on %q, want first device d1", music.playCalls[0].deviceID)
	}
}

func TestSearchAndPlay_NoMatch(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{{}},
		deviceLists:   [][]core.Device{{{ID: "d1", Active: true}}},
	}

	result := newTestPlayer(music, &mockLauncher{}).SearchAndPlay(context.Background(), "gibberish", "")

	if result.OK() {
		t.Fatal("SearchAndPlay() succeeded with no candidates")
	}
	if result.Outcome != core.OutcomeNoMatch {
		t.Errorf("outcome = %v, want OutcomeNoMatch", result.Outcome)
	}
	if music.deviceCalls != 0 {
		t.Error("device lookup must not happen when no track matched")
	}
	if len(music.playCalls) != 0 {
		t.Error("no play command may be issued on failure")
	}
}

func TestSearchAndPlay_ArtistFilterEmptiesCandidates(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{{
			track("t1", "Yesterday", "Boyz II Men"),
			track("t2", "Yesterday", "Leona Lewis"),
		}},
		deviceLists: [][]core.Device{{{ID: "d1", Active: true}}},
	}

	result := newTestPlayer(music, &mockLauncher{}).SearchAndPlay(context.Background(), "Yesterday by Beatles", "")

	if result.Outcome != core.OutcomeNoMatch {
		t.Errorf("outcome = %v, want OutcomeNoMatch", result.Outcome)
	}
}

func TestSearchAndPlay_LaunchesAndRetriesOnce(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{imagineCatalog()},
		deviceLists: [][]core.Device{
			{},
			{{ID: "d1", Name: "Desktop", Active: true}},
		},
	}
	launcher := &mockLauncher{}

	var slept []time.Duration
	p := New(music, launcher, zap.NewNop(),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
		WithLaunchWait(5*time.Second))

	result := p.SearchAndPlay(context.Background(), "Imagine", "")

	if !result.OK() {
		t.Fatalf("SearchAndPlay() failed after recovery: %s", result.Message)
	}
	if launcher.calls != 1 {
		t.Errorf("launcher invoked %d times, want 1", launcher.calls)
	}
	if music.searchCalls != 2 {
		t.Errorf("search invoked %d times, want 2 (retry reruns the full procedure)", music.searchCalls)
	}
	if len(slept) != 1 || slept[0] != 5*time.Second {
		t.Errorf("sleep calls = %v, want one 5s wait", slept)
	}
	if music.playCalls[0].deviceID != "d1" {
		t.Errorf("played on %q, want d1", music.playCalls[0].deviceID)
	}
}

func TestSearchAndPlay_RetryIsBounded(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{imagineCatalog()},
		deviceLists:   [][]core.Device{{}},
	}
	launcher := &mockLauncher{}

	result := newTestPlayer(music, launcher).SearchAndPlay(context.Background(), "Imagine", "")

	if result.OK() {
		t.Fatal("SearchAndPlay() succeeded with no devices ever appearing")
	}
	if result.Outcome != core.OutcomeNoDevice {
		t.Errorf("outcome = %v, want OutcomeNoDevice", result.Outcome)
	}
	if launcher.calls != 1 {
		t.Errorf("launcher invoked %d times, want exactly 1", launcher.calls)
	}
	if music.searchCalls != 2 {
		t.Errorf("search invoked %d times, want 2", music.searchCalls)
	}
	if len(music.playCalls) != 0 {
		t.Error("no play command may be issued on failure")
	}
}

func TestSearchAndPlay_LaunchFailure(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{imagineCatalog()},
		deviceLists:   [][]core.Device{{}},
	}
	launcher := &mockLauncher{err: errors.New("spotify binary not found")}

	result := newTestPlayer(music, launcher).SearchAndPlay(context.Background(), "Imagine", "")

	if result.Outcome != core.OutcomeLaunchFailed {
		t.Errorf("outcome = %v, want OutcomeLaunchFailed", result.Outcome)
	}
	if music.searchCalls != 1 {
		t.Errorf("search invoked %d times, want 1 (no retry after launch failure)", music.searchCalls)
	}
}

func TestSearchAndPlay_SearchError(t *testing.T) {
	music := &mockMusicService{searchErr: errors.New("rate limited")}

	result := newTestPlayer(music, &mockLauncher{}).SearchAndPlay(context.Background(), "Imagine", "")

	if result.Outcome != core.OutcomeTransportError {
		t.Errorf("outcome = %v, want OutcomeTransportError", result.Outcome)
	}
}

func TestSearchAndPlay_HistoryAnnotation(t *testing.T) {
	music := &mockMusicService{
		searchResults: [][]core.Track{imagineCatalog()},
		deviceLists:   [][]core.Device{{{ID: "d1", Name: "Office", Active: true}}},
	}
	history := &mockHistory{played: map[string]bool{}}
	p := newTestPlayer(music, &mockLauncher{}, WithHistory(history))

	first := p.SearchAndPlay(context.Background(), "Imagine", "")
	if !first.OK() {
		t.Fatalf("first play failed: %s", first.Message)
	}
	if !history.Played("t1") {
		t.Error("history should record the played track")
	}

	second := p.SearchAndPlay(context.Background(), "Imagine", "")
	if !second.OK() {
		t.Fatalf("second play failed: %s", second.Message)
	}
	if !strings.Contains(second.Message, "played earlier this session") {
		t.Errorf("second play message %q should mention session history", second.Message)
	}
}

package auth

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "tokens.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenStore() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTokenRoundTrip(t *testing.T) {
	store := newTestStore(t)

	want := &oauth2.Token{
		AccessToken:  "access-1",
		TokenType:    "Bearer",
		RefreshToken: "refresh-1",
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	if err := store.Save("spotify", want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Token("spotify")
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("Token() = %+v, want %+v", got, want)
	}
	if !got.Expiry.Equal(want.Expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, want.Expiry)
	}
}

func TestTokenMissingService(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Token("google"); err == nil {
		t.Fatal("Token() succeeded for a service never stored")
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	store.Save("spotify", &oauth2.Token{AccessToken: "old", TokenType: "Bearer"})
	store.Save("spotify", &oauth2.Token{AccessToken: "new", TokenType: "Bearer"})

	got, err := store.Token("spotify")
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	if got.AccessToken != "new" {
		t.Errorf("AccessToken = %q, want the overwritten value", got.AccessToken)
	}
}

func TestExpired(t *testing.T) {
	store := newTestStore(t)

	store.Save("stale", &oauth2.Token{
		AccessToken: "a",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(-time.Hour),
	})
	store.Save("refreshable", &oauth2.Token{
		AccessToken:  "a",
		TokenType:    "Bearer",
		RefreshToken: "r",
		Expiry:       time.Now().Add(-time.Hour),
	})

	if expired, err := store.Expired("stale"); err != nil || !expired {
		t.Errorf("Expired(stale) = %v, %v, want true", expired, err)
	}
	if expired, err := store.Expired("refreshable"); err != nil || expired {
		t.Errorf("Expired(refreshable) = %v, %v, want false while a refresh token exists", expired, err)
	}
}

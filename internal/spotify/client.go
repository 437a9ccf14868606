// Package spotify wraps the Spotify Web API behind the core.MusicService
// interface.
package spotify

import (
	"context"
	"fmt"
	"net/http"

	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"sidekick/internal/auth"
	"sidekick/internal/core"
	"sidekick/pkg/fuzzy"
)

// TokenService is the key under which the Spotify OAuth token is stored.
const TokenService = "spotify"

// Scopes are the OAuth scopes required for search and playback control.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
}

type Client struct {
	api        *spotifyapi.Client
	normalizer *fuzzy.Normalizer
	logger     *zap.Logger
}

// New builds a Spotify client from a token stored in the auth store.
func New(ctx context.Context, cfg core.SpotifyConfig, store *auth.TokenStore, logger *zap.Logger) (*Client, error) {
	authenticator := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
	)

	httpClient, err := store.HTTPClient(ctx, TokenService, oauthConfig(authenticator, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to build spotify http client: %w", err)
	}

	return NewWithHTTPClient(httpClient, logger), nil
}

// NewWithHTTPClient builds a client over an already authenticated HTTP
// client. Used by tests and by the token import flow.
func NewWithHTTPClient(httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		api:        spotifyapi.New(httpClient),
		normalizer: fuzzy.NewNormalizer(),
		logger:     logger,
	}
}

func oauthConfig(a *spotifyauth.Authenticator, cfg core.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}
}

// AuthURL returns the authorization URL to visit when seeding a token.
func AuthURL(cfg core.SpotifyConfig, state string) string {
	authenticator := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURL),
		spotifyauth.WithScopes(Scopes...),
	)
	return authenticator.AuthURL(state)
}

// Search normalizes the query, runs a catalog search and converts the
// results to core tracks. Only track search is supported; other search
// types fall back to it.
func (c *Client) Search(ctx context.Context, query, searchType string, limit int) ([]core.Track, error) {
	if searchType != "" && searchType != "track" {
		c.logger.Debug("Unsupported search type, searching tracks instead",
			zap.String("searchType", searchType))
	}

	normalizedQuery := c.normalizer.NormalizeTitle(query)

	results, err := c.api.Search(ctx, normalizedQuery, spotifyapi.SearchTypeTrack, spotifyapi.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	if results.Tracks == nil {
		return nil, nil
	}

	tracks := make([]core.Track, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		tracks = append(tracks, convertTrack(t))
	}

	c.logger.Debug("Search completed",
		zap.String("query", query),
		zap.String("normalized", normalizedQuery),
		zap.Int("results", len(tracks)))

	return tracks, nil
}

func convertTrack(t spotifyapi.FullTrack) core.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	return core.Track{
		ID:       string(t.ID),
		URI:      string(t.URI),
		Name:     t.Name,
		Artists:  artists,
		Album:    t.Album.Name,
		Duration: t.TimeDuration(),
	}
}

// Devices lists the user's available playback devices.
func (c *Client) Devices(ctx context.Context) ([]core.Device, error) {
	playerDevices, err := c.api.PlayerDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playback devices: %w", err)
	}

	devices := make([]core.Device, 0, len(playerDevices))
	for _, d := range playerDevices {
		devices = append(devices, core.Device{
			ID:     string(d.ID),
			Name:   d.Name,
			Type:   d.Type,
			Active: d.Active,
		})
	}

	return devices, nil
}

// Play starts playback of the given track URI on the given device.
func (c *Client) Play(ctx context.Context, deviceID, trackURI string) error {
	id := spotifyapi.ID(deviceID)
	opts := &spotifyapi.PlayOptions{
		DeviceID: &id,
		URIs:     []spotifyapi.URI{spotifyapi.URI(trackURI)},
	}

	if err := c.api.PlayOpt(ctx, opts); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	return nil
}

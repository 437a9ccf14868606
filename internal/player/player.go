// Package player implements the search-and-play procedure: parse the
// query, rank search candidates, pick a playback device, and recover
// once by launching the desktop client when no device is available.
package player

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sidekick/internal/core"
	"sidekick/pkg/text"
)

// maxLaunchRetries bounds the launch-and-retry recovery to a single
// additional attempt.
const maxLaunchRetries = 1

type Player struct {
	music    core.MusicService
	launcher core.AppLauncher
	history  core.HistoryStore
	logger   *zap.Logger

	searchLimit int
	launchWait  time.Duration
	sleep       func(time.Duration)
}

type Option func(*Player)

// WithSearchLimit overrides the number of candidates requested per search.
func WithSearchLimit(limit int) Option {
	return func(p *Player) {
		if limit > 0 {
			p.searchLimit = limit
		}
	}
}

// WithLaunchWait overrides the delay between launching the desktop
// client and retrying playback.
func WithLaunchWait(d time.Duration) Option {
	return func(p *Player) { p.launchWait = d }
}

// WithSleep replaces the blocking wait, for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(p *Player) { p.sleep = fn }
}

// WithHistory attaches a session playback-history store.
func WithHistory(h core.HistoryStore) Option {
	return func(p *Player) { p.history = h }
}

func New(music core.MusicService, launcher core.AppLauncher, logger *zap.Logger, opts ...Option) *Player {
	p := &Player{
		music:       music,
		launcher:    launcher,
		logger:      logger,
		searchLimit: 20,
		launchWait:  5 * time.Second,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SearchAndPlay resolves a free-text query to a track and starts
// playback. searchType overrides the parsed search type when non-empty.
// The whole procedure, search and ranking included, reruns once if no
// device is found and the desktop client launches successfully; a
// second device absence is terminal.
func (p *Player) SearchAndPlay(ctx context.Context, query, searchType string) core.PlayResult {
	parsed := text.ParseQuery(query)
	if searchType != "" {
		parsed.SearchType = searchType
	}

	p.logger.Debug("Parsed play query",
		zap.String("song", parsed.Song),
		zap.String("artist", parsed.Artist),
		zap.String("searchType", parsed.SearchType))

	for attempt := 0; ; attempt++ {
		result, retry := p.attempt(ctx, query, parsed)
		if !retry {
			return result
		}

		if attempt >= maxLaunchRetries {
			p.logger.Warn("No devices available after retrying", zap.String("query", query))
			return core.NoDevice("No available devices for playback after retrying.")
		}

		p.logger.Info("No available devices, launching desktop client")
		if err := p.launcher.Launch(ctx); err != nil {
			p.logger.Error("Desktop client launch failed", zap.Error(err))
			return core.LaunchFailed(err)
		}

		// Give the freshly launched client time to register as a device.
		p.sleep(p.launchWait)
	}
}

// attempt runs one full search/rank/dispatch pass. retry is true only
// when no playback device was found.
func (p *Player) attempt(ctx context.Context, query string, parsed text.ParsedQuery) (result core.PlayResult, retry bool) {
	tracks, err := p.music.Search(ctx, parsed.Song, parsed.SearchType, p.searchLimit)
	if err != nil {
		p.logger.Error("Track search failed", zap.String("query", query), zap.Error(err))
		return core.TransportError("Track search", err), false
	}

	match := Rank(parsed, tracks)
	if match == nil {
		p.logger.Info("No qualifying track",
			zap.String("query", query),
			zap.Int("candidates", len(tracks)))
		return core.NoMatch(query), false
	}

	devices, err := p.music.Devices(ctx)
	if err != nil {
		p.logger.Error("Device listing failed", zap.Error(err))
		return core.TransportError("Device listing", err), false
	}

	if len(devices) == 0 {
		return core.PlayResult{}, true
	}

	device := pickDevice(devices)
	if err := p.music.Play(ctx, device.ID, match.URI); err != nil {
		p.logger.Error("Play command failed",
			zap.String("device", device.Name),
			zap.String("uri", match.URI),
			zap.Error(err))
		return core.TransportError("Playback", err), false
	}

	message := fmt.Sprintf("Playing %q by %s on %s", match.Name, match.PrimaryArtist(), deviceLabel(device))
	if p.history != nil {
		if p.history.Played(match.ID) {
			message += " (played earlier this session)"
		}
		p.history.MarkPlayed(match.ID)
	}

	p.logger.Info("Playback started",
		zap.String("track", match.Name),
		zap.String("artist", match.PrimaryArtist()),
		zap.String("device", device.Name),
		zap.Bool("deviceActive", device.Active))

	return core.Playing(match, device, message), false
}

// pickDevice prefers the first active device, falling back to the first
// listed one.
func pickDevice(devices []core.Device) *core.Device {
	for i := range devices {
		if devices[i].Active {
			return &devices[i]
		}
	}
	return &devices[0]
}

func deviceLabel(d *core.Device) string {
	if d.Active {
		return fmt.Sprintf("active device %s", d.Name)
	}
	return fmt.Sprintf("device %s", d.Name)
}

package core

import (
	"time"
)

type Config struct {
	Spotify SpotifyConfig
	Google  GoogleConfig
	Weather WeatherConfig
	LLM     LLMConfig
	Server  ServerConfig
	Log     LogConfig
	App     AppConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	// GeoURL is the IP-geolocation endpoint used when a query names no location.
	GeoURL string
}

type LLMConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	// MaxTurns bounds the tool-use round trips per user message.
	MaxTurns int
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type AppConfig struct {
	TokenDBPath string
	// SearchLimit is the number of track candidates requested per search.
	SearchLimit int
	// LaunchWaitSecs is how long to wait after launching the desktop
	// client before retrying playback.
	LaunchWaitSecs int
	HistorySize    int
}

func DefaultConfig() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURL: "http://localhost:8888/callback/",
		},
		Weather: WeatherConfig{
			BaseURL: "http://api.weatherapi.com/v1",
			GeoURL:  "https://ipinfo.io",
		},
		LLM: LLMConfig{
			Provider: "none",
			MaxTurns: 8,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		App: AppConfig{
			TokenDBPath:    "./sidekick_tokens.db",
			SearchLimit:    20,
			LaunchWaitSecs: 5,
			HistorySize:    10000,
		},
	}
}

package core

import (
	"context"
	"time"
)

// Track is a search candidate returned by the music service.
type Track struct {
	ID       string
	URI      string
	Name     string
	Artists  []string
	Album    string
	Duration time.Duration
}

// PrimaryArtist returns the first credited artist, or "" when the
// service returned none.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Device is a playback endpoint reported by the music service.
type Device struct {
	ID     string
	Name   string
	Type   string
	Active bool
}

// Label is a Gmail label.
type Label struct {
	ID   string
	Name string
}

// EmailSummary is the header view of a message in a listing.
type EmailSummary struct {
	ID      string
	From    string
	Subject string
	Date    string
}

// Email is a fully fetched message.
type Email struct {
	ID      string
	From    string
	Subject string
	Date    string
	Body    string
}

// Calendar is an entry in the user's calendar list.
type Calendar struct {
	ID      string
	Summary string
}

// Event is a calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       string
	End         string
	HTMLLink    string
}

// Location is an IP-geolocation result.
type Location struct {
	City    string
	Region  string
	Country string
}

// MusicService is the external music-search and playback collaborator.
type MusicService interface {
	Search(ctx context.Context, query, searchType string, limit int) ([]Track, error)
	Devices(ctx context.Context) ([]Device, error)
	Play(ctx context.Context, deviceID, trackURI string) error
}

// AppLauncher starts the local desktop music client.
type AppLauncher interface {
	Launch(ctx context.Context) error
}

// MailService is the external mail collaborator.
type MailService interface {
	ListLabels(ctx context.Context) ([]Label, error)
	ListRecent(ctx context.Context, labelName string, maxResults int) ([]EmailSummary, error)
	Read(ctx context.Context, messageID string) (*Email, error)
	Send(ctx context.Context, to, subject, body string) (string, error)
	Reply(ctx context.Context, messageID, replyText string) (string, error)
}

// CalendarService is the external calendar collaborator.
type CalendarService interface {
	ListCalendars(ctx context.Context) ([]Calendar, error)
	ListUpcomingEvents(ctx context.Context, calendarID string, maxResults, daysAhead int) ([]Event, error)
	CreateEvent(ctx context.Context, calendarID, summary, description, startTime, endTime string) (*Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, changes EventChanges) (*Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// EventChanges carries the optional fields of an event update; nil
// means leave unchanged.
type EventChanges struct {
	Summary     *string
	Description *string
	StartTime   *string
	EndTime     *string
}

// WeatherService is the external weather collaborator.
type WeatherService interface {
	Current(ctx context.Context, location string) (*CurrentWeather, error)
	Forecast(ctx context.Context, location, date string) (*ForecastDay, error)
}

// Locator resolves the caller's approximate location from their IP.
type Locator interface {
	Locate(ctx context.Context) (*Location, error)
}

// HistoryStore remembers which tracks were played this session.
type HistoryStore interface {
	Played(trackID string) bool
	MarkPlayed(trackID string)
	Size() int
	Clear()
}

// CurrentWeather is the reshaped current-conditions response.
type CurrentWeather struct {
	City       string
	Country    string
	TempC      float64
	FeelsC     float64
	Condition  string
	Humidity   int
	WindKPH    float64
	WindDir    string
	GustKPH    float64
	VisKM      float64
	UV         float64
	PrecipMM   float64
}

// ForecastDay is one day of forecast, including astronomy and the
// sampled hourly highlights.
type ForecastDay struct {
	Location     string
	Date         string
	Condition    string
	MaxTempC     float64
	MinTempC     float64
	AvgTempC     float64
	RainChance   int
	TotalPrecip  float64
	MaxWindKPH   float64
	Sunrise      string
	Sunset       string
	MoonPhase    string
	Hours        []ForecastHour
}

// ForecastHour is a single sampled hour of a day forecast.
type ForecastHour struct {
	Time       string
	TempC      float64
	Condition  string
	RainChance int
	WindKPH    float64
}

// Package weather fetches current conditions and forecasts from
// weatherapi.com and resolves the caller's location via ipinfo.io.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *zap.Logger
	now        func() time.Time
}

func New(httpClient *http.Client, apiKey, baseURL string, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

type apiLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type apiCondition struct {
	Text string `json:"text"`
}

type currentResponse struct {
	Location apiLocation `json:"location"`
	Current  struct {
		TempC     float64      `json:"temp_c"`
		FeelsC    float64      `json:"feelslike_c"`
		Condition apiCondition `json:"condition"`
		Humidity  int          `json:"humidity"`
		WindKPH   float64      `json:"wind_kph"`
		WindDir   string       `json:"wind_dir"`
		GustKPH   float64      `json:"gust_kph"`
		VisKM     float64      `json:"vis_km"`
		UV        float64      `json:"uv"`
		PrecipMM  float64      `json:"precip_mm"`
	} `json:"current"`
}

type forecastResponse struct {
	Location apiLocation `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC     float64      `json:"maxtemp_c"`
				MinTempC     float64      `json:"mintemp_c"`
				AvgTempC     float64      `json:"avgtemp_c"`
				MaxWindKPH   float64      `json:"maxwind_kph"`
				TotalPrecip  float64      `json:"totalprecip_mm"`
				RainChance   int          `json:"daily_chance_of_rain"`
				Condition    apiCondition `json:"condition"`
			} `json:"day"`
			Astro struct {
				Sunrise   string `json:"sunrise"`
				Sunset    string `json:"sunset"`
				MoonPhase string `json:"moon_phase"`
			} `json:"astro"`
			Hour []struct {
				Time       string       `json:"time"`
				TempC      float64      `json:"temp_c"`
				Condition  apiCondition `json:"condition"`
				RainChance int          `json:"chance_of_rain"`
				WindKPH    float64      `json:"wind_kph"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Current fetches current conditions for a location name, postcode or
// "lat,lon" pair.
func (c *Client) Current(ctx context.Context, location string) (*core.CurrentWeather, error) {
	endpoint := fmt.Sprintf("%s/current.json?key=%s&q=%s&aqi=no",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(location))

	var resp currentResponse
	if err := c.fetch(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	return &core.CurrentWeather{
		City:      resp.Location.Name,
		Country:   resp.Location.Country,
		TempC:     resp.Current.TempC,
		FeelsC:    resp.Current.FeelsC,
		Condition: resp.Current.Condition.Text,
		Humidity:  resp.Current.Humidity,
		WindKPH:   resp.Current.WindKPH,
		WindDir:   resp.Current.WindDir,
		GustKPH:   resp.Current.GustKPH,
		VisKM:     resp.Current.VisKM,
		UV:        resp.Current.UV,
		PrecipMM:  resp.Current.PrecipMM,
	}, nil
}

// Forecast fetches the forecast for a location. date is an optional
// YYYY-MM-DD day; when given, the matching day is returned and the
// request asks for enough days to cover it. Without a date the first
// (next) forecast day of a 3-day window is returned. Hourly samples are
// thinned to every third hour.
func (c *Client) Forecast(ctx context.Context, location, date string) (*core.ForecastDay, error) {
	days := 3
	if date != "" {
		target, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
		}
		today := c.now().Truncate(24 * time.Hour)
		diff := int(target.Sub(today).Hours() / 24)
		if diff < 0 {
			diff = -diff
		}
		days = diff + 1
		if days > 14 {
			days = 14
		}
	}

	endpoint := fmt.Sprintf("%s/forecast.json?key=%s&q=%s&days=%d&aqi=no&alerts=no",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(location), days)

	var resp forecastResponse
	if err := c.fetch(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if len(resp.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("no forecast data for %q", location)
	}

	chosen := resp.Forecast.ForecastDay[0]
	if date != "" {
		for _, fd := range resp.Forecast.ForecastDay {
			if fd.Date == date {
				chosen = fd
				break
			}
		}
	}

	day := &core.ForecastDay{
		Location:    resp.Location.Name,
		Date:        chosen.Date,
		Condition:   chosen.Day.Condition.Text,
		MaxTempC:    chosen.Day.MaxTempC,
		MinTempC:    chosen.Day.MinTempC,
		AvgTempC:    chosen.Day.AvgTempC,
		RainChance:  chosen.Day.RainChance,
		TotalPrecip: chosen.Day.TotalPrecip,
		MaxWindKPH:  chosen.Day.MaxWindKPH,
		Sunrise:     chosen.Astro.Sunrise,
		Sunset:      chosen.Astro.Sunset,
		MoonPhase:   chosen.Astro.MoonPhase,
	}

	for i := 0; i < len(chosen.Hour); i += 3 {
		h := chosen.Hour[i]
		day.Hours = append(day.Hours, core.ForecastHour{
			Time:       h.Time,
			TempC:      h.TempC,
			Condition:  h.Condition.Text,
			RainChance: h.RainChance,
			WindKPH:    h.WindKPH,
		})
	}

	c.logger.Debug("Forecast fetched",
		zap.String("location", location),
		zap.String("date", day.Date),
		zap.Int("hourlySamples", len(day.Hours)))

	return day, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("weather api returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}

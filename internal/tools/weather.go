package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sidekick/internal/core"
)

// WeatherTools exposes current conditions, forecasts and IP geolocation
// as model-callable tools.
func WeatherTools(weather core.WeatherService, locator core.Locator) []Tool {
	return []Tool{
		currentWeather(weather),
		forecastWeather(weather),
		findLocation(locator),
	}
}

func currentWeather(weather core.WeatherService) Tool {
	type input struct {
		Location string `json:"location"`
	}
	return Tool{
		Name:        "current_weather",
		Vendor:      "weather",
		Description: "Retrieve current weather for a given location.",
		Schema: map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City name to search current weather for",
			},
		},
		Required: []string{"location"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if args.Location == "" {
				return "", fmt.Errorf("location must not be empty, use find_location first")
			}

			w, err := weather.Current(ctx, args.Location)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf(
				"Current Weather in %s, %s:\n"+
					"Temperature: %g°C (Feels like %g°C)\n"+
					"Condition: %s\n"+
					"Humidity: %d%%\n"+
					"Wind: %g km/h %s (Gusts up to %g km/h)\n"+
					"Visibility: %g km\n"+
					"UV Index: %g\n"+
					"Precipitation: %g mm",
				w.City, w.Country, w.TempC, w.FeelsC, w.Condition, w.Humidity,
				w.WindKPH, w.WindDir, w.GustKPH, w.VisKM, w.UV, w.PrecipMM), nil
		},
	}
}

func forecastWeather(weather core.WeatherService) Tool {
	type input struct {
		Location string `json:"location"`
		Date     string `json:"date"`
	}
	return Tool{
		Name:        "forecast_weather",
		Vendor:      "weather",
		Description: "Retrieve the weather forecast for a given location and optional date.",
		Schema: map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City name to search the weather forecast for",
			},
			"date": map[string]any{
				"type":        "string",
				"description": "Specific date for the forecast (YYYY-MM-DD)",
			},
		},
		Required: []string{"location"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
			if args.Location == "" {
				return "", fmt.Errorf("location must not be empty, use find_location first")
			}

			day, err := weather.Forecast(ctx, args.Location, args.Date)
			if err != nil {
				return "", err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Weather Forecast for %s on %s:\n", day.Location, day.Date)
			fmt.Fprintf(&b, "Day Condition: %s\n", day.Condition)
			fmt.Fprintf(&b, "Max Temperature: %g°C\n", day.MaxTempC)
			fmt.Fprintf(&b, "Min Temperature: %g°C\n", day.MinTempC)
			fmt.Fprintf(&b, "Average Temperature: %g°C\n", day.AvgTempC)
			fmt.Fprintf(&b, "Chance of Rain: %d%%\n", day.RainChance)
			fmt.Fprintf(&b, "Total Precipitation: %g mm\n", day.TotalPrecip)
			fmt.Fprintf(&b, "Max Wind Speed: %g km/h\n", day.MaxWindKPH)
			fmt.Fprintf(&b, "Sunrise: %s\n", day.Sunrise)
			fmt.Fprintf(&b, "Sunset: %s\n", day.Sunset)
			fmt.Fprintf(&b, "Moon Phase: %s\n", day.MoonPhase)

			b.WriteString("\nHourly Forecast Highlights:")
			for _, h := range day.Hours {
				// Keep only the clock part of "2026-08-24 15:00".
				clock := h.Time
				if fields := strings.Fields(h.Time); len(fields) > 1 {
					clock = fields[len(fields)-1]
				}
				fmt.Fprintf(&b, "\n%s: %g°C, %s, Rain Chance: %d%%, Wind: %g km/h",
					clock, h.TempC, h.Condition, h.RainChance, h.WindKPH)
			}

			return b.String(), nil
		},
	}
}

func findLocation(locator core.Locator) Tool {
	return Tool{
		Name:        "find_location",
		Vendor:      "weather",
		Description: "Retrieve the current location of the user if no location was specified in the query.",
		Schema:      map[string]any{},
		Run: func(ctx context.Context, _ json.RawMessage) (string, error) {
			loc, err := locator.Locate(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("City: %s\nRegion: %s\nCountry: %s",
				loc.City, loc.Region, loc.Country), nil
		},
	}
}

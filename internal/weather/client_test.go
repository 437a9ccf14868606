package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 24, 15, 0, 0, 0, time.UTC)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.Client(), "test-key", srv.URL, zap.NewNop())
	c.now = fixedNow
	return c
}

func TestCurrent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "test-key" {
			t.Errorf("key = %q", q.Get("key"))
		}
		if q.Get("q") != "Zurich" {
			t.Errorf("q = %q", q.Get("q"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"location": map[string]any{"name": "Zurich", "country": "Switzerland"},
			"current": map[string]any{
				"temp_c":      21.5,
				"feelslike_c": 20.0,
				"condition":   map[string]string{"text": "Partly cloudy"},
				"humidity":    60,
				"wind_kph":    12.3,
				"wind_dir":    "NW",
			},
		})
	})

	current, err := client.Current(context.Background(), "Zurich")
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if current.City != "Zurich" || current.Country != "Switzerland" {
		t.Errorf("unexpected location %q, %q", current.City, current.Country)
	}
	if current.TempC != 21.5 || current.Condition != "Partly cloudy" {
		t.Errorf("unexpected conditions %+v", current)
	}
}

func forecastPayload(dates ...string) map[string]any {
	days := make([]map[string]any, 0, len(dates))
	for _, d := range dates {
		hours := make([]map[string]any, 0, 24)
		for h := range 24 {
			hours = append(hours, map[string]any{
				"time":           d,
				"temp_c":         15.0 + float64(h),
				"condition":      map[string]string{"text": "Sunny"},
				"chance_of_rain": h,
				"wind_kph":       5.0,
			})
		}
		days = append(days, map[string]any{
			"date": d,
			"day": map[string]any{
				"maxtemp_c":            25.0,
				"mintemp_c":            14.0,
				"avgtemp_c":            19.5,
				"maxwind_kph":          20.0,
				"totalprecip_mm":       0.4,
				"daily_chance_of_rain": 35,
				"condition":            map[string]string{"text": "Sunny"},
			},
			"astro": map[string]any{
				"sunrise":    "06:32 AM",
				"sunset":     "08:14 PM",
				"moon_phase": "Waxing Gibbous",
			},
			"hour": hours,
		})
	}
	return map[string]any{
		"location": map[string]any{"name": "Zurich", "country": "Switzerland"},
		"forecast": map[string]any{"forecastday": days},
	}
}

func TestForecast_DefaultsToNextDay(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "3" {
			t.Errorf("days = %q, want 3 without a date", got)
		}
		json.NewEncoder(w).Encode(forecastPayload("2026-08-24", "2026-08-25", "2026-08-26"))
	})

	day, err := client.Forecast(context.Background(), "Zurich", "")
	if err != nil {
		t.Fatalf("Forecast() error: %v", err)
	}
	if day.Date != "2026-08-24" {
		t.Errorf("Date = %q, want the first forecast day", day.Date)
	}
	if day.Sunrise != "06:32 AM" || day.MoonPhase != "Waxing Gibbous" {
		t.Errorf("astronomy missing: %+v", day)
	}
	// 24 hourly entries thinned to every third hour.
	if len(day.Hours) != 8 {
		t.Errorf("hourly samples = %d, want 8", len(day.Hours))
	}
}

func TestForecast_RequestsEnoughDaysForTargetDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("days"); got != "3" {
			t.Errorf("days = %q, want 3 for a date two days out", got)
		}
		json.NewEncoder(w).Encode(forecastPayload("2026-08-24", "2026-08-25", "2026-08-26"))
	})

	day, err := client.Forecast(context.Background(), "Zurich", "2026-08-26")
	if err != nil {
		t.Fatalf("Forecast() error: %v", err)
	}
	if day.Date != "2026-08-26" {
		t.Errorf("Date = %q, want the requested day", day.Date)
	}
}

func TestForecast_FallsBackToFirstDayWhenDateMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(forecastPayload("2026-08-24"))
	})

	day, err := client.Forecast(context.Background(), "Zurich", "2026-08-25")
	if err != nil {
		t.Fatalf("Forecast() error: %v", err)
	}
	if day.Date != "2026-08-24" {
		t.Errorf("Date = %q, want fallback to the first returned day", day.Date)
	}
}

func TestForecast_RejectsBadDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an invalid date")
	})

	if _, err := client.Forecast(context.Background(), "Zurich", "next tuesday"); err == nil {
		t.Fatal("Forecast() accepted an invalid date")
	}
}

func TestLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"city":    "Zurich",
			"region":  "Zurich",
			"country": "CH",
		})
	}))
	defer srv.Close()

	locator := NewIPLocator(srv.Client(), srv.URL, zap.NewNop())
	loc, err := locator.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if loc.City != "Zurich" || loc.Country != "CH" {
		t.Errorf("unexpected location %+v", loc)
	}
}

func TestCurrent_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"No matching location found."}}`, http.StatusBadRequest)
	})

	if _, err := client.Current(context.Background(), "Nowhereville"); err == nil {
		t.Fatal("Current() succeeded on a 400")
	}
}

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

// IPLocator resolves the machine's approximate location from its public
// IP via ipinfo.io. Used when a weather query names no location.
type IPLocator struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewIPLocator(httpClient *http.Client, baseURL string, logger *zap.Logger) *IPLocator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &IPLocator{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

func (l *IPLocator) Locate(ctx context.Context) (*core.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation api returned %s", resp.Status)
	}

	var payload struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	loc := &core.Location{
		City:    payload.City,
		Region:  payload.Region,
		Country: payload.Country,
	}

	l.logger.Debug("Resolved location from IP",
		zap.String("city", loc.City),
		zap.String("country", loc.Country))

	return loc, nil
}

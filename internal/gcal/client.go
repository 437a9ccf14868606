// Package gcal is a thin REST client for the Google Calendar API.
package gcal

import (
	"bytes"
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

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// DefaultCalendarID is used when a caller does not name a calendar.
const DefaultCalendarID = "primary"

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	now        func() time.Time
}

// New wraps an OAuth-authenticated HTTP client.
func New(httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		logger:     logger,
		now:        time.Now,
	}
}

// NewWithBaseURL overrides the API endpoint, for tests.
func NewWithBaseURL(httpClient *http.Client, baseURL string, logger *zap.Logger) *Client {
	c := New(httpClient, logger)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type calendarListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
	} `json:"items"`
}

type apiEvent struct {
	ID          string        `json:"id,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	Description string        `json:"description,omitempty"`
	Start       *apiEventTime `json:"start,omitempty"`
	End         *apiEventTime `json:"end,omitempty"`
	HTMLLink    string        `json:"htmlLink,omitempty"`
}

type apiEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

func (t *apiEventTime) display() string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

type eventListResponse struct {
	Items []apiEvent `json:"items"`
}

func convertEvent(e apiEvent) core.Event {
	return core.Event{
		ID:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Start:       e.Start.display(),
		End:         e.End.display(),
		HTMLLink:    e.HTMLLink,
	}
}

// ListCalendars returns the calendars on the user's calendar list.
func (c *Client) ListCalendars(ctx context.Context) ([]core.Calendar, error) {
	var resp calendarListResponse
	if err := c.do(ctx, http.MethodGet, "/users/me/calendarList", nil, &resp); err != nil {
		return nil, err
	}

	calendars := make([]core.Calendar, 0, len(resp.Items))
	for _, item := range resp.Items {
		calendars = append(calendars, core.Calendar{ID: item.ID, Summary: item.Summary})
	}
	return calendars, nil
}

// ListUpcomingEvents returns events between now and daysAhead days from
// now, ordered by start time with recurring events expanded.
func (c *Client) ListUpcomingEvents(ctx context.Context, calendarID string, maxResults, daysAhead int) ([]core.Event, error) {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if daysAhead <= 0 {
		daysAhead = 30
	}

	now := c.now().UTC()
	q := url.Values{}
	q.Set("timeMin", now.Format(time.RFC3339))
	q.Set("timeMax", now.AddDate(0, 0, daysAhead).Format(time.RFC3339))
	q.Set("maxResults", fmt.Sprint(maxResults))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	path := fmt.Sprintf("/calendars/%s/events?%s", url.PathEscape(calendarID), q.Encode())

	var resp eventListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	events := make([]core.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		events = append(events, convertEvent(item))
	}

	c.logger.Debug("Listed upcoming events",
		zap.String("calendar", calendarID),
		zap.Int("count", len(events)))

	return events, nil
}

// CreateEvent inserts an event with RFC 3339 start and end times,
// interpreted as UTC when no offset is given.
func (c *Client) CreateEvent(ctx context.Context, calendarID, summary, description, startTime, endTime string) (*core.Event, error) {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	body := apiEvent{
		Summary:     summary,
		Description: description,
		Start:       &apiEventTime{DateTime: startTime, TimeZone: "UTC"},
		End:         &apiEventTime{DateTime: endTime, TimeZone: "UTC"},
	}

	path := fmt.Sprintf("/calendars/%s/events", url.PathEscape(calendarID))

	var created apiEvent
	if err := c.do(ctx, http.MethodPost, path, body, &created); err != nil {
		return nil, err
	}

	c.logger.Info("Event created",
		zap.String("calendar", calendarID),
		zap.String("id", created.ID),
		zap.String("summary", created.Summary))

	event := convertEvent(created)
	return &event, nil
}

// UpdateEvent applies the non-nil fields of changes to an existing
// event. The event is fetched first so unchanged fields survive the
// PUT.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, changes core.EventChanges) (*core.Event, error) {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))

	var current apiEvent
	if err := c.do(ctx, http.MethodGet, path, nil, &current); err != nil {
		return nil, err
	}

	if changes.Summary != nil {
		current.Summary = *changes.Summary
	}
	if changes.Description != nil {
		current.Description = *changes.Description
	}
	if changes.StartTime != nil {
		current.Start = &apiEventTime{DateTime: *changes.StartTime, TimeZone: "UTC"}
	}
	if changes.EndTime != nil {
		current.End = &apiEventTime{DateTime: *changes.EndTime, TimeZone: "UTC"}
	}

	var updated apiEvent
	if err := c.do(ctx, http.MethodPut, path, current, &updated); err != nil {
		return nil, err
	}

	c.logger.Info("Event updated",
		zap.String("calendar", calendarID),
		zap.String("id", eventID))

	event := convertEvent(updated)
	return &event, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if calendarID == "" {
		calendarID = DefaultCalendarID
	}

	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}

	c.logger.Info("Event deleted",
		zap.String("calendar", calendarID),
		zap.String("id", eventID))
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("calendar api returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode calendar response: %w", err)
	}
	return nil
}

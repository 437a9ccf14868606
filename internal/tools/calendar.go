package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sidekick/internal/core"
)

// CalendarTools exposes the Google Calendar operations as model-callable
// tools.
func CalendarTools(cal core.CalendarService) []Tool {
	return []Tool{
		listCalendars(cal),
		listUpcomingEvents(cal),
		createEvent(cal),
		updateEvent(cal),
		deleteEvent(cal),
	}
}

func listCalendars(cal core.CalendarService) Tool {
	return Tool{
		Name:        "list_calendars",
		Vendor:      "gcal",
		Description: "List all available calendars in the Google Calendar account.",
		Schema:      map[string]any{},
		Run: func(ctx context.Context, _ json.RawMessage) (string, error) {
			calendars, err := cal.ListCalendars(ctx)
			if err != nil {
				return "", err
			}
			if len(calendars) == 0 {
				return "No calendars found.", nil
			}

			var b strings.Builder
			b.WriteString("Available Calendars:\n")
			for i, c := range calendars {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "- %s (ID: %s)", c.Summary, c.ID)
			}
			return b.String(), nil
		},
	}
}

func listUpcomingEvents(cal core.CalendarService) Tool {
	type input struct {
		CalendarID string `json:"calendar_id"`
		MaxResults int    `json:"max_results"`
		DaysAhead  int    `json:"days_ahead"`
	}
	return Tool{
		Name:        "list_upcoming_events",
		Vendor:      "gcal",
		Description: "List upcoming events for a specific or primary calendar.",
		Schema: map[string]any{
			"calendar_id": map[string]any{
				"type":        "string",
				"description": "ID of the calendar to list events from (default: primary)",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum number of events to retrieve (default 10)",
			},
			"days_ahead": map[string]any{
				"type":        "integer",
				"description": "Number of days to look ahead for events (default 30)",
			},
		},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &args); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
			}
			if args.DaysAhead <= 0 {
				args.DaysAhead = 30
			}

			events, err := cal.ListUpcomingEvents(ctx, args.CalendarID, args.MaxResults, args.DaysAhead)
			if err != nil {
				return "", err
			}
			if len(events) == 0 {
				return fmt.Sprintf("No upcoming events found in the next %d days.", args.DaysAhead), nil
			}

			entries := make([]string, 0, len(events))
			for i, e := range events {
				entries = append(entries, fmt.Sprintf(
					"%d. Summary: %s\n   Start: %s\n   End: %s\n   Event ID: %s",
					i+1, e.Summary, e.Start, e.End, e.ID))
			}
			return "Upcoming Events:\n" + strings.Join(entries, "\n\n"), nil
		},
	}
}

func createEvent(cal core.CalendarService) Tool {
	type input struct {
		Summary     string `json:"summary"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
		Description string `json:"description"`
		CalendarID  string `json:"calendar_id"`
	}
	return Tool{
		Name:        "create_event",
		Vendor:      "gcal",
		Description: "Create a new event in the specified calendar.",
		Schema: map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "Event title",
			},
			"start_time": map[string]any{
				"type":        "string",
				"description": "Start time of the event (ISO format: YYYY-MM-DDTHH:MM:SS)",
			},
			"end_time": map[string]any{
				"type":        "string",
				"description": "End time of the event (ISO format: YYYY-MM-DDTHH:MM:SS)",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Event description",
			},
			"calendar_id": map[string]any{
				"type":        "string",
				"description": "ID of the calendar to create the event in (default: primary)",
			},
		},
		Required: []string{"summary", "start_time", "end_time"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			event, err := cal.CreateEvent(ctx, args.CalendarID, args.Summary, args.Description,
				args.StartTime, args.EndTime)
			if err != nil {
				return "", err
			}

			link := event.HTMLLink
			if link == "" {
				link = "No link available"
			}
			return fmt.Sprintf("Event created successfully!\nEvent ID: %s\nEvent Link: %s",
				event.ID, link), nil
		},
	}
}

func updateEvent(cal core.CalendarService) Tool {
	type input struct {
		EventID     string  `json:"event_id"`
		CalendarID  string  `json:"calendar_id"`
		Summary     *string `json:"summary"`
		StartTime   *string `json:"start_time"`
		EndTime     *string `json:"end_time"`
		Description *string `json:"description"`
	}
	return Tool{
		Name:        "update_event",
		Vendor:      "gcal",
		Description: "Update an existing event in the specified calendar. Only the provided fields change.",
		Schema: map[string]any{
			"event_id": map[string]any{
				"type":        "string",
				"description": "ID of the event to update",
			},
			"calendar_id": map[string]any{
				"type":        "string",
				"description": "ID of the calendar (default: primary)",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "New event title",
			},
			"start_time": map[string]any{
				"type":        "string",
				"description": "New start time (ISO format: YYYY-MM-DDTHH:MM:SS)",
			},
			"end_time": map[string]any{
				"type":        "string",
				"description": "New end time (ISO format: YYYY-MM-DDTHH:MM:SS)",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "New event description",
			},
		},
		Required: []string{"event_id"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			changes := core.EventChanges{
				Summary:     args.Summary,
				Description: args.Description,
				StartTime:   args.StartTime,
				EndTime:     args.EndTime,
			}

			event, err := cal.UpdateEvent(ctx, args.CalendarID, args.EventID, changes)
			if err != nil {
				return "", err
			}

			link := event.HTMLLink
			if link == "" {
				link = "No link available"
			}
			return fmt.Sprintf("Event updated successfully!\nEvent ID: %s\nEvent Link: %s",
				event.ID, link), nil
		},
	}
}

func deleteEvent(cal core.CalendarService) Tool {
	type input struct {
		EventID    string `json:"event_id"`
		CalendarID string `json:"calendar_id"`
	}
	return Tool{
		Name:        "delete_event",
		Vendor:      "gcal",
		Description: "Delete an existing event from the specified calendar.",
		Schema: map[string]any{
			"event_id": map[string]any{
				"type":        "string",
				"description": "ID of the event to delete",
			},
			"calendar_id": map[string]any{
				"type":        "string",
				"description": "ID of the calendar (default: primary)",
			},
		},
		Required: []string{"event_id"},
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var args input
			if err := json.Unmarshal(raw, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}

			calendarID := args.CalendarID
			if calendarID == "" {
				calendarID = "primary"
			}

			if err := cal.DeleteEvent(ctx, calendarID, args.EventID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Event with ID %s deleted successfully from calendar %s.",
				args.EventID, calendarID), nil
		},
	}
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"sidekick/internal/player"
)

type searchAndPlayInput struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
}

// MusicTools exposes the search-and-play procedure as a model-callable
// tool.
func MusicTools(p *player.Player) []Tool {
	return []Tool{
		{
			Name:   "search_and_play",
			Vendor: "spotify",
			Description: "Search Spotify for a song and start playback. " +
				"The query may name an artist, e.g. \"Imagine by John Lennon\" or \"Imagine - John Lennon\".",
			Schema: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search term, optionally including the artist",
				},
				"search_type": map[string]any{
					"type":        "string",
					"description": "Override the search type (default: track)",
				},
			},
			Required: []string{"query"},
			Run: func(ctx context.Context, input json.RawMessage) (string, error) {
				var args searchAndPlayInput
				if err := json.Unmarshal(input, &args); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				if args.Query == "" {
					return "", fmt.Errorf("query must not be empty")
				}

				result := p.SearchAndPlay(ctx, args.Query, args.SearchType)
				return result.Message, nil
			},
		},
	}
}

// Package llm adapts chat-completion providers to a single tool-using
// conversation interface.
package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

const systemPrompt = `You are a helpful personal assistant with access to the user's Spotify,
Gmail, Google Calendar and a weather service through tools.

Rules:
- Use tools whenever the request touches music, email, calendar, weather or location.
- When a weather request names no location, call find_location first.
- Prefer a single precise tool call over guessing; report tool failures honestly.
- Answer in plain text, concisely.`

// ToolSpec describes one callable tool to a provider.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]any
	Required    []string
}

// Executor runs a tool call requested by the model and returns its
// plain-text result.
type Executor func(ctx context.Context, name string, input json.RawMessage) string

// Chatter is a tool-using conversation with one provider. Implementations
// keep the message history internally, in the provider's native format.
type Chatter interface {
	// Converse sends a user message, resolves any tool calls through
	// exec, and returns the model's final text reply.
	Converse(ctx context.Context, userText string, tools []ToolSpec, exec Executor) (string, error)
	// Reset drops the conversation history.
	Reset()
}

// NewChatter builds the configured provider.
func NewChatter(config *core.LLMConfig, logger *zap.Logger) (Chatter, error) {
	switch config.Provider {
	case "anthropic":
		return NewAnthropicChatter(config, logger)
	case "openai":
		return NewOpenAIChatter(config, logger)
	case "none", "":
		return &NoOpChatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

// NoOpChatter rejects every conversation. Used when no provider is
// configured, so the direct subcommands still work.
type NoOpChatter struct{}

func (n *NoOpChatter) Converse(context.Context, string, []ToolSpec, Executor) (string, error) {
	return "", fmt.Errorf("LLM provider not configured")
}

func (n *NoOpChatter) Reset() {}

// Package agent connects the language model to the tool registry.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sidekick/internal/core"
	"sidekick/internal/llm"
	"sidekick/internal/tools"
)

type Agent struct {
	chatter  llm.Chatter
	registry *tools.Registry
	history  core.HistoryStore
	logger   *zap.Logger
}

type Option func(*Agent)

// WithHistory attaches the session playback history so Reset can clear
// it along with the conversation.
func WithHistory(h core.HistoryStore) Option {
	return func(a *Agent) { a.history = h }
}

func New(chatter llm.Chatter, registry *tools.Registry, logger *zap.Logger, opts ...Option) *Agent {
	a := &Agent{
		chatter:  chatter,
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleMessage runs one user turn: the model sees the registered tools,
// tool calls are dispatched through the registry, and the model's final
// text comes back.
func (a *Agent) HandleMessage(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty message")
	}

	specs := a.specs()
	a.logger.Debug("Handling message",
		zap.Int("length", len(text)),
		zap.Int("tools", len(specs)))

	reply, err := a.chatter.Converse(ctx, text, specs,
		func(ctx context.Context, name string, input json.RawMessage) string {
			return a.registry.Dispatch(ctx, name, input)
		})
	if err != nil {
		return "", fmt.Errorf("conversation failed: %w", err)
	}

	return reply, nil
}

// Reset drops the conversation history and the session playback history.
func (a *Agent) Reset() {
	a.chatter.Reset()
	if a.history != nil {
		a.history.Clear()
	}
}

func (a *Agent) specs() []llm.ToolSpec {
	list := a.registry.List()
	specs := make([]llm.ToolSpec, 0, len(list))
	for _, t := range list {
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			Schema:      t.Schema,
			Required:    t.Required,
		})
	}
	return specs
}

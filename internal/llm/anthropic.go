package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"sidekick/internal/core"
)

const anthropicDefaultModel = "claude-sonnet-4-20250514"

type AnthropicChatter struct {
	config  *core.LLMConfig
	logger  *zap.Logger
	client  *anthropic.Client
	history []anthropic.MessageParam
}

func NewAnthropicChatter(config *core.LLMConfig, logger *zap.Logger) (*AnthropicChatter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var opts []option.RequestOption
	opts = append(opts, option.WithAPIKey(config.APIKey))

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicChatter{
		config: config,
		logger: logger,
		client: &client,
	}, nil
}

func (a *AnthropicChatter) model() string {
	if a.config.Model != "" {
		return a.config.Model
	}
	return anthropicDefaultModel
}

func (a *AnthropicChatter) Reset() {
	a.history = nil
}

func (a *AnthropicChatter) Converse(ctx context.Context, userText string, tools []ToolSpec, exec Executor) (string, error) {
	a.history = append(a.history, anthropic.NewUserMessage(anthropic.NewTextBlock(userText)))

	toolParams := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, spec := range tools {
		tp := anthropic.ToolParam{
			Name:        spec.Name,
			Description: anthropic.String(spec.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: spec.Schema,
				Required:   spec.Required,
			},
		}
		toolParams = append(toolParams, anthropic.ToolUnionParam{OfTool: &tp})
	}

	maxTurns := a.config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 8
	}

	var finalText string
	for turn := 0; turn < maxTurns; turn++ {
		message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(a.model()),
			MaxTokens: 1024,
			System: []anthropic.TextBlockParam{{
				Type: "text",
				Text: systemPrompt,
			}},
			Messages: a.history,
			Tools:    toolParams,
		})
		if err != nil {
			return "", fmt.Errorf("Anthropic API call failed: %w", err)
		}

		a.history = append(a.history, message.ToParam())

		finalText = ""
		var toolResults []anthropic.ContentBlockParamUnion
		for _, block := range message.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				finalText += variant.Text
			case anthropic.ToolUseBlock:
				a.logger.Debug("Tool requested",
					zap.String("tool", variant.Name),
					zap.String("id", variant.ID))
				result := exec(ctx, variant.Name, json.RawMessage(variant.JSON.Input.Raw()))
				toolResults = append(toolResults,
					anthropic.NewToolResultBlock(variant.ID, result, false))
			}
		}

		if message.StopReason != anthropic.StopReasonToolUse {
			return finalText, nil
		}

		a.history = append(a.history, anthropic.NewUserMessage(toolResults...))
	}

	a.logger.Warn("Tool-use loop hit the turn limit", zap.Int("maxTurns", maxTurns))
	return finalText, nil
}

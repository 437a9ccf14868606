package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"

	"sidekick/internal/core"
)

const openAIDefaultModel = "gpt-4o-mini"

type OpenAIChatter struct {
	config  *core.LLMConfig
	logger  *zap.Logger
	client  *openai.Client
	history []openai.ChatCompletionMessageParamUnion
}

func NewOpenAIChatter(config *core.LLMConfig, logger *zap.Logger) (*OpenAIChatter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	var opts []option.RequestOption
	opts = append(opts, option.WithAPIKey(config.APIKey))

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAIChatter{
		config: config,
		logger: logger,
		client: &client,
	}, nil
}

func (o *OpenAIChatter) getModel() shared.ChatModel {
	if o.config.Model != "" {
		return o.config.Model
	}
	return openAIDefaultModel
}

func (o *OpenAIChatter) Reset() {
	o.history = nil
}

func (o *OpenAIChatter) Converse(ctx context.Context, userText string, tools []ToolSpec, exec Executor) (string, error) {
	if len(o.history) == 0 {
		o.history = append(o.history, openai.SystemMessage(systemPrompt))
	}
	o.history = append(o.history, openai.UserMessage(userText))

	toolParams := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, spec := range tools {
		toolParams = append(toolParams, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: openai.String(spec.Description),
				Parameters: shared.FunctionParameters{
					"type":       "object",
					"properties": spec.Schema,
					"required":   spec.Required,
				},
			},
		})
	}

	maxTurns := o.config.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 8
	}

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: o.history,
			Model:    o.getModel(),
			Tools:    toolParams,
		})
		if err != nil {
			return "", fmt.Errorf("OpenAI API call failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from OpenAI")
		}

		choice := resp.Choices[0]
		o.history = append(o.history, choice.Message.ToParam())

		if len(choice.Message.ToolCalls) == 0 {
			return choice.Message.Content, nil
		}

		for _, call := range choice.Message.ToolCalls {
			o.logger.Debug("Tool requested",
				zap.String("tool", call.Function.Name),
				zap.String("id", call.ID))
			result := exec(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			o.history = append(o.history, openai.ToolMessage(result, call.ID))
		}
	}

	o.logger.Warn("Tool-use loop hit the turn limit", zap.Int("maxTurns", o.config.MaxTurns))
	return "", fmt.Errorf("conversation exceeded %d tool turns", maxTurns)
}

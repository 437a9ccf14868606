package llm

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"sidekick/internal/core"
)

func TestNewChatter_Providers(t *testing.T) {
	tests := []struct {
		name    string
		config  core.LLMConfig
		wantErr bool
	}{
		{
			name:   "none provider",
			config: core.LLMConfig{Provider: "none"},
		},
		{
			name:   "empty provider defaults to none",
			config: core.LLMConfig{Provider: ""},
		},
		{
			name:   "anthropic with key",
			config: core.LLMConfig{Provider: "anthropic", APIKey: "sk-test"},
		},
		{
			name:    "anthropic without key",
			config:  core.LLMConfig{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:   "openai with key",
			config: core.LLMConfig{Provider: "openai", APIKey: "sk-test"},
		},
		{
			name:    "openai without key",
			config:  core.LLMConfig{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "unsupported provider",
			config:  core.LLMConfig{Provider: "cohere"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatter, err := NewChatter(&tt.config, zap.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewChatter() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewChatter() error: %v", err)
			}
			if chatter == nil {
				t.Fatal("NewChatter() returned nil chatter")
			}
		})
	}
}

func TestNoOpChatter_RejectsConversations(t *testing.T) {
	var c NoOpChatter
	if _, err := c.Converse(context.Background(), "hello", nil, nil); err == nil {
		t.Fatal("NoOpChatter.Converse() succeeded, want error")
	}
}

package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/plugin/ai/timeout"
)

func TestNewConfigFromProfile(t *testing.T) {
	tests := []struct {
		name        string
		prof        *profile.Profile
		wantEnabled bool
		wantModel   string
		wantBaseURL string
	}{
		{
			name:        "DeepSeek defaults",
			prof:        &profile.Profile{LLMProvider: "deepseek", LLMAPIKey: "k"},
			wantEnabled: true,
			wantModel:   DefaultDeepSeekModel,
			wantBaseURL: DefaultDeepSeekBaseURL,
		},
		{
			name:        "OpenAI explicit model",
			prof:        &profile.Profile{LLMProvider: "openai", LLMAPIKey: "k", LLMModel: "gpt-4.1"},
			wantEnabled: true,
			wantModel:   "gpt-4.1",
			wantBaseURL: DefaultOpenAIBaseURL,
		},
		{
			name:        "Anthropic",
			prof:        &profile.Profile{LLMProvider: "anthropic", LLMAPIKey: "k"},
			wantEnabled: true,
			wantModel:   DefaultAnthropicModel,
		},
		{
			name: "Disabled",
			prof: &profile.Profile{LLMProvider: "none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfigFromProfile(tt.prof)
			assert.Equal(t, tt.wantEnabled, cfg.Enabled())
			assert.NoError(t, cfg.Validate())
			if !tt.wantEnabled {
				return
			}
			assert.Equal(t, tt.wantModel, cfg.Model)
			assert.Equal(t, tt.wantBaseURL, cfg.BaseURL)
			assert.Equal(t, 64, cfg.MaxTokens)
			assert.Equal(t, timeout.ModelTimeout, cfg.Timeout)
			assert.Equal(t, timeout.MaxRetries, cfg.MaxRetries)
		})
	}
}

func TestNewConfigFromProfile_Timeout(t *testing.T) {
	cfg := NewConfigFromProfile(&profile.Profile{LLMProvider: "openai", LLMAPIKey: "k", ModelTimeout: 3 * time.Second})
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}

func TestLLMConfig_Validate(t *testing.T) {
	assert.Error(t, (&LLMConfig{Provider: "openai", Model: "m"}).Validate())
	assert.Error(t, (&LLMConfig{Provider: "openai", APIKey: "k"}).Validate())
	assert.Error(t, (&LLMConfig{Provider: "ollama", APIKey: "k", Model: "m"}).Validate())
	assert.NoError(t, (&LLMConfig{Provider: "none"}).Validate())
}

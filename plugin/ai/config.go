package ai

import (
	"errors"
	"time"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/plugin/ai/timeout"
)

// Default endpoints and models per provider.
const (
	DefaultOpenAIBaseURL   = "https://api.openai.com/v1"
	DefaultDeepSeekBaseURL = "https://api.deepseek.com"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultDeepSeekModel   = "deepseek-chat"
	DefaultAnthropicModel  = "claude-3-5-haiku-latest"
)

// LLMConfig represents LLM configuration.
type LLMConfig struct {
	Provider    string // openai, deepseek, anthropic
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	MaxRetries  int
	Timeout     time.Duration
}

// Enabled reports whether a provider is set.
func (c *LLMConfig) Enabled() bool {
	return c != nil && c.Provider != "" && c.Provider != "none"
}

// NewConfigFromProfile derives the LLM configuration from the profile,
// filling provider defaults for empty fields.
func NewConfigFromProfile(p *profile.Profile) *LLMConfig {
	cfg := &LLMConfig{
		Provider:   p.LLMProvider,
		Model:      p.LLMModel,
		APIKey:     p.LLMAPIKey,
		BaseURL:    p.LLMBaseURL,
		MaxTokens:  p.LLMMaxTokens,
		MaxRetries: timeout.MaxRetries,
		Timeout:    p.ModelTimeout,
	}
	if !p.IsLLMEnabled() {
		cfg.Provider = "none"
		return cfg
	}

	switch cfg.Provider {
	case "deepseek":
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultDeepSeekBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = DefaultDeepSeekModel
		}
	case "openai":
		if cfg.BaseURL == "" {
			cfg.BaseURL = DefaultOpenAIBaseURL
		}
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
	case "anthropic":
		if cfg.Model == "" {
			cfg.Model = DefaultAnthropicModel
		}
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeout.ModelTimeout
	}
	return cfg
}

// Validate validates the configuration.
func (c *LLMConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	switch c.Provider {
	case "openai", "deepseek", "anthropic":
	default:
		return errors.New("unsupported LLM provider: " + c.Provider)
	}
	if c.APIKey == "" {
		return errors.New("LLM API key is required")
	}
	if c.Model == "" {
		return errors.New("LLM model is required")
	}
	return nil
}

package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// CompletionRequest is a single non-streaming completion call.
// Zero Model, Temperature or MaxTokens fall back to the service configuration,
// except Temperature which is always sent as given.
type CompletionRequest struct {
	Messages    []Message
	Model       string
	Temperature float32
	MaxTokens   int
}

// LLMService is the LLM service interface.
type LLMService interface {
	// Complete returns the text of the first completion choice.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewLLMService creates a new LLMService for the configured provider.
func NewLLMService(cfg *LLMConfig) (LLMService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil LLM config")
	}
	switch cfg.Provider {
	case "openai", "deepseek":
		return newOpenAIService(cfg), nil
	case "anthropic":
		return newAnthropicService(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// FormatMessages builds a system + user exchange.
func FormatMessages(systemPrompt string, userContent string) []Message {
	messages := []Message{}
	if systemPrompt != "" {
		messages = append(messages, SystemPrompt(systemPrompt))
	}
	return append(messages, UserMessage(userContent))
}

// permanent wraps a non-retryable error so the retry loop stops at once.
func permanent(err error) error {
	return backoff.Permanent(err)
}

// newRetryBackoff returns a fresh exponential policy capped at maxRetries attempts.
func newRetryBackoff(ctx context.Context, maxRetries int) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 0
	if maxRetries < 1 {
		maxRetries = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx)
}

// doWithRetry executes fn with exponential backoff.
func doWithRetry(ctx context.Context, provider string, maxRetries int, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return fn()
	}, newRetryBackoff(ctx, maxRetries), func(err error, wait time.Duration) {
		slog.Debug("LLM request failed, retrying",
			slog.String("provider", provider),
			slog.Int("attempt", attempt),
			slog.Duration("wait_time", wait),
			slog.String("error", err.Error()))
	})
}

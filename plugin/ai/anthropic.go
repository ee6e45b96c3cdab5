package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicService struct {
	client anthropic.Client
	config *LLMConfig
}

func newAnthropicService(cfg *LLMConfig) *anthropicService {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are driven by doWithRetry.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicService{
		client: anthropic.NewClient(opts...),
		config: cfg,
	}
}

func (s *anthropicService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(firstNonEmpty(req.Model, s.config.Model)),
		MaxTokens:   int64(firstPositive(req.MaxTokens, s.config.MaxTokens, 64)),
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	var result string
	err := doWithRetry(ctx, s.config.Provider, s.config.MaxRetries, func() error {
		message, err := s.client.Messages.New(ctx, params)
		if err != nil {
			if !isRetryableAnthropic(err) {
				return permanent(err)
			}
			return err
		}
		for _, block := range message.Content {
			if block.Type == "text" {
				result = block.Text
				return nil
			}
		}
		return permanent(fmt.Errorf("unexpected response format: no text block"))
	})
	if err != nil {
		return "", fmt.Errorf("failed to complete message: %w", err)
	}
	return result, nil
}

func isRetryableAnthropic(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// openAIService serves OpenAI and DeepSeek, which share the chat completion API.
type openAIService struct {
	client *openai.Client
	config *LLMConfig
}

func newOpenAIService(cfg *LLMConfig) *openAIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAIService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

func (s *openAIService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       firstNonEmpty(req.Model, s.config.Model),
		Messages:    messages,
		MaxTokens:   firstPositive(req.MaxTokens, s.config.MaxTokens),
		Temperature: wireTemperature(req.Temperature),
	}

	var result string
	err := doWithRetry(ctx, s.config.Provider, s.config.MaxRetries, func() error {
		resp, err := s.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			if !isRetryableOpenAI(err) {
				return permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return permanent(fmt.Errorf("empty chat response"))
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}
	return result, nil
}

// wireTemperature keeps a requested zero temperature on the wire; the client
// drops a literal 0 because the field is omitempty.
func wireTemperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func isRetryableOpenAI(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

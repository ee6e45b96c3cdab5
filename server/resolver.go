package server

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/plugin/ai"
	"github.com/hrygo/fechador/plugin/ai/aitime"
)

// PolicyFromProfile maps the profile's policy keys onto an aitime.Policy.
func PolicyFromProfile(p *profile.Profile) (aitime.Policy, error) {
	policy := aitime.Policy{
		WeekendSkip:              p.WeekendSkip,
		DefaultHour:              p.DefaultHour,
		MorningWindow:            p.MorningWindow,
		MorningWindowWeekday:     p.MorningWeekday(),
		AmbiguousHourPMThreshold: p.AmbiguousHourPMThreshold,
		CorrectPastWeekdays:      p.CorrectPastWeekdays,
		AssignDefaultHour:        p.AssignDefaultHour,
		PromoteAmbiguousHour:     p.PromoteAmbiguousHour,
	}
	if err := policy.Validate(); err != nil {
		return aitime.Policy{}, errors.Wrap(err, "invalid policy")
	}
	return policy, nil
}

// NewResolver builds the resolution pipeline for the profile. The model
// fallback is wired only when a provider is configured.
func NewResolver(p *profile.Profile, metrics aitime.MetricsRecorder) (*aitime.Service, error) {
	policy, err := PolicyFromProfile(p)
	if err != nil {
		return nil, err
	}

	var opts []aitime.Option
	if metrics != nil {
		opts = append(opts, aitime.WithMetrics(metrics))
	}

	cfg := ai.NewConfigFromProfile(p)
	if cfg.Enabled() {
		if err := cfg.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid LLM config")
		}
		llm, err := ai.NewLLMService(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create LLM service")
		}
		opts = append(opts, aitime.WithLLM(llm, aitime.FallbackOptions{
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
			CacheSize: p.FallbackCacheSize,
			CacheTTL:  p.FallbackCacheTTL,
		}))
		slog.Info("model fallback enabled", slog.String("provider", cfg.Provider), slog.String("model", cfg.Model))
	}

	return aitime.NewService(policy, p.Location(), opts...)
}

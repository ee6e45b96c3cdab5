package aitime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrygo/fechador/plugin/ai"
	"github.com/hrygo/fechador/plugin/ai/cache"
)

// ErrInvalidRequest reports a request the pipeline cannot run on.
var ErrInvalidRequest = errors.New("invalid resolution request")

// MetricsRecorder receives resolution events.
type MetricsRecorder interface {
	RecordResolution(kind OutcomeKind, provenance Provenance, lang Language, elapsed time.Duration)
	RecordFallback(kind FallbackKind)
}

// Service implements TimeService.
type Service struct {
	policy          Policy
	defaultLocation *time.Location

	parser    *BaseParser
	corrector *Corrector
	fallback  *FallbackResolver
	metrics   MetricsRecorder
}

// Option configures a Service.
type Option func(*serviceConfig)

type serviceConfig struct {
	llm          ai.LLMService
	fallbackOpts FallbackOptions
	metrics      MetricsRecorder
}

// WithLLM enables Catalan translation and the model fallback.
func WithLLM(llm ai.LLMService, opts FallbackOptions) Option {
	return func(c *serviceConfig) {
		c.llm = llm
		c.fallbackOpts = opts
	}
}

// WithMetrics records every resolution on m.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

// NewService creates a resolver. defaultLocation applies to requests without a zone.
func NewService(policy Policy, defaultLocation *time.Location, opts ...Option) (*Service, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}

	var cfg serviceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Service{
		policy:          policy,
		defaultLocation: defaultLocation,
		corrector:       NewCorrector(policy),
		metrics:         cfg.metrics,
	}
	if cfg.llm != nil {
		s.parser = NewBaseParser(NewModelTranslator(cfg.llm))
		s.fallback = NewFallbackResolver(cfg.llm, policy, cfg.fallbackOpts)
	} else {
		s.parser = NewBaseParser(nil)
	}
	return s, nil
}

// Policy returns the policy the service was built with.
func (s *Service) Policy() Policy {
	return s.policy
}

// DefaultLocation returns the zone used for requests without one.
func (s *Service) DefaultLocation() *time.Location {
	return s.defaultLocation
}

// FallbackEnabled reports whether a model is configured.
func (s *Service) FallbackEnabled() bool {
	return s.fallback != nil
}

// FallbackCacheStats reports the fallback answer cache usage.
func (s *Service) FallbackCacheStats() cache.Stats {
	if s.fallback == nil {
		return cache.Stats{}
	}
	return s.fallback.CacheStats()
}

// PurgeFallbackCache drops expired fallback answers. It returns the number removed.
func (s *Service) PurgeFallbackCache() int {
	if s.fallback == nil {
		return 0
	}
	return s.fallback.PurgeExpired()
}

// Resolve runs the pipeline. The only error is ErrInvalidRequest for a missing
// reference; every per-stage failure falls through to the next stage.
func (s *Service) Resolve(ctx context.Context, req Request) (Outcome, error) {
	if req.Reference.IsZero() {
		return Outcome{}, fmt.Errorf("%w: reference instant is required", ErrInvalidRequest)
	}

	start := time.Now()
	outcome := s.resolve(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordResolution(outcome.Kind, outcome.Moment.Provenance, outcome.Language, time.Since(start))
	}
	return outcome, nil
}

func (s *Service) resolve(ctx context.Context, req Request) Outcome {
	loc := req.Location
	if loc == nil {
		loc = s.defaultLocation
	}
	ref := req.Reference.In(loc)
	expression := req.Expression

	lang := DetectLanguage(expression)
	if !IsTemporallyClear(expression) {
		slog.Debug("expression has no temporal content", slog.String("expression", expression))
		return undefinedOutcome(lang)
	}

	if t, rule, ok := Preprocess(expression, ref, s.policy); ok {
		slog.Debug("pattern rule matched", slog.String("rule", rule), slog.Time("resolved", t))
		return resolvedOutcome(Moment{Time: t, Provenance: ProvenancePattern}, lang)
	}

	candidate, ok := s.parser.Parse(ctx, expression, ref, lang)
	if !ok {
		slog.Debug("base parser found no date", slog.String("expression", expression), slog.String("language", string(lang)))
		if s.fallback == nil {
			return unresolvedOutcome(lang)
		}
		res := s.runFallback(ctx, expression, ref, loc)
		switch res.Kind {
		case FallbackResolved:
			return resolvedOutcome(Moment{Time: res.Time, Provenance: ProvenanceFallback}, lang)
		case FallbackUndefined:
			return undefinedOutcome(lang)
		default:
			return unresolvedOutcome(lang)
		}
	}

	moment, applied := s.corrector.correct(candidate, ref, expression)
	if len(applied) > 0 {
		slog.Debug("candidate corrected",
			slog.Time("candidate", candidate),
			slog.Time("corrected", moment.Time),
			slog.Any("rules", applied))
	}

	if moment.Time.Before(ref) && s.fallback != nil {
		if res := s.runFallback(ctx, expression, ref, loc); res.Kind == FallbackResolved {
			return resolvedOutcome(Moment{Time: res.Time, Provenance: ProvenanceFallback}, lang)
		}
	}
	return resolvedOutcome(moment, lang)
}

func (s *Service) runFallback(ctx context.Context, expression string, ref time.Time, loc *time.Location) FallbackResult {
	res := s.fallback.Resolve(ctx, expression, ref, loc)
	if s.metrics != nil {
		s.metrics.RecordFallback(res.Kind)
	}
	slog.Debug("model fallback finished", slog.String("result", res.Kind.String()))
	return res
}

var _ TimeService = (*Service)(nil)

package aitime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/sync/singleflight"

	"github.com/hrygo/fechador/plugin/ai"
	"github.com/hrygo/fechador/plugin/ai/cache"
	"github.com/hrygo/fechador/plugin/ai/timeout"
)

// FallbackKind tags a FallbackResult.
type FallbackKind int

const (
	// FallbackNone means the model gave no usable answer.
	FallbackNone FallbackKind = iota
	// FallbackResolved means Time is valid.
	FallbackResolved
	// FallbackUndefined means the model answered with the sentinel.
	FallbackUndefined
)

func (k FallbackKind) String() string {
	switch k {
	case FallbackResolved:
		return "resolved"
	case FallbackUndefined:
		return "undefined"
	default:
		return "none"
	}
}

// FallbackResult is the model's verdict on one expression.
type FallbackResult struct {
	Kind FallbackKind
	Time time.Time
}

// FallbackOptions tunes a FallbackResolver. Zero values use defaults.
type FallbackOptions struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// FallbackResolver resolves expressions with the language model as a last resort.
// Identical concurrent requests share one model call and answers are memoized.
type FallbackResolver struct {
	llm     ai.LLMService
	policy  Policy
	opts    FallbackOptions
	answers *cache.LRU[FallbackResult]
	group   singleflight.Group
}

// NewFallbackResolver creates a resolver backed by llm.
func NewFallbackResolver(llm ai.LLMService, policy Policy, opts FallbackOptions) *FallbackResolver {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 64
	}
	if opts.Timeout <= 0 {
		opts.Timeout = timeout.ModelTimeout
	}
	return &FallbackResolver{
		llm:     llm,
		policy:  policy,
		opts:    opts,
		answers: cache.NewLRU[FallbackResult](opts.CacheSize, opts.CacheTTL),
	}
}

// Resolve asks the model for the date-time of expression. It never returns
// an error: transport failures, timeouts and unparseable answers yield FallbackNone.
// The call is detached from ctx cancellation and bounded by the configured timeout.
func (f *FallbackResolver) Resolve(ctx context.Context, expression string, ref time.Time, loc *time.Location) FallbackResult {
	if loc == nil {
		loc = ref.Location()
	}
	ref = ref.In(loc)
	key := expression + "\x00" + ref.Format(time.RFC3339Nano) + "\x00" + loc.String()

	if res, ok := f.answers.Get(key); ok {
		return res
	}

	v, _, _ := f.group.Do(key, func() (any, error) {
		res := f.call(ctx, expression, ref, loc)
		if res.Kind != FallbackNone {
			f.answers.Set(key, res, 0)
		}
		return res, nil
	})
	return v.(FallbackResult)
}

// CacheStats reports the answer cache usage.
func (f *FallbackResolver) CacheStats() cache.Stats {
	return f.answers.Stats()
}

// PurgeExpired drops expired answers and returns how many were removed.
func (f *FallbackResolver) PurgeExpired() int {
	return f.answers.Purge()
}

func (f *FallbackResolver) call(ctx context.Context, expression string, ref time.Time, loc *time.Location) FallbackResult {
	prompt, err := renderFallbackPrompt(expression, ref, f.policy)
	if err != nil {
		slog.Error("failed to render fallback prompt", slog.String("error", err.Error()))
		return FallbackResult{Kind: FallbackNone}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.opts.Timeout)
	defer cancel()

	raw, err := f.llm.Complete(ctx, ai.CompletionRequest{
		Messages:    []ai.Message{ai.UserMessage(prompt)},
		Model:       f.opts.Model,
		Temperature: 0,
		MaxTokens:   f.opts.MaxTokens,
	})
	if err != nil {
		slog.Warn("model fallback unavailable",
			slog.String("expression", timeout.Truncate(expression)),
			slog.String("error", err.Error()))
		return FallbackResult{Kind: FallbackNone}
	}

	res := parseFallbackAnswer(raw, loc)
	if res.Kind == FallbackNone {
		slog.Warn("unparseable model answer", slog.String("answer", timeout.Truncate(raw)))
	}
	return res
}

// parseFallbackAnswer interprets the raw model text in loc.
func parseFallbackAnswer(raw string, loc *time.Location) FallbackResult {
	answer := cleanModelText(raw)
	if answer == "" {
		return FallbackResult{Kind: FallbackNone}
	}
	if strings.EqualFold(answer, Sentinel) || strings.EqualFold(strings.ReplaceAll(answer, " ", "_"), Sentinel) {
		return FallbackResult{Kind: FallbackUndefined}
	}

	if t, err := time.Parse(time.RFC3339, answer); err == nil {
		return FallbackResult{Kind: FallbackResolved, Time: t.In(loc)}
	}
	t, err := dateparse.ParseIn(answer, loc)
	if err != nil {
		return FallbackResult{Kind: FallbackNone}
	}
	return FallbackResult{Kind: FallbackResolved, Time: t.In(loc)}
}

package aitime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedResolution struct {
	kind       OutcomeKind
	provenance Provenance
	lang       Language
}

type fakeMetrics struct {
	mu          sync.Mutex
	resolutions []recordedResolution
	fallbacks   []FallbackKind
}

func (m *fakeMetrics) RecordResolution(kind OutcomeKind, provenance Provenance, lang Language, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions = append(m.resolutions, recordedResolution{kind, provenance, lang})
}

func (m *fakeMetrics) RecordFallback(kind FallbackKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, kind)
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(DefaultPolicy(), madrid(t), opts...)
	require.NoError(t, err)
	return svc
}

func resolve(t *testing.T, svc *Service, expression string, ref time.Time) (Outcome, Result) {
	t.Helper()
	outcome, err := svc.Resolve(context.Background(), Request{Expression: expression, Reference: ref, Location: ref.Location()})
	require.NoError(t, err)
	return outcome, Assemble(outcome, ref)
}

func TestService_Scenarios(t *testing.T) {
	svc := newTestService(t)

	t.Run("weekday with bare hour", func(t *testing.T) {
		outcome, res := resolve(t, svc, "el viernes a las 7", tuesdayRef(t))
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, "2025-11-07", res.Date)
		assert.Equal(t, "19:00", res.Time)
		assert.Equal(t, "viernes", res.Weekday)
		assert.False(t, res.IsWeekend)
		assert.False(t, res.IsPast)
		assert.Equal(t, ProvenanceCorrected, outcome.Moment.Provenance)
	})

	t.Run("day after tomorrow keeps time of day", func(t *testing.T) {
		outcome, res := resolve(t, svc, "pasado mañana", tuesdayRef(t))
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, "2025-11-06", res.Date)
		assert.Equal(t, "09:00", res.Time)
		assert.False(t, res.IsPast)
		assert.Equal(t, ProvenancePattern, outcome.Moment.Provenance)
	})

	t.Run("friday next saturday skips to monday", func(t *testing.T) {
		_, res := resolve(t, svc, "el sábado que viene", fridayRef(t))
		assert.Equal(t, "2025-11-10", res.Date)
		assert.Equal(t, "lunes", res.Weekday)
		assert.Equal(t, "12:00", res.Time)
		assert.False(t, res.IsWeekend)
	})

	t.Run("greeting is undefined", func(t *testing.T) {
		outcome, res := resolve(t, svc, "hola", tuesdayRef(t))
		assert.Equal(t, Undefined, outcome.Kind)
		assert.Equal(t, SentinelValue, res.Date)
		assert.False(t, res.IsWeekend)
		assert.False(t, res.IsPast)
	})

	t.Run("weekday of next week", func(t *testing.T) {
		ref := tuesdayRef(t)
		outcome, res := resolve(t, svc, "el martes de la semana que viene", ref)
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, "2025-11-11", res.Date)
		assert.GreaterOrEqual(t, outcome.Moment.Time.Sub(ref), 7*24*time.Hour-9*time.Hour)
	})
}

func TestService_Catalan(t *testing.T) {
	svc := newTestService(t)

	outcome, res := resolve(t, svc, "dijous a les 5 de la tarda", tuesdayRef(t))
	require.Equal(t, Resolved, outcome.Kind)
	assert.Equal(t, LanguageCatalan, outcome.Language)
	assert.Equal(t, "2025-11-06", res.Date)
	assert.Equal(t, "17:00", res.Time)
	assert.Equal(t, "dijous", res.Weekday)

	_, res = resolve(t, svc, "dissabte", tuesdayRef(t))
	assert.Equal(t, "2025-11-08", res.Date)
	assert.Equal(t, "12:00", res.Time)
	assert.True(t, res.IsWeekend)

	outcome, res = resolve(t, svc, "dilluns 15:30", tuesdayRef(t))
	require.Equal(t, Resolved, outcome.Kind)
	assert.Equal(t, ProvenanceCorrected, outcome.Moment.Provenance)
	assert.Equal(t, "2025-11-10", res.Date)
	assert.Equal(t, "15:30", res.Time)
	assert.Equal(t, "dilluns", res.Weekday)
}

func TestService_RequestZone(t *testing.T) {
	svc := newTestService(t)
	utcRef := time.Date(2025, 11, 4, 8, 0, 0, 0, time.UTC)

	outcome, err := svc.Resolve(context.Background(), Request{Expression: "mañana a las 10", Reference: utcRef, Location: madrid(t)})
	require.NoError(t, err)
	res := Assemble(outcome, utcRef)
	assert.Equal(t, "2025-11-05T10:00:00+01:00", res.ISO)

	canary, err := time.LoadLocation("Atlantic/Canary")
	require.NoError(t, err)
	outcome, err = svc.Resolve(context.Background(), Request{Expression: "mañana a las 10", Reference: utcRef, Location: canary})
	require.NoError(t, err)
	assert.Equal(t, "2025-11-05T10:00:00+00:00", Assemble(outcome, utcRef).ISO)
}

func TestService_DefaultZone(t *testing.T) {
	svc := newTestService(t)
	utcRef := time.Date(2025, 11, 4, 8, 0, 0, 0, time.UTC)

	outcome, err := svc.Resolve(context.Background(), Request{Expression: "hoy a las 18:00", Reference: utcRef})
	require.NoError(t, err)
	assert.Equal(t, "2025-11-04T18:00:00+01:00", Assemble(outcome, utcRef).ISO)
}

func TestService_Unresolved(t *testing.T) {
	svc := newTestService(t)
	outcome, _ := resolve(t, svc, "quiero una cita", tuesdayRef(t))
	assert.Equal(t, Unresolved, outcome.Kind)
}

func TestService_MissingReference(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Resolve(context.Background(), Request{Expression: "mañana"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestService_InvalidPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.DefaultHour = 25
	_, err := NewService(p, nil)
	assert.Error(t, err)
}

func TestService_ModelFallback(t *testing.T) {
	ref := tuesdayRef(t)

	t.Run("parser miss resolved by model", func(t *testing.T) {
		llm := NewMockLLM(map[string]string{"víspera de Navidad": "2025-12-24T12:00:00+01:00"})
		metrics := &fakeMetrics{}
		svc := newTestService(t, WithLLM(llm, FallbackOptions{}), WithMetrics(metrics))

		outcome, res := resolve(t, svc, "la víspera de Navidad", ref)
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, ProvenanceFallback, outcome.Moment.Provenance)
		assert.Equal(t, "2025-12-24", res.Date)
		assert.Equal(t, []FallbackKind{FallbackResolved}, metrics.fallbacks)
		assert.Equal(t, []recordedResolution{{Resolved, ProvenanceFallback, LanguageSpanish}}, metrics.resolutions)
	})

	t.Run("parser miss with sentinel is undefined", func(t *testing.T) {
		svc := newTestService(t, WithLLM(&MockLLM{Default: Sentinel}, FallbackOptions{}))
		outcome, _ := resolve(t, svc, "cuando puedas", ref)
		assert.Equal(t, Undefined, outcome.Kind)
	})

	t.Run("parser miss with model failure is unresolved", func(t *testing.T) {
		svc := newTestService(t, WithLLM(&MockLLM{Err: errors.New("down")}, FallbackOptions{}))
		outcome, _ := resolve(t, svc, "cuando puedas", ref)
		assert.Equal(t, Unresolved, outcome.Kind)
	})

	t.Run("past result replaced by model", func(t *testing.T) {
		llm := NewMockLLM(map[string]string{"Expresión: ayer": "2025-11-05T12:00:00+01:00"})
		svc := newTestService(t, WithLLM(llm, FallbackOptions{}))
		outcome, _ := resolve(t, svc, "ayer", ref)
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, ProvenanceFallback, outcome.Moment.Provenance)
	})

	t.Run("past result kept when model has nothing", func(t *testing.T) {
		svc := newTestService(t, WithLLM(&MockLLM{Default: Sentinel}, FallbackOptions{}))
		outcome, res := resolve(t, svc, "ayer", ref)
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, "2025-11-03", res.Date)
		assert.True(t, res.IsPast)
	})

	t.Run("future result never consults model", func(t *testing.T) {
		llm := &MockLLM{Default: "2030-01-01T00:00:00+01:00"}
		svc := newTestService(t, WithLLM(llm, FallbackOptions{}))
		_, res := resolve(t, svc, "el viernes a las 7", ref)
		assert.Equal(t, "2025-11-07", res.Date)
		assert.Empty(t, llm.Calls())
	})

	t.Run("greeting never consults model", func(t *testing.T) {
		llm := &MockLLM{Default: "2030-01-01T00:00:00+01:00"}
		svc := newTestService(t, WithLLM(llm, FallbackOptions{}))
		outcome, _ := resolve(t, svc, "buenas tardes", ref)
		assert.Equal(t, Undefined, outcome.Kind)
		assert.Empty(t, llm.Calls())
	})
}

func TestService_Properties(t *testing.T) {
	svc := newTestService(t)
	base := tuesdayRef(t)

	t.Run("idempotent", func(t *testing.T) {
		for _, expression := range []string{"el viernes a las 7", "pasado mañana", "el lunes", "en 3 días", "hola"} {
			a, _ := resolve(t, svc, expression, base)
			b, _ := resolve(t, svc, expression, base)
			assert.Equal(t, a, b, expression)
		}
	})

	t.Run("weekday phrases never resolve to the past", func(t *testing.T) {
		days := []string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"}
		for offset := 0; offset < 7; offset++ {
			ref := base.AddDate(0, 0, offset)
			for _, day := range days {
				for _, expression := range []string{"el " + day, "el " + day + " a las 8", "el " + day + " que viene"} {
					outcome, _ := resolve(t, svc, expression, ref)
					require.Equal(t, Resolved, outcome.Kind, expression)
					assert.False(t, outcome.Moment.Time.Before(ref), "%s from %s gave %s", expression, ref, outcome.Moment.Time)
				}
			}
		}
	})

	t.Run("day counts may land on a weekend", func(t *testing.T) {
		outcome, res := resolve(t, svc, "en 4 días", base)
		require.Equal(t, Resolved, outcome.Kind)
		assert.Equal(t, "2025-11-08", res.Date)
		assert.Equal(t, "09:00", res.Time)
		assert.True(t, res.IsWeekend)
	})

	t.Run("iso round trip", func(t *testing.T) {
		for _, expression := range []string{"el viernes a las 7", "mañana a las 10:30", "dentro de 2 semanas"} {
			outcome, res := resolve(t, svc, expression, base)
			parsed, err := time.Parse(time.RFC3339, res.ISO)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(outcome.Moment.Time), expression)
		}
	})

	t.Run("monotonic over reference", func(t *testing.T) {
		for _, expression := range []string{"el viernes", "el lunes a las 7", "el martes que viene"} {
			prev, _ := resolve(t, svc, expression, base)
			for offset := 1; offset < 10; offset++ {
				next, _ := resolve(t, svc, expression, base.AddDate(0, 0, offset))
				assert.False(t, next.Moment.Time.Before(prev.Moment.Time), "%s offset %d", expression, offset)
				prev = next
			}
		}
	})
}

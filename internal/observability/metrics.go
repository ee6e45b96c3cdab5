package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hrygo/fechador/plugin/ai/aitime"
)

// Metrics aggregates resolution counters per outcome, provenance and language.
type Metrics struct {
	mu sync.Mutex

	requestTotal atomic.Int64
	resolved     atomic.Int64
	undefined    atomic.Int64
	unresolved   atomic.Int64

	stages    map[string]*StageMetrics
	languages map[string]*atomic.Int64
	fallbacks map[string]*atomic.Int64

	// Recent durations, oldest first.
	durations    []time.Duration
	maxDurations int
}

// StageMetrics counts the resolutions one stage produced.
type StageMetrics struct {
	count         atomic.Int64
	totalDuration atomic.Int64 // microseconds
}

// NewMetrics creates a collector keeping the last maxDurations latencies.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		stages:       make(map[string]*StageMetrics),
		languages:    make(map[string]*atomic.Int64),
		fallbacks:    make(map[string]*atomic.Int64),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

// RecordResolution implements aitime.MetricsRecorder.
func (m *Metrics) RecordResolution(kind aitime.OutcomeKind, provenance aitime.Provenance, lang aitime.Language, elapsed time.Duration) {
	m.requestTotal.Add(1)
	switch kind {
	case aitime.Resolved:
		m.resolved.Add(1)
	case aitime.Undefined:
		m.undefined.Add(1)
	default:
		m.unresolved.Add(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if kind == aitime.Resolved {
		sm := m.stageLocked(string(provenance))
		sm.count.Add(1)
		sm.totalDuration.Add(elapsed.Microseconds())
	}
	counterLocked(m.languages, string(lang)).Add(1)

	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, elapsed)
}

// RecordFallback implements aitime.MetricsRecorder.
func (m *Metrics) RecordFallback(kind aitime.FallbackKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counterLocked(m.fallbacks, kind.String()).Add(1)
}

// GetRequestTotal returns the number of resolutions recorded.
func (m *Metrics) GetRequestTotal() int64 {
	return m.requestTotal.Load()
}

// stageLocked gets or creates stage metrics. Caller holds m.mu.
func (m *Metrics) stageLocked(name string) *StageMetrics {
	sm, ok := m.stages[name]
	if !ok {
		sm = &StageMetrics{}
		m.stages[name] = sm
	}
	return sm
}

func counterLocked(counters map[string]*atomic.Int64, key string) *atomic.Int64 {
	c, ok := counters[key]
	if !ok {
		c = &atomic.Int64{}
		counters[key] = c
	}
	return c
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.resolved.Store(0)
	m.undefined.Store(0)
	m.unresolved.Store(0)

	m.mu.Lock()
	m.stages = make(map[string]*StageMetrics)
	m.languages = make(map[string]*atomic.Int64)
	m.fallbacks = make(map[string]*atomic.Int64)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	stages := make(map[string]*StageSnapshot, len(m.stages))
	for name, sm := range m.stages {
		count := sm.count.Load()
		var avg int64
		if count > 0 {
			avg = sm.totalDuration.Load() / count
		}
		stages[name] = &StageSnapshot{Count: count, AverageMicros: avg}
	}

	sorted := append([]time.Duration(nil), m.durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &MetricsSnapshot{
		RequestTotal: m.requestTotal.Load(),
		Resolved:     m.resolved.Load(),
		Undefined:    m.undefined.Load(),
		Unresolved:   m.unresolved.Load(),
		Stages:       stages,
		Languages:    loadCounters(m.languages),
		Fallbacks:    loadCounters(m.fallbacks),
		P50Micros:    percentile(sorted, 50).Microseconds(),
		P95Micros:    percentile(sorted, 95).Microseconds(),
	}
}

func loadCounters(counters map[string]*atomic.Int64) map[string]int64 {
	out := make(map[string]int64, len(counters))
	for k, c := range counters {
		out[k] = c.Load()
	}
	return out
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p + 99) / 100
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}

// MetricsSnapshot is a point-in-time view of the metrics.
type MetricsSnapshot struct {
	RequestTotal int64                     `json:"request_total"`
	Resolved     int64                     `json:"resolved"`
	Undefined    int64                     `json:"undefined"`
	Unresolved   int64                     `json:"unresolved"`
	Stages       map[string]*StageSnapshot `json:"stages"`
	Languages    map[string]int64          `json:"languages"`
	Fallbacks    map[string]int64          `json:"fallbacks"`
	P50Micros    int64                     `json:"p50_us"`
	P95Micros    int64                     `json:"p95_us"`
}

// StageSnapshot is the view of one stage.
type StageSnapshot struct {
	Count         int64 `json:"count"`
	AverageMicros int64 `json:"avg_us"`
}

// ResolutionRate returns the share of requests resolved to a date, 0-100.
func (s *MetricsSnapshot) ResolutionRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.Resolved) / float64(s.RequestTotal) * 100.0
}

var _ aitime.MetricsRecorder = (*Metrics)(nil)

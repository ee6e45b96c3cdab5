package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/fechador/plugin/ai/cache"
	ierrors "github.com/hrygo/fechador/server/internal/errors"
	"github.com/hrygo/fechador/internal/observability"
	"github.com/hrygo/fechador/store"
)

const (
	defaultJournalLimit = 20
	maxJournalLimit     = 500
)

// MetricsResponse is the metrics body.
type MetricsResponse struct {
	Resolutions     *observability.MetricsSnapshot `json:"resolutions"`
	ResolutionRate  float64                        `json:"resolution_rate"`
	FallbackEnabled bool                           `json:"fallback_enabled"`
	FallbackCache   cache.Stats                    `json:"fallback_cache"`
	UptimeSeconds   int64                          `json:"uptime_seconds"`
}

// GetMetrics returns resolution counters.
// GET /api/v1/metrics
func (s *APIV1Service) GetMetrics(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsResponse{
		Resolutions:     snapshot,
		ResolutionRate:  snapshot.ResolutionRate(),
		FallbackEnabled: s.Resolver.FallbackEnabled(),
		FallbackCache:   s.Resolver.FallbackCacheStats(),
		UptimeSeconds:   int64(time.Since(s.startTime).Seconds()),
	})
}

// JournalEntry is one journal row on the wire.
type JournalEntry struct {
	ID         int64  `json:"id"`
	RequestID  string `json:"request_id"`
	Expression string `json:"expresion_usuario"`
	Reference  string `json:"referencia"`
	Zone       string `json:"zona_horaria"`
	Language   string `json:"idioma"`
	Outcome    string `json:"resultado"`
	Provenance string `json:"origen,omitempty"`
	ISO        string `json:"iso_datetime,omitempty"`
	CreatedTs  int64  `json:"created_ts"`
}

// ListJournal returns the most recent journal rows.
// GET /api/v1/journal?limit=N&outcome=resolved
func (s *APIV1Service) ListJournal(c echo.Context) error {
	if s.Store == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: true, Mensaje: "el diario de resoluciones no está habilitado"})
	}

	limit := defaultJournalLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return writeError(c, ierrors.InvalidArgument("limit debe ser un entero positivo"))
		}
		limit = min(n, maxJournalLimit)
	}
	find := &store.FindResolution{Limit: &limit}
	if outcome := c.QueryParam("outcome"); outcome != "" {
		find.Outcome = &outcome
	}

	list, err := s.Store.ListResolutions(c.Request().Context(), find)
	if err != nil {
		return writeError(c, ierrors.Internal(err.Error(), err))
	}

	entries := make([]JournalEntry, 0, len(list))
	for _, r := range list {
		entries = append(entries, JournalEntry{
			ID:         r.ID,
			RequestID:  r.RequestID,
			Expression: r.Expression,
			Reference:  r.Reference,
			Zone:       r.Zone,
			Language:   r.Language,
			Outcome:    r.Outcome,
			Provenance: r.Provenance,
			ISO:        r.ISO,
			CreatedTs:  r.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, entries)
}

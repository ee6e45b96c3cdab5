package v1

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/plugin/ai/aitime"
	"github.com/hrygo/fechador/plugin/ai/cache"
	ierrors "github.com/hrygo/fechador/server/internal/errors"
	"github.com/hrygo/fechador/internal/observability"
	ratelimit "github.com/hrygo/fechador/server/middleware"
	"github.com/hrygo/fechador/store"
)

// APIKeyHeader carries the shared API key when one is configured.
const APIKeyHeader = "X-API-Key"

// Resolver is the pipeline the handlers run.
type Resolver interface {
	aitime.TimeService
	DefaultLocation() *time.Location
	FallbackEnabled() bool
	FallbackCacheStats() cache.Stats
}

type APIV1Service struct {
	Profile  *profile.Profile
	Resolver Resolver
	Metrics  *observability.Metrics
	// Store is the resolution journal; nil disables it.
	Store *store.Store

	validator *RequestValidator
	limiter   *ratelimit.RateLimiter
	startTime time.Time
}

func NewAPIV1Service(profile *profile.Profile, resolver Resolver, metrics *observability.Metrics, store *store.Store) *APIV1Service {
	if metrics == nil {
		metrics = observability.NewMetrics(0)
	}
	return &APIV1Service{
		Profile:   profile,
		Resolver:  resolver,
		Metrics:   metrics,
		Store:     store,
		validator: NewRequestValidator(),
		limiter:   ratelimit.NewRateLimiter(profile.RateLimitRPS, profile.RateLimitBurst),
		startTime: time.Now(),
	}
}

// RegisterRoutes mounts the API on e. Health is public; everything else is
// rate limited and, when an API key is configured, authenticated.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	if e.Validator == nil {
		e.Validator = s.validator
	}

	e.GET("/healthz", s.Health)

	guards := []echo.MiddlewareFunc{s.limiter.Middleware()}
	if s.Profile.APIKey != "" {
		guards = append(guards, s.apiKeyAuth())
	}

	e.POST("/resolver", s.Resolve, guards...)

	api := e.Group("/api/v1", guards...)
	api.POST("/resolve", s.Resolve)
	api.GET("/metrics", s.GetMetrics)
	api.GET("/journal", s.ListJournal)
}

func (s *APIV1Service) apiKeyAuth() echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup: "header:" + APIKeyHeader,
		Validator: func(key string, _ echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(s.Profile.APIKey)) == 1, nil
		},
		ErrorHandler: func(_ error, c echo.Context) error {
			return writeError(c, ierrors.Unauthorized("clave de API ausente o no válida"))
		},
	})
}

// ErrorResponse is the boundary error body.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Mensaje string `json:"mensaje"`
}

func writeError(c echo.Context, err *ierrors.ResolverError) error {
	return c.JSON(err.HTTPStatus(), ErrorResponse{Error: true, Mensaje: err.Message})
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	Status          string `json:"status"`
	Version         string `json:"version"`
	FallbackEnabled bool   `json:"fallback_enabled"`
	JournalEnabled  bool   `json:"journal_enabled"`
}

// Health reports liveness.
// GET /healthz
func (s *APIV1Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:          "ok",
		Version:         s.Profile.Version,
		FallbackEnabled: s.Resolver.FallbackEnabled(),
		JournalEnabled:  s.Store != nil,
	})
}

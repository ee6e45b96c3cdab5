package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/fechador/internal/profile"
	"github.com/hrygo/fechador/plugin/ai/aitime"
	"github.com/hrygo/fechador/plugin/ai/timeout"
	"github.com/hrygo/fechador/internal/observability"
	apiv1 "github.com/hrygo/fechador/server/router/api/v1"
	"github.com/hrygo/fechador/store"
)

const (
	maxBodySize = "64K"
	// cacheSweepInterval is how often expired fallback answers are dropped.
	cacheSweepInterval = 5 * time.Minute
)

type Server struct {
	Profile *profile.Profile
	// Store is the resolution journal; nil when disabled.
	Store *store.Store

	Resolver *aitime.Service
	Metrics  *observability.Metrics

	echoServer *echo.Echo
	listener   net.Listener

	stopSweep context.CancelFunc
	sweepDone chan struct{}
}

// NewServer wires the resolver and the HTTP API.
func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	metrics := observability.NewMetrics(1000)
	resolver, err := NewResolver(profile, metrics)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Profile:  profile,
		Store:    store,
		Resolver: resolver,
		Metrics:  metrics,
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	echoServer.Use(middleware.BodyLimit(maxBodySize))
	echoServer.Use(requestLogger())
	s.echoServer = echoServer

	apiV1Service := apiv1.NewAPIV1Service(profile, resolver, metrics, store)
	apiV1Service.RegisterRoutes(echoServer)

	return s, nil
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("http request",
				slog.String(observability.LogFieldRequestID, v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Int64(observability.LogFieldDuration, v.Latency.Milliseconds()))
			return nil
		},
	})
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start listens on the profile address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.Profile.Addr, fmt.Sprint(s.Profile.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.listener = listener

	s.echoServer.Listener = listener
	go func() {
		if err := s.echoServer.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", slog.String("error", err.Error()))
		}
	}()
	if s.Resolver.FallbackEnabled() {
		sweepCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.stopSweep = cancel
		s.sweepDone = make(chan struct{})
		go func() {
			defer close(s.sweepDone)
			s.sweepFallbackCache(sweepCtx, cacheSweepInterval)
		}()
	}

	slog.Info("server listening", slog.String("addr", listener.Addr().String()))
	return nil
}

// sweepFallbackCache drops expired fallback answers every interval until ctx is done.
func (s *Server) sweepFallbackCache(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Resolver.PurgeFallbackCache(); n > 0 {
				slog.Debug("expired fallback answers purged", slog.Int("count", n))
			}
		}
	}
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the HTTP server and closes the journal.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, timeout.ShutdownTimeout)
	defer cancel()

	slog.Info("server shutting down")
	if s.stopSweep != nil {
		s.stopSweep()
		<-s.sweepDone
	}
	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			slog.Error("failed to close journal", slog.String("error", err.Error()))
		}
	}
	slog.Info("server stopped properly")
}

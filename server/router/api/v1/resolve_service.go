package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/fechador/plugin/ai/aitime"
	ierrors "github.com/hrygo/fechador/server/internal/errors"
	"github.com/hrygo/fechador/internal/observability"
	"github.com/hrygo/fechador/server/timezone"
	"github.com/hrygo/fechador/store"
)

const journalTimeout = 2 * time.Second

// ResolveRequest is the resolve request body.
type ResolveRequest struct {
	Reference  string `json:"referencia" validate:"required,rfc3339_offset"`
	Expression string `json:"expresion_usuario" validate:"required,notblank"`
	Zone       string `json:"zona_horaria" validate:"omitempty,iana_zone"`
}

// Resolve resolves one expression.
// POST /api/v1/resolve, POST /resolver
func (s *APIV1Service) Resolve(c echo.Context) error {
	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, ierrors.InvalidArgument("cuerpo JSON no válido"))
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, ierrors.InvalidArgument(s.validator.Message(err)))
	}

	ref, err := timezone.ParseReference(req.Reference)
	if err != nil {
		return writeError(c, ierrors.InvalidArgument("referencia debe ser una fecha ISO 8601 con desfase horario"))
	}
	loc, err := timezone.ParseTimezone(req.Zone, s.Resolver.DefaultLocation())
	if err != nil {
		return writeError(c, ierrors.InvalidArgument("zona_horaria debe ser una zona horaria IANA válida"))
	}

	rc := observability.NewRequestContext(slog.Default(), c.Response().Header().Get(echo.HeaderXRequestID), req.Expression)
	ctx := observability.WithRequestContext(c.Request().Context(), rc)

	outcome, err := s.Resolver.Resolve(ctx, aitime.Request{
		Expression: req.Expression,
		Reference:  ref,
		Location:   loc,
	})
	if err != nil {
		if errors.Is(err, aitime.ErrInvalidRequest) {
			return writeError(c, ierrors.InvalidArgument(err.Error()))
		}
		rc.Error("resolution failed", err)
		return writeError(c, ierrors.Internal(err.Error(), err))
	}

	s.record(ctx, rc, req, loc, outcome)
	rc.Info("expression resolved",
		slog.String(observability.LogFieldZone, loc.String()),
		slog.String(observability.LogFieldOutcome, outcome.Kind.String()),
		slog.String(observability.LogFieldProvenance, string(outcome.Moment.Provenance)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	if outcome.Kind == aitime.Unresolved {
		return writeError(c, ierrors.InterpretationFailed("no se pudo interpretar la expresión temporal"))
	}
	return c.JSON(http.StatusOK, aitime.Assemble(outcome, ref.In(loc)))
}

// record journals the resolution. Failures are logged and never surface.
func (s *APIV1Service) record(ctx context.Context, rc *observability.RequestContext, req ResolveRequest, loc *time.Location, outcome aitime.Outcome) {
	if s.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	r := &store.Resolution{
		RequestID:  rc.RequestID,
		Expression: req.Expression,
		Reference:  req.Reference,
		Zone:       loc.String(),
		Language:   string(outcome.Language),
		Outcome:    outcome.Kind.String(),
	}
	if outcome.Kind == aitime.Resolved {
		r.Provenance = string(outcome.Moment.Provenance)
		r.ISO = outcome.Moment.Time.Format(aitime.ISOLayout)
	}
	if _, err := s.Store.CreateResolution(ctx, r); err != nil {
		rc.Warn("failed to journal resolution",
			slog.String(observability.LogFieldErrorCode, string(ierrors.ErrCodeInternal)),
			slog.String("error", err.Error()))
	}
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// DefaultRPS is the sustained per-client request rate.
	DefaultRPS = 10
	// DefaultBurst is the per-client burst size.
	DefaultBurst = 20
	// idleTTL is how long an unused client limiter is kept.
	idleTTL = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*clientLimiter
	rps    rate.Limit
	burst  int
	now    func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with burst.
// Non-positive values use the defaults.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRPS
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{
		limits: make(map[string]*clientLimiter),
		rps:    rate.Limit(rps),
		burst:  burst,
		now:    time.Now,
	}
}

// getLimiter gets or creates the limiter for key and evicts idle ones.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if cl, ok := rl.limits[key]; ok {
		cl.lastSeen = now
		return cl.limiter
	}

	for k, cl := range rl.limits {
		if now.Sub(cl.lastSeen) > idleTTL {
			delete(rl.limits, k)
		}
	}
	limiter := rate.NewLimiter(rl.rps, rl.burst)
	rl.limits[key] = &clientLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(rl.now(), 1)
}

// Middleware rejects requests over the client's rate with 429 and the
// boundary error body. Clients are keyed by real IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":   true,
					"mensaje": "demasiadas peticiones, inténtalo más tarde",
				})
			}
			return next(c)
		}
	}
}

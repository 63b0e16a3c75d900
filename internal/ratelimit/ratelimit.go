// Package ratelimit caps requests per key over a sliding window. The HTTP
// middleware keys by client IP and guards the unauthenticated routes.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"saasbase/pkg/platform/circuit"
)

// Result is the outcome of one check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is whole seconds until the next request fits; zero when allowed.
	RetryAfter int
	// Degraded is set when the answer came from the in-process fallback.
	Degraded bool
}

// Store consumes cost units from the window at key.
type Store interface {
	AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*Result, error)
}

// Limiter applies one limit to every key. When a fallback is configured,
// failures of the primary store trip a breaker and checks move to the fallback
// until the primary recovers.
type Limiter struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithFallback(store Store, breaker *circuit.Breaker) Option {
	return func(l *Limiter) {
		l.fallback = store
		l.breaker = breaker
	}
}

func NewLimiter(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		primary: store,
		limit:   limit,
		window:  window,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) Limit() int { return l.limit }

// Allow consumes one unit for key. Store errors without a fallback fail open.
func (l *Limiter) Allow(ctx context.Context, key string) *Result {
	res, err := l.primary.AllowN(ctx, key, 1, l.limit, l.window)
	if err != nil {
		return l.onPrimaryError(ctx, key, err)
	}
	if l.breaker == nil {
		return res
	}
	usePrimary, t := l.breaker.Success()
	if t == circuit.Closed {
		l.logger.InfoContext(ctx, "rate limit store recovered", "store", l.breaker.Name())
	}
	if usePrimary {
		return res
	}
	return l.fromFallback(ctx, key)
}

func (l *Limiter) onPrimaryError(ctx context.Context, key string, err error) *Result {
	if l.breaker == nil {
		l.logger.ErrorContext(ctx, "rate limit check failed, allowing request", "error", err)
		return l.open()
	}
	useFallback, t := l.breaker.Failure()
	if t == circuit.Opened {
		l.logger.WarnContext(ctx, "rate limit store unavailable, using in-memory fallback",
			"store", l.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		l.logger.ErrorContext(ctx, "rate limit check failed, allowing request", "error", err)
		return l.open()
	}
	return l.fromFallback(ctx, key)
}

func (l *Limiter) fromFallback(ctx context.Context, key string) *Result {
	res, err := l.fallback.AllowN(ctx, key, 1, l.limit, l.window)
	if err != nil {
		l.logger.ErrorContext(ctx, "fallback rate limit check failed, allowing request", "error", err)
		return l.open()
	}
	res.Degraded = true
	return res
}

func (l *Limiter) open() *Result {
	return &Result{Allowed: true, Limit: l.limit, Remaining: l.limit}
}

func retryAfterSeconds(now, resetAt time.Time) int {
	seconds := int(resetAt.Sub(now).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

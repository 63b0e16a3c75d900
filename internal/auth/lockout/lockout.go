// Package lockout counts failed logins per identifier and refuses further
// attempts once the count reaches the limit within the window.
package lockout

import (
	"context"
	"log/slog"
	"strings"
	"time"

	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/circuit"
)

// Store keeps failure counters. RecordFailure restarts the expiry of the
// counter, so the window slides with each failure.
type Store interface {
	Failures(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	Clear(ctx context.Context, key string) error
}

// Observer is notified when an identifier becomes locked.
type Observer interface {
	IncrementLockouts()
}

// Guard applies the failure limit. When a fallback is configured, failures of
// the primary store trip a breaker and counting moves to the fallback until
// the primary recovers. A check that no store can answer lets the login
// through; the password comparison still runs.
type Guard struct {
	primary     Store
	fallback    Store
	breaker     *circuit.Breaker
	maxFailures int
	window      time.Duration
	observer    Observer
	logger      *slog.Logger
}

type Option func(*Guard)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(g *Guard) {
		g.observer = o
	}
}

func WithFallback(store Store, breaker *circuit.Breaker) Option {
	return func(g *Guard) {
		g.fallback = store
		g.breaker = breaker
	}
}

func New(store Store, maxFailures int, window time.Duration, opts ...Option) *Guard {
	g := &Guard{
		primary:     store,
		maxFailures: maxFailures,
		window:      window,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key identifies a login target. Super-admin logins have no subdomain.
func Key(subdomain, email string) string {
	return strings.ToLower(strings.TrimSpace(subdomain)) + "|" + strings.ToLower(strings.TrimSpace(email))
}

// Check fails with TooManyRequests while the key is locked.
func (g *Guard) Check(ctx context.Context, key string) error {
	var n int
	err := g.run(ctx, func(st Store) (err error) {
		n, err = st.Failures(ctx, key)
		return err
	})
	if err != nil {
		g.logger.WarnContext(ctx, "login failures unreadable, allowing attempt", "error", err)
		return nil
	}
	if n >= g.maxFailures {
		return dErrors.New(dErrors.CodeTooManyRequests, "too many failed login attempts, try again later")
	}
	return nil
}

// Fail records one failed attempt.
func (g *Guard) Fail(ctx context.Context, key string) error {
	var n int
	err := g.run(ctx, func(st Store) (err error) {
		n, err = st.RecordFailure(ctx, key, g.window)
		return err
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login failure")
	}
	if n == g.maxFailures {
		g.logger.WarnContext(ctx, "login locked", "failures", n, "window", g.window.String())
		if g.observer != nil {
			g.observer.IncrementLockouts()
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (g *Guard) Reset(ctx context.Context, key string) error {
	err := g.run(ctx, func(st Store) error {
		return st.Clear(ctx, key)
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear login failures")
	}
	return nil
}

// run applies op to the primary store, or to the fallback while the breaker
// is open. The error is the one no store could recover from.
func (g *Guard) run(ctx context.Context, op func(Store) error) error {
	err := op(g.primary)
	if g.breaker == nil {
		return err
	}
	if err == nil {
		usePrimary, t := g.breaker.Success()
		if t == circuit.Closed {
			g.logger.InfoContext(ctx, "lockout store recovered", "store", g.breaker.Name())
		}
		if usePrimary {
			return nil
		}
		return op(g.fallback)
	}
	useFallback, t := g.breaker.Failure()
	if t == circuit.Opened {
		g.logger.WarnContext(ctx, "lockout store unavailable, using in-memory fallback",
			"store", g.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	return op(g.fallback)
}

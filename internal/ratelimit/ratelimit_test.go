package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"saasbase/pkg/platform/circuit"
	"saasbase/pkg/requestcontext"
)

// flakyStore fails while down is set and otherwise admits everything.
type flakyStore struct {
	down  bool
	calls int
}

func (f *flakyStore) AllowN(_ context.Context, _ string, _, limit int, _ time.Duration) (*Result, error) {
	f.calls++
	if f.down {
		return nil, errors.New("connection refused")
	}
	return &Result{Allowed: true, Limit: limit, Remaining: limit - 1}, nil
}

type LimiterSuite struct {
	suite.Suite
	primary  *flakyStore
	fallback *InMemory
	limiter  *Limiter
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.primary = &flakyStore{}
	s.fallback = newTestStore(newClock())
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))
	s.limiter = NewLimiter(s.primary, 1, time.Minute, WithFallback(s.fallback, breaker))
}

func (s *LimiterSuite) TestFailsOpenBeforeBreakerTrips() {
	s.primary.down = true
	res := s.limiter.Allow(s.T().Context(), "ip")
	s.True(res.Allowed)
	s.False(res.Degraded)
}

func (s *LimiterSuite) TestFallbackWhileOpen() {
	ctx := s.T().Context()
	s.primary.down = true
	s.limiter.Allow(ctx, "ip")

	res := s.limiter.Allow(ctx, "ip")
	s.True(res.Allowed)
	s.True(res.Degraded)

	res = s.limiter.Allow(ctx, "ip")
	s.False(res.Allowed, "the fallback enforces the same limit")
	s.True(res.Degraded)
}

func (s *LimiterSuite) TestRecoversAfterSuccessRun() {
	ctx := s.T().Context()
	s.primary.down = true
	s.limiter.Allow(ctx, "a")
	s.limiter.Allow(ctx, "b")

	s.primary.down = false
	res := s.limiter.Allow(ctx, "c")
	s.True(res.Degraded, "still answering from the fallback while recovering")

	res = s.limiter.Allow(ctx, "d")
	s.False(res.Degraded)
	s.True(res.Allowed)
}

func TestLimiterWithoutFallbackFailsOpen(t *testing.T) {
	l := NewLimiter(&flakyStore{down: true}, 3, time.Minute)
	res := l.Allow(t.Context(), "ip")
	assert.True(t, res.Allowed)
	assert.Equal(t, 3, res.Remaining)
	assert.Equal(t, 3, l.Limit())
}

type countingObserver struct{ scopes []string }

func (o *countingObserver) IncrementRateLimited(scope string) { o.scopes = append(o.scopes, scope) }

func TestPerIPMiddleware(t *testing.T) {
	limiter := NewLimiter(newTestStore(newClock()), 2, time.Minute)
	observer := &countingObserver{}
	handler := PerIP(limiter, "public", nil, observer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req = req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	w := send("203.0.113.9")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))

	send("203.0.113.9")
	w = send("203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "too many requests")
	assert.Equal(t, []string{"public"}, observer.scopes)

	assert.Equal(t, http.StatusNoContent, send("198.51.100.1").Code)
}

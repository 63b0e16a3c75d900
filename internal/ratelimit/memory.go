package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// sweepThreshold bounds the key count before idle windows are dropped.
const sweepThreshold = 10_000

// InMemory keeps a sliding window of request timestamps per key.
type InMemory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		windows: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (s *InMemory) AllowN(_ context.Context, key string, cost, limit int, window time.Duration) (*Result, error) {
	if cost <= 0 || limit <= 0 || window <= 0 {
		return nil, errors.New("rate limit cost, limit and window must be positive")
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.windows) >= sweepThreshold {
		s.sweepLocked(now.Add(-window))
	}
	stamps := evictBefore(s.windows[key], now.Add(-window))
	if len(stamps)+cost > limit {
		s.windows[key] = stamps
		resetAt := now.Add(window)
		if len(stamps) > 0 {
			resetAt = stamps[0].Add(window)
		}
		return &Result{
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(now, resetAt),
		}, nil
	}

	for range cost {
		stamps = append(stamps, now)
	}
	s.windows[key] = stamps
	return &Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   stamps[0].Add(window),
	}, nil
}

// Sweep drops keys whose windows have fully elapsed.
func (s *InMemory) Sweep(window time.Duration) int {
	cutoff := s.now().Add(-window)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(cutoff)
}

func (s *InMemory) sweepLocked(cutoff time.Time) int {
	removed := 0
	for key, stamps := range s.windows {
		if len(evictBefore(stamps, cutoff)) == 0 {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

func evictBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	return stamps[i:]
}

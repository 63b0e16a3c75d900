package lockout

import (
	"context"
	"sync"
	"time"
)

type counter struct {
	failures  int
	expiresAt time.Time
}

// InMemory is a single-process Store.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]counter
	now      func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		counters: make(map[string]counter),
		now:      time.Now,
	}
}

func (s *InMemory) Failures(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key).failures, nil
}

func (s *InMemory) RecordFailure(_ context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.live(key)
	c.failures++
	c.expiresAt = s.now().Add(window)
	s.counters[key] = c
	return c.failures, nil
}

func (s *InMemory) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}

// live returns the counter for key, dropping it once expired. Callers hold mu.
func (s *InMemory) live(key string) counter {
	c, ok := s.counters[key]
	if !ok {
		return counter{}
	}
	if !s.now().Before(c.expiresAt) {
		delete(s.counters, key)
		return counter{}
	}
	return c
}

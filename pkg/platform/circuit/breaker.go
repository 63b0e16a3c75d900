// Package circuit provides a two-state circuit breaker for dependencies that
// have an in-process fallback.
package circuit

import "sync"

// Transition reports whether a call moved the breaker between states.
type Transition int

const (
	NoChange Transition = iota
	Opened
	Closed
)

// Breaker opens after a run of consecutive failures and closes again after a
// run of consecutive successes while open.
type Breaker struct {
	mu               sync.Mutex
	name             string
	open             bool
	failures         int
	successes        int
	failureThreshold int
	successThreshold int
}

type Option func(*Breaker)

// WithFailureThreshold sets the consecutive failures that open the breaker. Default 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the consecutive successes that close it again. Default 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{name: name, failureThreshold: 5, successThreshold: 3}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Failure records a failed call and reports whether callers should use the
// fallback for it.
func (b *Breaker) Failure() (useFallback bool, t Transition) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.successes = 0
	if b.open {
		return true, NoChange
	}
	if b.failures >= b.failureThreshold {
		b.open = true
		return true, Opened
	}
	return false, NoChange
}

// Success records a successful call. While the breaker is still open the
// primary result should be discarded in favor of the fallback.
func (b *Breaker) Success() (usePrimary bool, t Transition) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		b.failures = 0
		return true, NoChange
	}
	b.successes++
	if b.successes < b.successThreshold {
		return false, NoChange
	}
	b.open = false
	b.failures = 0
	b.successes = 0
	return true, Closed
}

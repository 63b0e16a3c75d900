package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock {
	return &clock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func newTestStore(c *clock) *InMemory {
	s := NewInMemory()
	s.now = c.Now
	return s
}

func TestInMemoryAllowsUpToLimit(t *testing.T) {
	c := newClock()
	store := newTestStore(c)
	ctx := t.Context()

	for i := range 3 {
		res, err := store.AllowN(ctx, "ip:1", 1, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := store.AllowN(ctx, "ip:1", 1, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 60, res.RetryAfter)
	assert.Equal(t, c.now.Add(time.Minute), res.ResetAt)

	other, err := store.AllowN(ctx, "ip:2", 1, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys have independent windows")
}

func TestInMemoryWindowSlides(t *testing.T) {
	c := newClock()
	store := newTestStore(c)
	ctx := t.Context()

	_, _ = store.AllowN(ctx, "k", 1, 2, time.Minute)
	c.Advance(30 * time.Second)
	_, _ = store.AllowN(ctx, "k", 1, 2, time.Minute)

	res, _ := store.AllowN(ctx, "k", 1, 2, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30, res.RetryAfter, "the oldest request leaves the window first")

	c.Advance(31 * time.Second)
	res, _ = store.AllowN(ctx, "k", 1, 2, time.Minute)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestInMemoryCost(t *testing.T) {
	store := newTestStore(newClock())
	ctx := t.Context()

	res, err := store.AllowN(ctx, "k", 4, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	res, _ = store.AllowN(ctx, "k", 2, 5, time.Minute)
	assert.False(t, res.Allowed)

	_, err = store.AllowN(ctx, "k", 0, 5, time.Minute)
	assert.Error(t, err)
}

func TestInMemorySweep(t *testing.T) {
	c := newClock()
	store := newTestStore(c)
	ctx := t.Context()

	_, _ = store.AllowN(ctx, "old", 1, 5, time.Minute)
	c.Advance(2 * time.Minute)
	_, _ = store.AllowN(ctx, "fresh", 1, 5, time.Minute)

	assert.Equal(t, 1, store.Sweep(time.Minute))
	assert.Len(t, store.windows, 1)
	assert.Contains(t, store.windows, "fresh")
}

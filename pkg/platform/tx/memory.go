package tx

import (
	"context"
	"fmt"
	"sync"
	"time"

	dErrors "saasbase/pkg/domain-errors"
)

// InMemory serializes units of work over in-memory stores and replays the
// registered undo journal when a unit fails.
type InMemory struct {
	mu      sync.Mutex
	timeout time.Duration
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (t *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if InTx(ctx) {
		return fn(ctx)
	}

	ctx, cancel := withDefaultTimeout(ctx, t.timeout)
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	h := &hooks{}
	defer func() {
		if r := recover(); r != nil {
			h.rollback()
			err = fmt.Errorf("transaction panicked: %v", r)
		}
	}()

	if err := fn(withHooks(ctx, h)); err != nil {
		h.rollback()
		return err
	}
	h.commit()
	return nil
}

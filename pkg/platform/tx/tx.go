// Package tx defines the transactional boundary shared by services and stores.
//
// Services wrap every invariant-bearing operation group in Runner.RunInTx.
// PostgreSQL stores obtain the active *sql.Tx through Executor; in-memory
// stores register compensating actions with OnRollback.
package tx

import (
	"context"
	"database/sql"
	"time"
)

const defaultTimeout = 5 * time.Second

// Runner provides a transactional boundary for multi-step mutations.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type (
	sqlTxKey struct{}
	hooksKey struct{}
)

// hooks collects callbacks registered while a unit of work is open.
type hooks struct {
	undo        []func()
	afterCommit []func()
}

// WithTx stores the SQL transaction in the context.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, sqlTxKey{}, tx)
}

// From returns the SQL transaction stored in the context, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// Executor returns the active transaction when there is one, otherwise db.
func Executor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// InTx reports whether a unit of work is open on ctx.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(hooksKey{}).(*hooks)
	return ok
}

// OnRollback registers a compensating action for an in-memory mutation.
// Outside a unit of work it is a no-op.
func OnRollback(ctx context.Context, undo func()) {
	if h, ok := ctx.Value(hooksKey{}).(*hooks); ok {
		h.undo = append(h.undo, undo)
	}
}

// AfterCommit defers fn until the surrounding unit of work commits.
// Outside a unit of work fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if h, ok := ctx.Value(hooksKey{}).(*hooks); ok {
		h.afterCommit = append(h.afterCommit, fn)
		return
	}
	fn()
}

func withHooks(ctx context.Context, h *hooks) context.Context {
	return context.WithValue(ctx, hooksKey{}, h)
}

func (h *hooks) rollback() {
	for i := len(h.undo) - 1; i >= 0; i-- {
		h.undo[i]()
	}
	h.undo = nil
}

func (h *hooks) commit() {
	for _, fn := range h.afterCommit {
		fn()
	}
}

func withDefaultTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

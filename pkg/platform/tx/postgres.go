package tx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "saasbase/pkg/domain-errors"
)

// Postgres runs units of work inside a database/sql transaction. Stores join
// it through Executor. The default READ COMMITTED isolation is sufficient
// because quota checks lock the tenant row with SELECT ... FOR UPDATE.
type Postgres struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (t *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	ctx, cancel := withDefaultTimeout(ctx, t.timeout)
	defer cancel()

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback() //nolint:errcheck // rollback after commit is no-op; error already captured
	}()

	h := &hooks{}
	txCtx := withHooks(WithTx(ctx, sqlTx), h)
	if err := fn(txCtx); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	h.commit()
	return nil
}

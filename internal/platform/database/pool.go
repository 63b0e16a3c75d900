// Package database opens the PostgreSQL pool behind the pgx stdlib driver.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"saasbase/internal/platform/config"
)

const pingTimeout = 5 * time.Second

var errNotConfigured = errors.New("database not configured")

// StatsRecorder receives pool samples.
type StatsRecorder interface {
	RecordDBStats(stats sql.DBStats)
}

type Pool struct {
	db *sql.DB
}

// New opens and pings the pool. An empty URL selects the in-memory stores
// and yields a nil pool; the nil pool is safe to Close.
func New(ctx context.Context, cfg config.Database) (*Pool, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{db: db}, nil
}

func (p *Pool) DB() *sql.DB {
	return p.db
}

// Health is registered as the readiness check for the database.
func (p *Pool) Health(ctx context.Context) error {
	if p == nil {
		return errNotConfigured
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	return p.db.Close()
}

func (p *Pool) RecordStats(r StatsRecorder) {
	if p == nil {
		return
	}
	r.RecordDBStats(p.db.Stats())
}

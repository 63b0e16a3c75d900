// Package redis connects the optional shared store used by the login lockout
// and the public rate limiter.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"saasbase/internal/platform/config"
)

// PoolRecorder receives pool samples.
type PoolRecorder interface {
	RecordRedisPool(total, idle uint32, events map[string]uint32)
}

type Client struct {
	*redis.Client
	last redis.PoolStats
}

// New dials and pings Redis. An empty URL means Redis is not configured and
// yields a nil client.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{Client: client}, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats reports the pool gauges and the counter growth since the
// last call. It is not safe for concurrent use.
func (c *Client) RecordPoolStats(r PoolRecorder) {
	stats := *c.PoolStats()
	r.RecordRedisPool(stats.TotalConns, stats.IdleConns, map[string]uint32{
		"hit":     growth(stats.Hits, c.last.Hits),
		"miss":    growth(stats.Misses, c.last.Misses),
		"timeout": growth(stats.Timeouts, c.last.Timeouts),
		"stale":   growth(stats.StaleConns, c.last.StaleConns),
	})
	c.last = stats
}

func growth(now, before uint32) uint32 {
	if now < before {
		return 0
	}
	return now - before
}

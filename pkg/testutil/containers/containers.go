//go:build integration

// Package containers starts the backing services used by integration tests.
// Each service is started at most once per test binary and shared by every
// suite in the package; Ryuk reaps the containers when the process exits.
package containers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

type shared[T any] struct {
	mu  sync.Mutex
	val *T
}

func (s *shared[T]) get(t *testing.T, start func(context.Context) (*T, error)) *T {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.val == nil {
		v, err := start(context.Background())
		if err != nil {
			t.Fatalf("start container: %v", err)
		}
		s.val = v
	}
	return s.val
}

var (
	postgresOnce shared[PostgresDB]
	redisOnce    shared[RedisServer]
	kafkaOnce    shared[KafkaBroker]
)

// Postgres returns the package's migrated database.
func Postgres(t *testing.T) *PostgresDB { return postgresOnce.get(t, startPostgres) }

func Redis(t *testing.T) *RedisServer { return redisOnce.get(t, startRedis) }

func Kafka(t *testing.T) *KafkaBroker { return kafkaOnce.get(t, startKafka) }

// abandon terminates a half-started container and returns err with context.
func abandon(ctx context.Context, c testcontainers.Container, step string, err error) error {
	_ = c.Terminate(ctx)
	return fmt.Errorf("%s: %w", step, err)
}

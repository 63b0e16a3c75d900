//go:build integration

package containers

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisServer struct {
	Container testcontainers.Container
	Client    *goredis.Client
}

func startRedis(ctx context.Context) (*RedisServer, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, err
	}
	addr, err := c.Endpoint(ctx, "")
	if err != nil {
		return nil, abandon(ctx, c, "redis endpoint", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, abandon(ctx, c, "redis ping", err)
	}
	return &RedisServer{Container: c, Client: client}, nil
}

func (r *RedisServer) Reset(ctx context.Context) error {
	return r.Client.FlushDB(ctx).Err()
}

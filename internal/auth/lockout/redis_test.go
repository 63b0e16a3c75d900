//go:build integration

package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"saasbase/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisServer
	store *Redis
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.Redis(s.T())
	s.store = NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Reset(context.Background()))
}

func (s *RedisStoreSuite) TestCountsAndClears() {
	ctx := context.Background()
	key := Key("acme", "a@acme.test")

	n, err := s.store.Failures(ctx, key)
	s.Require().NoError(err)
	s.Zero(n)

	for want := 1; want <= 3; want++ {
		n, err = s.store.RecordFailure(ctx, key, time.Minute)
		s.Require().NoError(err)
		s.Equal(want, n)
	}
	n, err = s.store.Failures(ctx, key)
	s.Require().NoError(err)
	s.Equal(3, n)

	s.Require().NoError(s.store.Clear(ctx, key))
	n, err = s.store.Failures(ctx, key)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RedisStoreSuite) TestCounterExpires() {
	ctx := context.Background()
	key := Key("acme", "b@acme.test")

	_, err := s.store.RecordFailure(ctx, key, time.Minute)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, keyPrefix+key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisStoreSuite) TestGuardOverRedis() {
	ctx := context.Background()
	guard := New(s.store, 2, time.Minute)
	key := Key("acme", "c@acme.test")

	s.Require().NoError(guard.Fail(ctx, key))
	s.Require().NoError(guard.Check(ctx, key))
	s.Require().NoError(guard.Fail(ctx, key))
	s.Error(guard.Check(ctx, key))
}

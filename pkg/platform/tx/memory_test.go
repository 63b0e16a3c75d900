package tx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "saasbase/pkg/domain-errors"
)

type InMemorySuite struct {
	suite.Suite
	runner *InMemory
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.runner = NewInMemory()
}

func (s *InMemorySuite) TestRollbackReplaysUndoInReverse() {
	var order []string
	err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
		OnRollback(ctx, func() { order = append(order, "first") })
		OnRollback(ctx, func() { order = append(order, "second") })
		return errors.New("boom")
	})

	s.EqualError(err, "boom")
	s.Equal([]string{"second", "first"}, order)
}

func (s *InMemorySuite) TestCommitSkipsUndoAndRunsAfterCommit() {
	undone := false
	committed := false
	err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
		OnRollback(ctx, func() { undone = true })
		AfterCommit(ctx, func() { committed = true })
		s.False(committed, "after-commit hooks must wait for commit")
		return nil
	})

	s.NoError(err)
	s.False(undone)
	s.True(committed)
}

func (s *InMemorySuite) TestAfterCommitDroppedOnRollback() {
	called := false
	_ = s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
		AfterCommit(ctx, func() { called = true })
		return errors.New("boom")
	})
	s.False(called)
}

func (s *InMemorySuite) TestPanicRollsBack() {
	undone := false
	err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
		OnRollback(ctx, func() { undone = true })
		panic("kaboom")
	})

	s.Error(err)
	s.Contains(err.Error(), "kaboom")
	s.True(undone)
}

func (s *InMemorySuite) TestNestedCallJoinsOuterUnit() {
	var undone []string
	err := s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
		OnRollback(ctx, func() { undone = append(undone, "outer") })
		innerErr := s.runner.RunInTx(ctx, func(ctx context.Context) error {
			OnRollback(ctx, func() { undone = append(undone, "inner") })
			return nil
		})
		s.NoError(innerErr)
		return errors.New("outer failed")
	})

	s.Error(err)
	s.Equal([]string{"inner", "outer"}, undone)
}

func (s *InMemorySuite) TestCancelledContextIsTimeout() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.runner.RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	})

	s.False(called)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}

func (s *InMemorySuite) TestAppliesDefaultDeadline() {
	_ = s.runner.RunInTx(context.Background(), func(ctx context.Context) error {
		deadline, ok := ctx.Deadline()
		s.True(ok)
		s.WithinDuration(time.Now().Add(defaultTimeout), deadline, time.Second)
		return nil
	})
}

func (s *InMemorySuite) TestUnitsAreSerialized() {
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.runner.RunInTx(context.Background(), func(context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	s.Equal(1, maxSeen)
}

func TestHooksOutsideUnit(t *testing.T) {
	ctx := context.Background()
	ran := false
	AfterCommit(ctx, func() { ran = true })
	if !ran {
		t.Fatal("AfterCommit outside a unit must run immediately")
	}
	OnRollback(ctx, func() { t.Fatal("OnRollback outside a unit must be ignored") })
	if InTx(ctx) {
		t.Fatal("background context must not report an open unit")
	}
}

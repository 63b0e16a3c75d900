package testutil

import (
	"errors"
	"sync"

	dErrors "saasbase/pkg/domain-errors"
	"saasbase/pkg/platform/sentinel"
)

// Outcome classifies the error returned by one racing call.
type Outcome string

const (
	Succeeded Outcome = "succeeded"
	Conflict  Outcome = "conflict"
	NotFound  Outcome = "not_found"
	// Rejected is a forbidden result, which is how quota and policy refusals surface.
	Rejected Outcome = "rejected"
	Failed   Outcome = "failed"
)

// Tally counts outcomes. Missing keys read as zero.
type Tally map[Outcome]int

func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Succeeded
	case dErrors.HasCode(err, dErrors.CodeConflict), errors.Is(err, sentinel.ErrAlreadyUsed):
		return Conflict
	case dErrors.HasCode(err, dErrors.CodeNotFound), errors.Is(err, sentinel.ErrNotFound):
		return NotFound
	case dErrors.HasCode(err, dErrors.CodeForbidden):
		return Rejected
	default:
		return Failed
	}
}

// Race releases n goroutines at once, each calling fn with its index, and
// tallies the outcomes once all have returned.
func Race(n int, fn func(i int) error) Tally {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		tally = Tally{}
		start = make(chan struct{})
	)
	for i := range n {
		wg.Go(func() {
			<-start
			outcome := Classify(fn(i))
			mu.Lock()
			tally[outcome]++
			mu.Unlock()
		})
	}
	close(start)
	wg.Wait()
	return tally
}

package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/druse/pkg/scene"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrTimeout is returned when an evaluation runs past its deadline.
var ErrTimeout = errors.New("evaluation timed out")

// SupersededError reports that a newer Evaluate call started before the
// result of generation Generation was collected.
type SupersededError struct {
	Generation uint64
	By         uint64
}

func (e *SupersededError) Error() string {
	return fmt.Sprintf("evaluation %d superseded by %d", e.Generation, e.By)
}

type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// await collects the result of generation gen from ch. A result that
// arrives after a newer Evaluate call is dropped with a *SupersededError.
// The evaluating goroutine is not cancelled on timeout; ch must be
// buffered so it can finish and exit.
func (e *Engine) await(ch <-chan evalResult, gen uint64) (*scene.Scene, []EvalError, error) {
	limit := e.timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		e.mu.Lock()
		latest := e.generation
		e.mu.Unlock()
		if latest != gen {
			return nil, nil, &SupersededError{Generation: gen, By: latest}
		}
		return res.scene, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, limit)
	}
}

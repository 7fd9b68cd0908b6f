// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"errors"
	"fmt"
	"sync"
)

// Run tracks the stages of one Pipeline.Run call.
type Run struct {
	mu      sync.Mutex
	results []error
	pending int
	done    chan struct{}
}

func (r *Run) finish(i int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[i] = err
	r.pending--
	if r.pending == 0 {
		close(r.done)
	}
}

// Done is closed once every stage has returned.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until every stage has returned and gives each stage's own
// result, indexed by stage position.
func (r *Run) Wait() []error {
	<-r.done

	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.results...)
}

// Err waits and joins the failed stages' results.
func (r *Run) Err() error {
	var errs []error
	for i, err := range r.Wait() {
		if err != nil {
			errs = append(errs, fmt.Errorf("stage %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

package mutation

import (
	"context"
	"sync"
)

// Result is the handle of an issued mutation.
type Result[R any] struct {
	done    chan struct{}
	mu      sync.Mutex
	value   R
	err     error
	outcome Outcome
}

// Done is closed once the mutation has resolved and the cache reflects it.
func (r *Result[R]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the mutation resolves or ctx ends. Abandoning the wait
// does not abort the write.
func (r *Result[R]) Wait(ctx context.Context) (R, error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.value, r.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Err returns the commit error, or nil while pending or after success.
func (r *Result[R]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Result[R]) Outcome() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

func (r *Result[R]) finish(v R, err error, o Outcome) {
	r.mu.Lock()
	r.value, r.err, r.outcome = v, err, o
	r.mu.Unlock()
	close(r.done)
}

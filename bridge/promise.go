package bridge

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Promise is the pending result of a host call. It settles exactly once.
type Promise[T any] struct {
	ID    string
	Op    Operation
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func (p *Promise[T]) settle(value T, err error) bool {
	settled := false
	p.once.Do(func() {
		p.value = value
		p.err = err
		settled = true
		close(p.done)
	})
	return settled
}

// Done is closed once the promise settles
func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

// Settled returns true once the promise has an outcome
func (p *Promise[T]) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the promise settles or ctx is done. Giving up on ctx leaves the promise pending.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then calls fn with the outcome once settled
func (p *Promise[T]) Then(fn func(value T, err error)) {
	go func() {
		<-p.done
		fn(p.value, p.err)
	}()
}

func newPromise[T any](op Operation) *Promise[T] {
	return &Promise[T]{ID: uuid.New().String(), Op: op, done: make(chan struct{})}
}

func rejected[T any](op Operation, err error) *Promise[T] {
	ret := newPromise[T](op)
	var zero T
	ret.settle(zero, err)
	return ret
}

// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"fmt"
)

// Future is the pending result of one asynchronous adapter call.
//
// The underlying call always runs to completion; Await only stops waiting
// when its context ends.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn in a new goroutine and returns its Future.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn()
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("await canceled: %w", ctx.Err())
	}
}

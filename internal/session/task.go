package session

import (
	"context"
	"time"
)

// Task is a deferred computation that completes after a fixed delay. The
// work always runs to completion; callers that stop waiting only lose the
// result.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// After schedules fn to run once delay has elapsed. fn receives a context
// detached from ctx's cancellation but carrying its values.
func After[T any](ctx context.Context, delay time.Duration, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	detached := context.WithoutCancel(ctx)
	go func() {
		defer close(t.done)
		if delay > 0 {
			timer := time.NewTimer(delay)
			<-timer.C
		}
		t.value, t.err = fn(detached)
	}()
	return t
}

// Wait blocks until the task completes or ctx is done.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the task has applied its result.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

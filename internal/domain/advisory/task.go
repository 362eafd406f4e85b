package advisory

import (
	"context"
	"fmt"
	"sync"
)

// TaskState is the lifecycle of an asynchronous advisory task.
type TaskState string

const (
	TaskPending  TaskState = "pending"
	TaskResolved TaskState = "resolved"
	TaskFailed   TaskState = "failed"
)

// Task is a single asynchronous outcome: pending, then exactly one of resolved or failed.
// It cannot be cancelled once started; a caller that stops waiting simply ignores the result.
type Task[T any] struct {
	done     chan struct{}
	fallback T

	mu    sync.RWMutex
	state TaskState
	value T
	err   error
}

// Go starts fn on its own goroutine. The task runs detached from ctx cancellation.
// then, when non-nil, observes the outcome before waiters are released.
func Go[T any](ctx context.Context, fallback T, fn func(context.Context) (T, error), then func(T, error)) *Task[T] {
	t := &Task[T]{
		done:     make(chan struct{}),
		fallback: fallback,
		state:    TaskPending,
	}

	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(t.done)

		value, err := t.run(runCtx, fn)

		t.mu.Lock()
		if err != nil {
			t.state = TaskFailed
			t.err = err
			value = t.fallback
		} else {
			t.state = TaskResolved
		}
		t.value = value
		t.mu.Unlock()

		if then != nil {
			then(value, err)
		}
	}()

	return t
}

func (t *Task[T]) run(ctx context.Context, fn func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("advisory task panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Busy reports whether the task is still pending.
func (t *Task[T]) Busy() bool {
	return t.State() == TaskPending
}

// State returns the current lifecycle state.
func (t *Task[T]) State() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Done is closed once the task has settled and its observer has run.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Result returns the settled value, or the fallback while pending or after a failure.
func (t *Task[T]) Result() T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state == TaskPending {
		return t.fallback
	}
	return t.value
}

// Err returns the failure cause, if any.
func (t *Task[T]) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// Wait blocks until the task settles or ctx ends. Giving up does not stop the task.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Result(), nil
	case <-ctx.Done():
		return t.fallback, ctx.Err()
	}
}

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/toolbox"
)

// Future represents the pending outcome of a submitted task. It is
// completed exactly once, by the executing worker, by worker disposal or by
// scheduler shutdown.
type Future struct {
	taskID string
	once   sync.Once
	done   chan struct{}
	value  interface{}
	err    error
}

func newFuture(taskID string) *Future {
	return &Future{taskID: taskID, done: make(chan struct{})}
}

func (f *Future) complete(value interface{}, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// TaskID returns the identifier of the task this future belongs to.
func (f *Future) TaskID() string {
	return f.taskID
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the task completes or ctx is cancelled.
func (f *Future) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WaitTimeout blocks until the task completes or the timeout elapses.
func (f *Future) WaitTimeout(timeout time.Duration) (interface{}, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for task %q", f.taskID)
	}
}

// Into waits for the task outcome and assigns its value into target, which
// has to be a pointer. Assignment falls back to type conversion when the
// dynamic types differ.
func (f *Future) Into(ctx context.Context, target interface{}) error {
	value, err := f.Wait(ctx)
	if err != nil {
		return err
	}
	if value == nil {
		return nil
	}
	if err := toolbox.DefaultConverter.AssignConverted(target, value); err != nil {
		return fmt.Errorf("failed to convert task %q result: %w", f.taskID, err)
	}
	return nil
}

// TypedFuture wraps a Future, preserving the static result type of the
// submitting call site.
type TypedFuture[T any] struct {
	*Future
}

// Wait blocks until the task completes or ctx is cancelled.
func (f *TypedFuture[T]) Wait(ctx context.Context) (T, error) {
	return WaitOf[T](ctx, f.Future)
}

// SubmitOf schedules a statically typed task on s and returns a future
// carrying the task's result type.
func SubmitOf[T any](ctx context.Context, s *Service, task func(ctx context.Context) (T, error)) (*TypedFuture[T], error) {
	future, err := s.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		value, err := task(ctx)
		return value, err
	})
	if err != nil {
		return nil, err
	}
	return &TypedFuture[T]{Future: future}, nil
}

// WaitOf waits for the future and returns its value as T, converting when
// the dynamic type differs.
func WaitOf[T any](ctx context.Context, f *Future) (T, error) {
	var out T
	value, err := f.Wait(ctx)
	if err != nil {
		return out, err
	}
	if value == nil {
		return out, nil
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	if err := toolbox.DefaultConverter.AssignConverted(&out, value); err != nil {
		return out, fmt.Errorf("failed to convert task %q result: %w", f.taskID, err)
	}
	return out, nil
}

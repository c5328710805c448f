package scheduler

import "errors"

var (
	// ErrNotStarted is returned when tasks are submitted or the pool is
	// resized before Start.
	ErrNotStarted = errors.New("scheduler not started")

	// ErrClosed is returned for submissions after Shutdown and completes
	// every task still queued at shutdown time.
	ErrClosed = errors.New("scheduler closed")

	// ErrWorkerDisposed completes a task whose worker was removed from the
	// pool while the task was in flight.
	ErrWorkerDisposed = errors.New("worker disposed")

	// ErrRejected is returned when the active submission policy refuses to
	// queue a task.
	ErrRejected = errors.New("submission rejected by policy")
)

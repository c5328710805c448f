package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/taskpool/isolate"
)

// worker binds one pool slot to an execution context. The busy and disposed
// flags are guarded by the owning Service's lock; the handle is guarded by
// the worker's own lock because the dispatch goroutine and a fire-and-forget
// disposal can resolve readiness concurrently.
type worker struct {
	id      int
	service *Service

	ready isolate.Readiness

	mu   sync.Mutex
	hCtx isolate.Context

	// released is closed once the worker holds no in-flight task anymore
	// after removal from the pool; drain-on-shrink disposal waits on it.
	released chan struct{}

	busy     bool
	disposed bool
}

// await resolves the execution context handle from the readiness channel,
// memoising it for subsequent calls. The lock is held across the blocking
// receive so that concurrent callers resolve the handle exactly once.
func (w *worker) await(ctx context.Context) (isolate.Context, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hCtx != nil {
		return w.hCtx, nil
	}
	select {
	case hCtx := <-w.ready:
		w.hCtx = hCtx
		return hCtx, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// execute runs a single task on the worker's execution context and returns
// its outcome. A worker that disappears mid-flight, terminated by shrink or
// shutdown, yields ErrWorkerDisposed instead of the task's result.
func (w *worker) execute(pt *PendingTask) (interface{}, error) {
	hCtx, err := w.await(w.service.baseCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkerDisposed, err)
	}
	reply := make(chan isolate.Result, 1)
	if err := hCtx.Send(isolate.Request{Invoke: pt.task, ReplyTo: reply}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkerDisposed, err)
	}
	select {
	case result := <-reply:
		return result.Value, result.Err
	case <-hCtx.Done():
		return nil, ErrWorkerDisposed
	}
}

// terminate tears the worker's execution context down once the handle is
// available. It runs on a disposal goroutine and gives up when the pool's
// base context dies first, in which case the execution context is already
// being cancelled through its parent.
func (w *worker) terminate() {
	hCtx, err := w.await(w.service.baseCtx)
	if err != nil {
		return
	}
	hCtx.Terminate()
}

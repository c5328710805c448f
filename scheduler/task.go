package scheduler

import (
	"context"
	"time"

	"github.com/viant/taskpool/internal/clock"
	"github.com/viant/taskpool/internal/idgen"
)

// Task is a unit of work executed on one of the pool's execution contexts.
// The supplied context is cancelled when the executing worker is disposed,
// so a cooperative task can stop early.
type Task func(ctx context.Context) (interface{}, error)

// Completion describes the outcome of a finished task.
type Completion struct {
	TaskID string
	Value  interface{}
	Err    error
}

// Listener is invoked once a task completes, regardless of whether it
// returned an error or not. Implementations can log, collect metrics or
// perform any other side-effects they require.
//
// For convenience the listener is defined as a function type rather than an
// interface; users can therefore pass a plain function literal when
// customising the scheduler.
type Listener func(c Completion)

// PendingTask pairs a submitted task with its delivery ends, the future and
// an optional per-task callback, so that the dispatch site, whichever worker
// it turns out to be, can deliver the outcome.
type PendingTask struct {
	ID          string
	SubmittedAt time.Time

	task       Task
	future     *Future
	onComplete Listener
}

func newPendingTask(task Task, onComplete Listener) *PendingTask {
	id := idgen.New()
	return &PendingTask{
		ID:          id,
		SubmittedAt: clock.Now(),
		task:        task,
		future:      newFuture(id),
		onComplete:  onComplete,
	}
}

// complete delivers the outcome exactly once, the callback ahead of the
// future so a woken waiter observes the callback's side-effects settled.
func (t *PendingTask) complete(value interface{}, err error) {
	if t.onComplete != nil {
		t.onComplete(Completion{TaskID: t.ID, Value: value, Err: err})
	}
	t.future.complete(value, err)
}

package scheduler

import (
	"github.com/eapache/queue"
)

// PendingQueue holds tasks awaiting a worker in submission order. The
// scheduler serialises all access under its own lock, implementations
// therefore do not need to be safe for concurrent use.
type PendingQueue interface {
	// Push appends a task to the tail of the queue.
	Push(t *PendingTask)
	// Pop removes and returns the head of the queue, reporting false when
	// the queue is empty.
	Pop() (*PendingTask, bool)
	// Len returns the number of queued tasks.
	Len() int
}

// ringQueue implements PendingQueue on a growing ring buffer, avoiding the
// head-reslicing garbage of a plain slice queue.
type ringQueue struct {
	ring *queue.Queue
}

func newRingQueue() *ringQueue {
	return &ringQueue{ring: queue.New()}
}

func (q *ringQueue) Push(t *PendingTask) {
	q.ring.Add(t)
}

func (q *ringQueue) Pop() (*PendingTask, bool) {
	if q.ring.Length() == 0 {
		return nil, false
	}
	return q.ring.Remove().(*PendingTask), true
}

func (q *ringQueue) Len() int {
	return q.ring.Length()
}

var _ PendingQueue = (*ringQueue)(nil)

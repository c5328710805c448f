package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/viant/taskpool/internal/clock"
	"github.com/viant/taskpool/isolate"
	"github.com/viant/taskpool/policy"
	"github.com/viant/taskpool/stats"
	"github.com/viant/taskpool/tracing"
)

// Config represents scheduler configuration
type Config struct {
	// PoolSize is the number of workers executing tasks
	PoolSize int

	// DrainOnShrink lets a worker removed by a shrink finish its in-flight
	// task before its execution context is terminated
	DrainOnShrink bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		PoolSize: 3,
	}
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.PoolSize < 0 {
		return fmt.Errorf("pool size cannot be negative: %d", c.PoolSize)
	}
	return nil
}

// Service dispatches submitted tasks onto a resizable pool of workers, each
// bound to its own execution context
type Service struct {
	config   Config
	spawner  isolate.Spawner
	pol      *policy.Policy
	listener Listener
	tracker  *stats.Stats

	mu         sync.Mutex
	workers    []*worker
	pending    PendingQueue
	nextWorker int
	started    bool
	closed     bool

	baseCtx    context.Context
	baseCancel context.CancelFunc
	taskWg     sync.WaitGroup
}

// New creates a new scheduler service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:  DefaultConfig(),
		pending: newRingQueue(),
	}
	for _, opt := range options {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.spawner == nil {
		s.spawner = isolate.New()
	}
	if s.tracker == nil {
		s.tracker = &stats.Stats{Pool: "taskpool", StartedAt: clock.Now()}
	}
	return s, nil
}

// Start brings the pool to its configured size and begins dispatching. The
// supplied context bounds the lifetime of every execution context the pool
// spawns, including workers added by later resizes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	s.baseCtx, s.baseCancel = context.WithCancel(ctx)
	s.started = true
	delta, err := s.spawnLocked(s.config.PoolSize)
	s.mu.Unlock()

	s.tracker.Update(delta)
	if err != nil {
		return err
	}
	log.Debugf("scheduler started with %d workers", delta.Workers)
	return nil
}

// Submit schedules task for execution and returns its future. When an idle
// worker exists the task is dispatched immediately, otherwise it joins the
// pending queue, subject to the submission policy carried by ctx (or the
// one the scheduler was built with).
func (s *Service) Submit(ctx context.Context, task Task) (future *Future, err error) {
	if task == nil {
		return nil, fmt.Errorf("task was nil")
	}
	_, span := tracing.StartSpan(ctx, "scheduler.submit", "PRODUCER")
	defer func() {
		if future != nil {
			span.WithAttributes(map[string]string{"task.id": future.TaskID()})
		}
		tracing.EndSpan(span, err)
	}()
	return s.submit(ctx, task, nil)
}

// Dispatch schedules task fire-and-forget style. onComplete, which may be
// nil, is invoked exactly once with the outcome, the failure variant
// included, whether the task errs, panics, loses its worker or is abandoned
// by shutdown.
func (s *Service) Dispatch(ctx context.Context, task Task, onComplete Listener) (err error) {
	if task == nil {
		return fmt.Errorf("task was nil")
	}
	var future *Future
	_, span := tracing.StartSpan(ctx, "scheduler.dispatch", "PRODUCER")
	defer func() {
		if future != nil {
			span.WithAttributes(map[string]string{"task.id": future.TaskID()})
		}
		tracing.EndSpan(span, err)
	}()
	future, err = s.submit(ctx, task, onComplete)
	return err
}

func (s *Service) submit(ctx context.Context, task Task, onComplete Listener) (*Future, error) {
	pol := policy.FromContext(ctx)
	if pol == nil {
		pol = s.pol
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, ErrNotStarted
	}
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	pt := newPendingTask(task, onComplete)
	if w, ok := s.idleWorkerLocked(); ok {
		w.busy = true
		s.taskWg.Add(1)
		s.mu.Unlock()
		s.tracker.Update(stats.Delta{Submitted: 1})
		go s.run(w, pt, false)
		return pt.future, nil
	}
	capacity := len(s.workers)
	if !pol.Admits(ctx, pt.ID, s.pending.Len(), capacity) {
		s.mu.Unlock()
		if capacity == 0 {
			return nil, fmt.Errorf("%w: pool has no workers", ErrRejected)
		}
		return nil, fmt.Errorf("%w: no idle worker", ErrRejected)
	}
	s.pending.Push(pt)
	s.mu.Unlock()
	if capacity == 0 {
		log.Warnf("task %s queued with no workers in the pool", pt.ID)
	}
	s.tracker.Update(stats.Delta{Submitted: 1, Queued: 1})
	return pt.future, nil
}

// idleWorkerLocked scans the pool in index order and reports whether an
// idle worker exists at all, an empty or fully busy pool yields none.
func (s *Service) idleWorkerLocked() (*worker, bool) {
	for _, w := range s.workers {
		if !w.busy {
			return w, true
		}
	}
	return nil, false
}

// run executes a single assignment on the worker's dispatch goroutine. The
// queued-to-running counter transfer happens here rather than at the assign
// site so that by the time a task's future resolves all of its own deltas
// have been applied.
func (s *Service) run(w *worker, pt *PendingTask, fromQueue bool) {
	defer s.taskWg.Done()
	delta := stats.Delta{Running: 1}
	if fromQueue {
		delta.Queued = -1
	}
	s.tracker.Update(delta)

	_, span := tracing.StartSpan(s.baseCtx, "scheduler.execute", "CONSUMER")
	span.WithAttributes(map[string]string{"task.id": pt.ID, "worker.id": strconv.Itoa(w.id)})
	value, err := w.execute(pt)
	tracing.EndSpan(span, err)
	s.finish(w, pt, value, err)
}

// finish records the task outcome, delivers it, then returns the worker to
// the idle set and hands it the next queued task, if any. Counters and the
// listener run before the future resolves so that a woken waiter observes
// them settled. A worker that was removed from the pool mid-flight is
// released to its disposal instead.
func (s *Service) finish(w *worker, pt *PendingTask, value interface{}, err error) {
	delta := stats.Delta{Running: -1}
	if err != nil {
		delta.Failed = 1
		log.Debugf("worker %d: task %s failed: %v", w.id, pt.ID, err)
	} else {
		delta.Completed = 1
	}
	s.tracker.Update(delta)
	if s.listener != nil {
		s.listener(Completion{TaskID: pt.ID, Value: value, Err: err})
	}
	pt.complete(value, err)

	s.mu.Lock()
	if w.disposed {
		close(w.released)
		s.mu.Unlock()
		return
	}
	w.busy = false
	s.drainLocked()
	s.mu.Unlock()
}

// drainLocked matches idle workers with queued tasks until either runs out.
// Callers hold s.mu; counter updates are left to the launched dispatch
// goroutines so that stats callbacks never run under the scheduler lock.
func (s *Service) drainLocked() {
	for {
		w, ok := s.idleWorkerLocked()
		if !ok {
			return
		}
		pt, ok := s.pending.Pop()
		if !ok {
			return
		}
		w.busy = true
		s.taskWg.Add(1)
		go s.run(w, pt, true)
	}
}

// Resize grows or shrinks the pool to size at runtime. Growth spawns fresh
// workers and immediately drains the pending queue onto them. Shrink removes
// workers from the tail of the pool synchronously; their execution contexts
// are torn down by fire-and-forget disposal, after the in-flight task when
// DrainOnShrink is set. Resizing to zero parks queued and future
// submissions until capacity returns.
func (s *Service) Resize(ctx context.Context, size int) (err error) {
	if size < 0 {
		return fmt.Errorf("pool size cannot be negative: %d", size)
	}
	_, span := tracing.StartSpan(ctx, "scheduler.resize", "INTERNAL")
	defer func() {
		tracing.EndSpan(span, err)
	}()
	span.WithAttributes(map[string]string{"pool.size": strconv.Itoa(size)})

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	current := len(s.workers)
	var delta stats.Delta
	switch {
	case size > current:
		delta, err = s.spawnLocked(size - current)
		if err == nil {
			s.drainLocked()
		}
	case size < current:
		removed := s.workers[size:]
		s.workers = s.workers[:size]
		for _, w := range removed {
			w.disposed = true
			if !w.busy {
				close(w.released)
			}
			go s.dispose(w)
			delta.Workers--
		}
	}
	s.mu.Unlock()

	s.tracker.Update(delta)
	if err != nil {
		return err
	}
	if size != current {
		log.Debugf("pool resized from %d to %d workers", current, size)
	}
	return nil
}

// spawnLocked adds count workers to the pool, handing each a freshly
// spawned execution context to resolve on first use.
func (s *Service) spawnLocked(count int) (stats.Delta, error) {
	var delta stats.Delta
	for i := 0; i < count; i++ {
		ready, err := s.spawner.Spawn(s.baseCtx, isolate.Serve)
		if err != nil {
			return delta, fmt.Errorf("failed to spawn worker: %w", err)
		}
		w := &worker{
			id:       s.nextWorker,
			service:  s,
			ready:    ready,
			released: make(chan struct{}),
		}
		s.nextWorker++
		s.workers = append(s.workers, w)
		delta.Workers++
	}
	return delta, nil
}

// dispose tears a removed worker down without blocking the resize caller.
func (s *Service) dispose(w *worker) {
	if s.config.DrainOnShrink {
		select {
		case <-w.released:
		case <-s.baseCtx.Done():
			return
		}
	}
	w.terminate()
}

// Shutdown stops the scheduler. Queued tasks fail with ErrClosed, in-flight
// tasks fail with ErrWorkerDisposed once their execution contexts are
// terminated, and every completion is delivered before Shutdown returns,
// unless ctx expires first.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var abandoned []*PendingTask
	for {
		pt, ok := s.pending.Pop()
		if !ok {
			break
		}
		abandoned = append(abandoned, pt)
	}
	removed := len(s.workers)
	for _, w := range s.workers {
		w.disposed = true
		if !w.busy {
			close(w.released)
		}
	}
	s.workers = nil
	s.mu.Unlock()

	s.baseCancel()

	delta := stats.Delta{
		Workers:   -removed,
		Queued:    -len(abandoned),
		Abandoned: len(abandoned),
	}
	s.tracker.Update(delta)
	for _, pt := range abandoned {
		if s.listener != nil {
			s.listener(Completion{TaskID: pt.ID, Err: ErrClosed})
		}
		pt.complete(nil, ErrClosed)
	}

	done := make(chan struct{})
	go func() {
		s.taskWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	log.Debugf("scheduler stopped, %d queued tasks abandoned", len(abandoned))
	return nil
}

// Capacity returns the current number of pool workers.
func (s *Service) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// QueueDepth returns the number of tasks awaiting a worker.
func (s *Service) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len()
}

// Tracker exposes the pool's aggregated counters.
func (s *Service) Tracker() *stats.Stats {
	return s.tracker
}

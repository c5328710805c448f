// Package stats provides a lightweight tracker that keeps aggregated pool
// counters (tasks submitted, queued, running, ...) for a single scheduler
// instance. The tracker travels in the context so every component that
// receives the context can atomically update the counters via the Delta
// helper without requiring a global registry.

package stats

import (
	"context"
	"sync"
	"time"

	"github.com/viant/taskpool/internal/clock"
)

// Delta represents an incremental counter change emitted by the scheduler
// or its workers. The fields are signed and therefore can be either
// positive (increment) or negative (decrement).
type Delta struct {
	Submitted int
	Queued    int
	Running   int
	Completed int
	Failed    int
	Abandoned int
	Workers   int
}

// Stats keeps aggregated task counters for a pool. It is safe for
// concurrent use.
type Stats struct {
	// Identification, informative only, filled when the pool starts.
	Pool      string
	StartedAt time.Time

	// Counters, modified via Update().
	SubmittedTasks int
	QueuedTasks    int
	RunningTasks   int
	CompletedTasks int
	FailedTasks    int
	AbandonedTasks int
	Workers        int

	sync.Mutex
	onChange func(Stats)
}

// Update applies the supplied delta to the tracker. It is safe to call from
// multiple goroutines. If an onChange callback has been registered it will
// be invoked with a copy of the updated tracker outside the critical section
// so that the callback can perform slow operations (e.g. JSON encoding,
// I/O) without blocking scheduler internals.
func (s *Stats) Update(d Delta) {
	if s == nil {
		return
	}

	s.Lock()

	s.SubmittedTasks += d.Submitted
	s.QueuedTasks += d.Queued
	s.RunningTasks += d.Running
	s.CompletedTasks += d.Completed
	s.FailedTasks += d.Failed
	s.AbandonedTasks += d.Abandoned
	s.Workers += d.Workers

	// Make a value-copy for the callback while we still hold the lock to
	// avoid seeing partially updated counters.
	snapshot := *s
	cb := s.onChange

	s.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (s *Stats) Snapshot() Stats {
	if s == nil {
		return Stats{}
	}
	s.Lock()
	defer s.Unlock()
	return *s
}

// OnChange registers a callback that is invoked after every successful
// Update. Passing nil disables the callback. Only one callback can be
// active; subsequent calls overwrite the previous value.
func (s *Stats) OnChange(cb func(Stats)) {
	if s == nil {
		return
	}
	s.Lock()
	s.onChange = cb
	s.Unlock()
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Stats tracker, embeds it in a derived context
// and returns both. The caller may optionally pass an onChange callback that
// will be invoked after every counter update.
func WithNewTracker(ctx context.Context, pool string, onChange func(Stats)) (context.Context, *Stats) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Stats{
		Pool:      pool,
		StartedAt: clock.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Stats tracker from ctx. It returns (tracker, ok).
// The second return value is false when the context carries no tracker.
func FromContext(ctx context.Context) (*Stats, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Stats)
	return tr, ok
}

// GetSnapshot is a convenience wrapper that combines FromContext and
// Snapshot. The boolean return value is false when the context does not
// carry a tracker.
func GetSnapshot(ctx context.Context) (Stats, bool) {
	if tr, ok := FromContext(ctx); ok {
		return tr.Snapshot(), true
	}
	return Stats{}, false
}

// UpdateCtx is a helper that looks up the tracker in ctx (if any) and
// applies the supplied delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}

package stats

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Update(t *testing.T) {
	tracker := &Stats{}
	tracker.Update(Delta{Submitted: 1, Queued: 1})
	tracker.Update(Delta{Queued: -1, Running: 1})
	tracker.Update(Delta{Running: -1, Completed: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 1, snapshot.SubmittedTasks)
	assert.Equal(t, 0, snapshot.QueuedTasks)
	assert.Equal(t, 0, snapshot.RunningTasks)
	assert.Equal(t, 1, snapshot.CompletedTasks)
}

func TestStats_UpdateConcurrent(t *testing.T) {
	tracker := &Stats{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Submitted: 1})
			tracker.Update(Delta{Completed: 1})
		}()
	}
	wg.Wait()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 50, snapshot.SubmittedTasks)
	assert.Equal(t, 50, snapshot.CompletedTasks)
}

func TestStats_OnChange(t *testing.T) {
	tracker := &Stats{}
	var mu sync.Mutex
	var seen []int
	tracker.OnChange(func(s Stats) {
		mu.Lock()
		seen = append(seen, s.SubmittedTasks)
		mu.Unlock()
	})
	tracker.Update(Delta{Submitted: 1})
	tracker.Update(Delta{Submitted: 1})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, seen)
}

func TestStats_NilReceiver(t *testing.T) {
	var tracker *Stats
	tracker.Update(Delta{Submitted: 1})
	tracker.OnChange(func(Stats) {})
	snapshot := tracker.Snapshot()
	assert.Equal(t, 0, snapshot.SubmittedTasks)
}

func TestContextHelpers(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "main", nil)
	assert.Equal(t, "main", tracker.Pool)

	UpdateCtx(ctx, Delta{Submitted: 2})
	snapshot, ok := GetSnapshot(ctx)
	assert.True(t, ok)
	assert.Equal(t, 2, snapshot.SubmittedTasks)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
	_, ok = GetSnapshot(context.Background())
	assert.False(t, ok)
}

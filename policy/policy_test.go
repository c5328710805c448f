package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Admits(t *testing.T) {
	ctx := context.Background()

	var nilPolicy *Policy
	assert.True(t, nilPolicy.Admits(ctx, "t1", 100, 0))

	queueAll := &Policy{}
	assert.True(t, queueAll.Admits(ctx, "t1", 10, 3))
	assert.True(t, queueAll.Admits(ctx, "t1", 10, 0))

	rejectSaturated := &Policy{Saturation: ModeReject}
	assert.False(t, rejectSaturated.Admits(ctx, "t1", 0, 3))

	rejectParked := &Policy{ZeroCapacity: ModeReject}
	assert.False(t, rejectParked.Admits(ctx, "t1", 0, 0))
	assert.True(t, rejectParked.Admits(ctx, "t1", 0, 3))

	bounded := &Policy{MaxQueued: 2}
	assert.True(t, bounded.Admits(ctx, "t1", 1, 3))
	assert.False(t, bounded.Admits(ctx, "t1", 2, 3))
}

func TestPolicy_Decide(t *testing.T) {
	ctx := context.Background()
	var consulted bool
	p := &Policy{
		Saturation: ModeReject,
		Decide: func(ctx context.Context, task string, queued int, p *Policy) bool {
			consulted = true
			return true
		},
	}
	assert.True(t, p.Admits(ctx, "t1", 0, 3))
	assert.True(t, consulted)

	// Decide is not consulted when the submission is admitted outright.
	consulted = false
	p.Saturation = ModeQueue
	assert.True(t, p.Admits(ctx, "t1", 0, 3))
	assert.False(t, consulted)
}

func TestPolicy_ConfigRoundTrip(t *testing.T) {
	p := &Policy{Saturation: ModeReject, ZeroCapacity: ModePark, MaxQueued: 5}
	c := ToConfig(p)
	restored := FromConfig(c)
	assert.Equal(t, p.Saturation, restored.Saturation)
	assert.Equal(t, p.ZeroCapacity, restored.ZeroCapacity)
	assert.Equal(t, p.MaxQueued, restored.MaxQueued)

	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))
}

func TestContextRoundTrip(t *testing.T) {
	p := &Policy{Saturation: ModeReject}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

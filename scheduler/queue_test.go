package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue_FIFO(t *testing.T) {
	q := newRingQueue()
	assert.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	assert.False(t, ok)

	var ids []string
	for i := 0; i < 5; i++ {
		pt := newPendingTask(func(ctx context.Context) (interface{}, error) { return nil, nil }, nil)
		ids = append(ids, pt.ID)
		q.Push(pt)
	}
	assert.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		pt, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, ids[i], pt.ID)
	}
	_, ok = q.Pop()
	assert.False(t, ok)
}

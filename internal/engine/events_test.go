package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventQueue_FiresInDueOrder(t *testing.T) {
	q := NewEventQueue()
	var got []string
	q.Schedule(300, func() { got = append(got, "late") })
	q.Schedule(100, func() { got = append(got, "early") })
	q.Schedule(100, func() { got = append(got, "early-second") })

	assert.Zero(t, q.Advance(99))
	assert.Equal(t, 2, q.Advance(1))
	assert.Equal(t, []string{"early", "early-second"}, got)
	assert.Equal(t, 1, q.Advance(1000))
	assert.Zero(t, q.Len())
}

func TestEventQueue_Cancel(t *testing.T) {
	q := NewEventQueue()
	fired := false
	h := q.Schedule(10, func() { fired = true })
	assert.NotZero(t, h)
	assert.True(t, q.Cancel(h))
	assert.False(t, q.Cancel(h))
	assert.Zero(t, q.Len())
	assert.Zero(t, q.Advance(50))
	assert.False(t, fired)
}

func TestEventQueue_CloseDropsPending(t *testing.T) {
	q := NewEventQueue()
	fired := 0
	q.Schedule(10, func() { fired++ })
	q.Close()
	assert.Zero(t, q.Schedule(0, func() { fired++ }))
	assert.Zero(t, q.Advance(100))
	assert.Zero(t, fired)
}

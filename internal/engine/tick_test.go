package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngine_StopFromFrame(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond
	var total float64
	e.OnFrame = func(deltaMs float64) {
		total += deltaMs
		assert.True(t, e.Running())
		if e.Frames == 3 {
			e.Stop()
		}
	}

	e.Run(context.Background())

	assert.Equal(t, uint64(3), e.Frames)
	assert.Positive(t, total)
	assert.False(t, e.Running())
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEngine()
	e.Interval = time.Hour

	e.Run(ctx)

	assert.Zero(t, e.Frames)
}

func TestSimTime(t *testing.T) {
	assert.Equal(t, "Day 3, 6:05", SimTime(3, 365.7))
	assert.Equal(t, "Day 1, 0:00", SimTime(1, 0))
}

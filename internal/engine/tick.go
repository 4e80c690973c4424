// Package engine provides the frame-driven simulation loop and the tick
// orchestrator that threads the aggregate state through every subsystem.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// In-game clock.
const (
	MinutesPerHour = 60
	MinutesPerDay  = 1440
	DayEndHour     = 22 // end-of-day settlement
	SlotsHour      = 5  // tee sheet for the day is generated
)

// Engine drives frames on a fixed real-time interval. Each frame hands the
// measured real-time delta to OnFrame.
type Engine struct {
	Frames   uint64        // frames run so far
	Interval time.Duration // target frame interval (default 100ms)
	OnFrame  func(deltaMs float64)

	running atomic.Bool
}

// NewEngine creates a frame driver with default settings.
func NewEngine() *Engine {
	return &Engine{Interval: 100 * time.Millisecond}
}

// Running reports whether Run is active.
func (e *Engine) Running() bool { return e.running.Load() }

// Run drives frames until ctx is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) {
	e.running.Store(true)
	defer e.running.Store(false)
	slog.Info("simulation engine started", "interval", e.Interval)

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()
	last := time.Now()

	for e.running.Load() {
		select {
		case <-ctx.Done():
			slog.Info("simulation engine stopped", "frames", e.Frames, "reason", ctx.Err())
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			e.Frames++
			if e.OnFrame != nil {
				e.OnFrame(float64(delta) / float64(time.Millisecond))
			}
		}
	}
	slog.Info("simulation engine stopped", "frames", e.Frames)
}

// Stop halts the loop after the current frame.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// SimTime returns a human-readable in-game time.
func SimTime(day int, gameTime float64) string {
	total := int(gameTime)
	return fmt.Sprintf("Day %d, %d:%02d", day, total/MinutesPerHour, total%MinutesPerHour)
}

// HourGate is a last-processed-hour marker. A gated block runs at most once
// per distinct hour and exactly once when the hour changes.
type HourGate int

// Unset is the marker value before any hour has been processed.
const Unset HourGate = -1

// Changed reports whether hour differs from the marker.
func (g HourGate) Changed(hour int) bool { return int(g) != hour }

// Mark records hour as processed.
func (g *HourGate) Mark(hour int) { *g = HourGate(hour) }

// Pass marks hour and reports true if it differs from the marker.
func (g *HourGate) Pass(hour int) bool {
	if !g.Changed(hour) {
		return false
	}
	g.Mark(hour)
	return true
}

// Pressure propagation from water sources through the pipe graph.
package irrigation

import "container/heap"

const (
	// SourcePressure is the pressure at a pipe fed directly by a source.
	SourcePressure = 100.0
	// LeakPressureCeiling caps a leaking pipe and everything downstream of it.
	LeakPressureCeiling = 20.0
	// minConnectedPressure keeps a reachable pipe distinguishable from a
	// disconnected one.
	minConnectedPressure = 1.0
)

// RecalculatePressure rebuilds every pipe's pressure from the sources that
// still have capacity today. Pressure falls by the pipe type's loss per tile;
// each pipe takes the best pressure over all paths. Pipes with no path to a
// live source end at 0.
func RecalculatePressure(s *System) *System {
	next := s.clone()
	best := make(map[Coord]float64, len(next.Pipes))

	pq := &pressureQueue{}
	push := func(c Coord, level float64) {
		p, ok := next.Pipes[c]
		if !ok {
			return
		}
		if p.IsLeaking && level > LeakPressureCeiling {
			level = LeakPressureCeiling
		}
		if level < minConnectedPressure {
			level = minConnectedPressure
		}
		if level <= best[c] {
			return
		}
		best[c] = level
		heap.Push(pq, pressureItem{pos: c, level: level})
	}

	for _, w := range next.Sources {
		if w.Remaining() <= 0 {
			continue
		}
		push(w.Pos, SourcePressure)
		for _, d := range directions {
			push(w.Pos.Step(d), SourcePressure)
		}
	}

	for pq.Len() > 0 {
		it := heap.Pop(pq).(pressureItem)
		if it.level < best[it.pos] {
			continue
		}
		p := next.Pipes[it.pos]
		for _, d := range p.ConnectedTo {
			n := it.pos.Step(d)
			np, ok := next.Pipes[n]
			if !ok {
				continue
			}
			push(n, it.level-PipeSpecs[np.Type].PressureLoss)
		}
	}

	next.PressureCache = make(map[Coord]float64, len(next.Pipes))
	for c, p := range next.Pipes {
		p.PressureLevel = best[c]
		next.PressureCache[c] = best[c]
	}
	return next
}

type pressureItem struct {
	pos   Coord
	level float64
}

// pressureQueue is a max-heap on pressure level.
type pressureQueue []pressureItem

func (q pressureQueue) Len() int           { return len(q) }
func (q pressureQueue) Less(i, j int) bool { return q[i].level > q[j].level }
func (q pressureQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pressureQueue) Push(x any)        { *q = append(*q, x.(pressureItem)) }
func (q *pressureQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// Host-owned queue of delayed callbacks, advanced once per frame.
package engine

import "container/heap"

// EventHandle identifies a scheduled event. The zero handle is never issued.
type EventHandle uint64

type scheduled struct {
	due    float64
	handle EventHandle
	fn     func()
}

type eventHeap []scheduled

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].handle < h[j].handle
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(scheduled)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// EventQueue runs callbacks after a real-time delay. It is driven from the
// frame loop and is not safe for concurrent use.
type EventQueue struct {
	now       float64 // ms since creation
	last      EventHandle
	pending   eventHeap
	cancelled map[EventHandle]bool
	closed    bool
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{cancelled: make(map[EventHandle]bool)}
}

// Schedule runs fn once delayMs of real time has been advanced. Returns the
// zero handle after Close.
func (q *EventQueue) Schedule(delayMs float64, fn func()) EventHandle {
	if q.closed || fn == nil {
		return 0
	}
	q.last++
	heap.Push(&q.pending, scheduled{due: q.now + max(delayMs, 0), handle: q.last, fn: fn})
	return q.last
}

// Cancel drops a pending event. Reports whether it was still pending.
func (q *EventQueue) Cancel(h EventHandle) bool {
	for _, e := range q.pending {
		if e.handle == h && !q.cancelled[h] {
			q.cancelled[h] = true
			return true
		}
	}
	return false
}

// Advance moves the clock forward and fires every due event in due order.
// Returns how many fired.
func (q *EventQueue) Advance(deltaMs float64) int {
	if q.closed {
		return 0
	}
	q.now += max(deltaMs, 0)
	fired := 0
	for q.pending.Len() > 0 && q.pending[0].due <= q.now {
		e := heap.Pop(&q.pending).(scheduled)
		if q.cancelled[e.handle] {
			delete(q.cancelled, e.handle)
			continue
		}
		e.fn()
		fired++
	}
	return fired
}

// Len is the number of events still pending.
func (q *EventQueue) Len() int { return q.pending.Len() - len(q.cancelled) }

// Close drops every pending event. Later Schedule calls are ignored.
func (q *EventQueue) Close() {
	q.closed = true
	q.pending = nil
	clear(q.cancelled)
}

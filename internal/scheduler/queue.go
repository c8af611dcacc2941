package scheduler

import (
	"container/heap"
	"sync"
)

// Signal is a scheduled unit of work: a driver asks for Trigger to run at
// Tick for SphereID. TieBreak is assigned at enqueue time and is never set
// by callers.
type Signal struct {
	Tick     int64
	SphereID string
	Trigger  Trigger
	TieBreak int64
}

// signalHeap is a min-heap ordered by (Tick, SphereID, TieBreak) ascending,
// implementing container/heap.Interface. The teacher's own event queue
// (internal/engine/queue.go) is a plain FIFO slice, sufficient only when a
// single tick is ever in flight; a priority heap is required once multiple
// ticks can be scheduled out of arrival order.
type signalHeap []Signal

func (h signalHeap) Len() int { return len(h) }

func (h signalHeap) Less(i, j int) bool {
	if h[i].Tick != h[j].Tick {
		return h[i].Tick < h[j].Tick
	}
	if h[i].SphereID != h[j].SphereID {
		return h[i].SphereID < h[j].SphereID
	}
	return h[i].TieBreak < h[j].TieBreak
}

func (h signalHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *signalHeap) Push(x any) {
	*h = append(*h, x.(Signal))
}

func (h *signalHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// priorityQueue is a thread-safe wrapper over signalHeap, exposing the
// enqueue/dequeue operations the scheduler's Run loop needs. Push is safe
// from any goroutine (drivers may run concurrently); Pop is intended to be
// called only from the single Run loop goroutine, mirroring the teacher's
// eventQueue single-writer convention.
type priorityQueue struct {
	mu     sync.Mutex
	h      signalHeap
	clock  *tieBreakClock
	signal chan struct{} // buffered, size 1 — coalesces multiple Push wakeups
	closed bool
}

func newPriorityQueue() *priorityQueue {
	pq := &priorityQueue{
		h:      make(signalHeap, 0, 64),
		clock:  newTieBreakClock(),
		signal: make(chan struct{}, 1),
	}
	heap.Init(&pq.h)
	return pq
}

// Push enqueues sig, assigning its tie-break counter. Returns false if the
// queue has been closed.
func (q *priorityQueue) Push(sig Signal) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	sig.TieBreak = q.clock.Next()
	heap.Push(&q.h, sig)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryPop removes and returns the lowest-ordered signal without blocking.
// Returns (Signal{}, false) if the queue is empty.
func (q *priorityQueue) TryPop() (Signal, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.h.Len() == 0 {
		return Signal{}, false
	}
	return heap.Pop(&q.h).(Signal), true
}

// Len returns the number of signals currently queued.
func (q *priorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.h.Len()
}

// Wait returns a channel that signals when a new item may be available.
func (q *priorityQueue) Wait() <-chan struct{} {
	return q.signal
}

// Close marks the queue closed, waking any blocked waiters.
func (q *priorityQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

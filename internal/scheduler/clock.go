package scheduler

import "sync/atomic"

// tieBreakClock hands out a strictly increasing counter used to break ties
// between two signals scheduled for the same (tick, sphere_id): the signal
// enqueued first fires first, regardless of goroutine interleaving.
type tieBreakClock struct {
	seq atomic.Int64
}

func newTieBreakClock() *tieBreakClock {
	return &tieBreakClock{}
}

// Next returns a unique, increasing value for each call.
func (c *tieBreakClock) Next() int64 {
	return c.seq.Add(1)
}

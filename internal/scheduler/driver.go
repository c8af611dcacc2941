package scheduler

import (
	"context"
	"math/rand/v2"

	"github.com/ptsim/truthcore/internal/ir"
)

// Context carries everything a Trigger needs to convert a fired Signal
// into event drafts: the tick and sphere it fired for, the stream identity
// the scheduler is driving, a read-only materialized view of that stream
// as of Tick (spec §4.6 step 2), and the stream's seeded RNG.
//
// Exactly one of Topology or Kinematics is populated, chosen by
// Stream.Domain: "plate.kinematics" gets a KinematicsView, everything else
// gets a TopologySnapshot.
type Context struct {
	context.Context
	Stream     ir.StreamIdentity
	Tick       int64
	SphereID   string
	Topology   *ir.TopologySnapshot
	Kinematics *ir.KinematicsView
	RNG        *rand.Rand
}

// Trigger converts a fired signal into event drafts to append, and
// optionally schedules follow-on signals via the supplied Scheduler.
type Trigger interface {
	// Fire runs at Context.Tick for Context.SphereID and returns the event
	// drafts to append in this tick. A nil/empty slice with a nil error
	// means "no event this tick" — not every driver fires on every tick.
	Fire(c Context, s *Scheduler) ([]ir.EventDraft, error)
}

// TriggerFunc adapts a plain function to the Trigger interface.
type TriggerFunc func(c Context, s *Scheduler) ([]ir.EventDraft, error)

func (f TriggerFunc) Fire(c Context, s *Scheduler) ([]ir.EventDraft, error) {
	return f(c, s)
}

// Driver produces the initial set of signals a Scheduler should run. A
// driver typically schedules one signal per sphere per tick for a fixed
// horizon, or a single initial signal that reschedules itself from within
// its Trigger.
type Driver interface {
	Signals() []Signal
}

// DriverFunc adapts a plain function to the Driver interface.
type DriverFunc func() []Signal

func (f DriverFunc) Signals() []Signal { return f() }

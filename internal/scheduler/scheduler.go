package scheduler

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/materializer"
	"github.com/ptsim/truthcore/internal/seed"
	"github.com/ptsim/truthcore/internal/store"
)

// storeAccess is the subset of *store.Store the scheduler needs: appending
// fired triggers' event drafts, reading back a materialized state view for
// the firing context (spec §4.6 step 2), and persisting the per-stream
// seed audit. The read methods match internal/materializer's unexported
// eventSource interface so a storeAccess value can be passed directly to
// materializer.MaterializeTopology/MaterializeKinematics.
type storeAccess interface {
	Append(ctx context.Context, stream ir.StreamIdentity, drafts []ir.EventDraft, opts ir.AppendOptions) (ir.Head, error)
	GetHead(ctx context.Context, stream ir.StreamIdentity) (ir.Head, error)
	Read(ctx context.Context, stream ir.StreamIdentity, fromSequenceInclusive int64) ([]ir.EventEnvelope, error)
	GetLatestBefore(ctx context.Context, stream ir.StreamIdentity, kind store.SnapshotKind, targetTick int64) (store.Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, stream ir.StreamIdentity, kind store.SnapshotKind, tick, lastSequenceAtCapture int64, body []byte) error
	SaveSeedAudit(ctx context.Context, audit seed.Audit) error
}

// Scheduler is the single-writer discrete-event loop: it pops the
// lowest-ordered signal, invokes its trigger, and appends the resulting
// event drafts to the store. Only one goroutine may call Run.
type Scheduler struct {
	store  storeAccess
	stream ir.StreamIdentity
	queue  *priorityQueue
	logger *slog.Logger

	scenarioSeed uint64
	derivedSeed  uint64
	rng          *rand.Rand
}

// New returns a Scheduler bound to stream, persisting fired triggers'
// event drafts through store. scenarioSeed feeds internal/seed.DeriveSeed
// to produce the stream's per-stream RNG (spec §4.7), shared across every
// fired signal so draws advance deterministically in firing order.
func New(store storeAccess, stream ir.StreamIdentity, scenarioSeed uint64, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	derivedSeed := seed.DeriveSeed(scenarioSeed, stream)
	return &Scheduler{
		store:        store,
		stream:       stream,
		queue:        newPriorityQueue(),
		logger:       logger,
		scenarioSeed: scenarioSeed,
		derivedSeed:  derivedSeed,
		rng:          seed.NewRNG(derivedSeed),
	}
}

// Seed enqueues every signal a Driver produces.
func (s *Scheduler) Seed(d Driver) {
	for _, sig := range d.Signals() {
		s.Schedule(sig)
	}
}

// Schedule enqueues a single signal, e.g. from within a Trigger that
// reschedules itself for a later tick. Thread-safe.
func (s *Scheduler) Schedule(sig Signal) {
	s.queue.Push(sig)
}

// Run pops signals in (tick, sphere_id, tie-break) order, invokes each
// trigger, and appends its event drafts. A trigger failure is logged with
// full signal context and processing continues; retrying would break
// determinism since a retried trigger could observe a state view or RNG
// draw a first attempt never saw.
//
// Persists the stream's seed audit once per run (spec §4.7, "persisted
// alongside scheduler runs") before popping any signal, so a run that
// fails before producing any event still leaves a record of the seed it
// would have used.
//
// Blocks until ctx is cancelled or the queue drains and is closed.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler starting", "stream", s.stream.Key())

	audit := seed.NewAudit(s.stream, s.scenarioSeed, s.derivedSeed, seed.AlgorithmFNV1aStreamIdentityV2, time.Now().UnixNano())
	if err := s.store.SaveSeedAudit(ctx, audit); err != nil {
		s.logger.Error("failed to persist seed audit", "stream", s.stream.Key(), "error", err)
	}

	for {
		sig, ok := s.queue.TryPop()
		if ok {
			if err := s.fire(ctx, sig); err != nil {
				s.logger.Error("trigger failed", "tick", sig.Tick, "sphere_id", sig.SphereID, "error", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping: context cancelled")
			s.queue.Close()
			return ctx.Err()

		case <-s.queue.Wait():
			if s.queue.Len() == 0 {
				s.logger.Info("scheduler stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue, causing Run to return once it drains.
func (s *Scheduler) Stop() {
	s.queue.Close()
}

// kinematicsDomain is the stream domain the scheduler treats as carrying
// motion segments and model assignments rather than plate topology.
const kinematicsDomain = "plate.kinematics"

func (s *Scheduler) fire(ctx context.Context, sig Signal) error {
	c := Context{Context: ctx, Stream: s.stream, Tick: sig.Tick, SphereID: sig.SphereID, RNG: s.rng}

	if s.stream.Domain == kinematicsDomain {
		view, err := materializer.MaterializeKinematics(ctx, s.store, s.stream, sig.Tick)
		if err != nil {
			return &TriggerError{Signal: sig, Err: err}
		}
		c.Kinematics = view
	} else {
		snap, err := materializer.MaterializeTopology(ctx, s.store, s.stream, sig.Tick)
		if err != nil {
			return &TriggerError{Signal: sig, Err: err}
		}
		c.Topology = snap
	}

	drafts, err := sig.Trigger.Fire(c, s)
	if err != nil {
		return &TriggerError{Signal: sig, Err: err}
	}
	if len(drafts) == 0 {
		return nil
	}

	_, err = s.store.Append(ctx, s.stream, drafts, ir.AppendOptions{
		TickPolicy:   ir.TickPolicyAllow,
		ExpectedHead: ir.ExpectedHead{AnyHead: true},
	})
	if err != nil {
		return &TriggerError{Signal: sig, Err: err}
	}
	return nil
}

package materializer

import (
	"context"
	"sort"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/store"
)

// eventSource is the subset of *store.Store the materializer needs,
// narrowed so tests can substitute a fake without spinning up SQLite.
type eventSource interface {
	GetHead(ctx context.Context, stream ir.StreamIdentity) (ir.Head, error)
	Read(ctx context.Context, stream ir.StreamIdentity, fromSequenceInclusive int64) ([]ir.EventEnvelope, error)
	GetLatestBefore(ctx context.Context, stream ir.StreamIdentity, kind store.SnapshotKind, targetTick int64) (store.Snapshot, bool, error)
	SaveSnapshot(ctx context.Context, stream ir.StreamIdentity, kind store.SnapshotKind, tick, lastSequenceAtCapture int64, body []byte) error
}

var _ eventSource = (*store.Store)(nil)

// snapshotSound reports whether base is safe to use as a fold base given
// the events persisted after its capture. If any of them has a tick at or
// before base's own captured tick, it was inserted back-in-time after the
// snapshot was taken and folding it on top of base would place it after
// state the snapshot already consolidated — diverging from a from-scratch
// fold (spec §8 "Snapshot soundness"). GetLatestBefore's head-sequence
// guard alone doesn't catch this: a back-in-time event raises the head
// sequence without ever revisiting the snapshot's own capture point.
func snapshotSound(base store.Snapshot, eventsSinceCapture []ir.EventEnvelope) bool {
	for _, e := range eventsSinceCapture {
		if e.Tick <= base.Tick {
			return false
		}
	}
	return true
}

// MaterializeTopology folds events up to targetTick into a TopologySnapshot,
// loading the latest sound snapshot (spec §4.4) as a base and replaying
// only the events since its capture point.
func MaterializeTopology(ctx context.Context, s eventSource, stream ir.StreamIdentity, targetTick int64) (*ir.TopologySnapshot, error) {
	head, err := s.GetHead(ctx, stream)
	if err != nil {
		return nil, err
	}
	lastSequenceAtCapture := head.Sequence

	snap := ir.NewTopologySnapshot(stream, targetTick)
	fromSequence := int64(0)
	var envelopes []ir.EventEnvelope

	if base, ok, err := s.GetLatestBefore(ctx, stream, store.SnapshotKindTopology, targetTick); err != nil {
		return nil, err
	} else if ok {
		sinceCapture, err := s.Read(ctx, stream, base.LastSequenceAtCapture+1)
		if err != nil {
			return nil, err
		}
		if snapshotSound(base, sinceCapture) {
			decoded, err := decodeTopologySnapshot(stream, base)
			if err != nil {
				return nil, err
			}
			snap = decoded
			snap.TargetTick = targetTick
			fromSequence = base.LastSequenceAtCapture + 1
			envelopes = sinceCapture
		}
	}

	if envelopes == nil {
		envelopes, err = s.Read(ctx, stream, fromSequence)
		if err != nil {
			return nil, err
		}
	}
	envelopes = filterAndOrder(envelopes, targetTick)

	for _, e := range envelopes {
		applyTopology(snap, e.Payload)
	}
	snap.LastSequenceAtCapture = lastSequenceAtCapture

	return snap, nil
}

// MaterializeKinematics folds events up to targetTick into a KinematicsView.
func MaterializeKinematics(ctx context.Context, s eventSource, stream ir.StreamIdentity, targetTick int64) (*ir.KinematicsView, error) {
	head, err := s.GetHead(ctx, stream)
	if err != nil {
		return nil, err
	}
	lastSequenceAtCapture := head.Sequence

	view := ir.NewKinematicsView(stream, targetTick)
	fromSequence := int64(0)
	var envelopes []ir.EventEnvelope

	if base, ok, err := s.GetLatestBefore(ctx, stream, store.SnapshotKindKinematics, targetTick); err != nil {
		return nil, err
	} else if ok {
		sinceCapture, err := s.Read(ctx, stream, base.LastSequenceAtCapture+1)
		if err != nil {
			return nil, err
		}
		if snapshotSound(base, sinceCapture) {
			decoded, err := decodeKinematicsView(stream, base)
			if err != nil {
				return nil, err
			}
			view = decoded
			view.TargetTick = targetTick
			fromSequence = base.LastSequenceAtCapture + 1
			envelopes = sinceCapture
		}
	}

	if envelopes == nil {
		envelopes, err = s.Read(ctx, stream, fromSequence)
		if err != nil {
			return nil, err
		}
	}
	envelopes = filterAndOrder(envelopes, targetTick)

	for _, e := range envelopes {
		applyKinematics(view, e.Payload)
	}
	view.LastSequenceAtCapture = lastSequenceAtCapture

	return view, nil
}

// filterAndOrder keeps events with tick <= targetTick and orders them by
// (tick ascending, sequence ascending) — ties on tick are broken by
// sequence, never by read/arrival order.
func filterAndOrder(envelopes []ir.EventEnvelope, targetTick int64) []ir.EventEnvelope {
	kept := envelopes[:0:0]
	for _, e := range envelopes {
		if e.Tick <= targetTick {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Tick != kept[j].Tick {
			return kept[i].Tick < kept[j].Tick
		}
		return kept[i].Sequence < kept[j].Sequence
	})
	return kept
}

// SaveTopologySnapshot persists snap under its own (tick, last_sequence)
// key, for incremental replay acceleration.
func SaveTopologySnapshot(ctx context.Context, s eventSource, snap *ir.TopologySnapshot) error {
	return s.SaveSnapshot(ctx, snap.Stream, store.SnapshotKindTopology, snap.TargetTick, snap.LastSequenceAtCapture, ir.EncodeCanonical(*snap))
}

// SaveKinematicsSnapshot persists view under its own (tick, last_sequence) key.
func SaveKinematicsSnapshot(ctx context.Context, s eventSource, view *ir.KinematicsView) error {
	return s.SaveSnapshot(ctx, view.Stream, store.SnapshotKindKinematics, view.TargetTick, view.LastSequenceAtCapture, ir.EncodeCanonical(*view))
}

func decodeTopologySnapshot(stream ir.StreamIdentity, snap store.Snapshot) (*ir.TopologySnapshot, error) {
	r := ir.NewReader(snap.Body)
	decodedStream, err := ir.DecodeStreamIdentity(r)
	if err != nil {
		return nil, err
	}
	targetTick, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	lastSeq, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}

	out := ir.NewTopologySnapshot(decodedStream, targetTick)
	out.LastSequenceAtCapture = lastSeq

	n, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		p, err := decodePlate(r)
		if err != nil {
			return nil, err
		}
		out.Plates[p.PlateID] = p
	}

	n, err = r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		b, err := decodeBoundary(r)
		if err != nil {
			return nil, err
		}
		out.Boundaries[b.BoundaryID] = b
	}

	n, err = r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		j, err := decodeJunction(r)
		if err != nil {
			return nil, err
		}
		out.Junctions[j.JunctionID] = j
	}

	return out, nil
}

func decodePlate(r *ir.Reader) (*ir.Plate, error) {
	id, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	retired, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	reason, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return &ir.Plate{PlateID: id, Retired: retired, Reason: reason}, nil
}

func decodeBoundary(r *ir.Reader) (*ir.Boundary, error) {
	id, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	left, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	right, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	class, err := r.ReadEnumTag()
	if err != nil {
		return nil, err
	}
	geom, err := ir.DecodeGeometry(r)
	if err != nil {
		return nil, err
	}
	retired, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	reason, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return &ir.Boundary{
		BoundaryID: id, LeftPlate: left, RightPlate: right,
		Classification: ir.BoundaryClass(class), Geometry: geom,
		Retired: retired, Reason: reason,
	}, nil
}

func decodeJunction(r *ir.Reader) (*ir.Junction, error) {
	id, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	n, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	incident := make([]string, n)
	for i := range incident {
		if incident[i], err = r.ReadString(); err != nil {
			return nil, err
		}
	}
	loc, err := ir.DecodePoint(r)
	if err != nil {
		return nil, err
	}
	retired, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	reason, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return &ir.Junction{JunctionID: id, IncidentBoundaryIDs: incident, Location: loc, Retired: retired, Reason: reason}, nil
}

func decodeKinematicsView(stream ir.StreamIdentity, snap store.Snapshot) (*ir.KinematicsView, error) {
	r := ir.NewReader(snap.Body)
	decodedStream, err := ir.DecodeStreamIdentity(r)
	if err != nil {
		return nil, err
	}
	targetTick, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	lastSeq, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}

	out := ir.NewKinematicsView(decodedStream, targetTick)
	out.LastSequenceAtCapture = lastSeq

	n, err := r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		seg, err := decodeMotionSegment(r)
		if err != nil {
			return nil, err
		}
		out.Segments[segmentMapKey(seg.PlateID, seg.SegmentID)] = seg
	}

	n, err = r.ReadArrayLen()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		plateID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		modelID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out.ModelAssignments[plateID] = modelID
	}

	return out, nil
}

func decodeMotionSegment(r *ir.Reader) (*ir.MotionSegment, error) {
	plateID, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	segmentID, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	tickA, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	tickB, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	pole, err := ir.DecodePoint(r)
	if err != nil {
		return nil, err
	}
	angle, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	retired, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return &ir.MotionSegment{
		PlateID: plateID, SegmentID: segmentID, TickA: tickA, TickB: tickB,
		Pole: pole, AngleMicrodegrees: angle, Retired: retired,
	}, nil
}

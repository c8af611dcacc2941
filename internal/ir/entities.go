package ir

// Plate is a topology entity materialized from PlateCreated/PlateRetired events.
type Plate struct {
	PlateID string
	Retired bool
	Reason  string
}

// CanonicalEncode writes the fields in declared order.
func (p Plate) CanonicalEncode(w *Writer) {
	w.WriteString(p.PlateID)
	w.WriteBool(p.Retired)
	w.WriteString(p.Reason)
}

// Boundary is a topology entity materialized from Boundary* events.
type Boundary struct {
	BoundaryID     string
	LeftPlate      string
	RightPlate     string
	Classification BoundaryClass
	Geometry       Geometry
	Retired        bool
	Reason         string
}

func (b Boundary) CanonicalEncode(w *Writer) {
	w.WriteString(b.BoundaryID)
	w.WriteString(b.LeftPlate)
	w.WriteString(b.RightPlate)
	w.WriteEnumTag(uint8(b.Classification))
	b.Geometry.CanonicalEncode(w)
	w.WriteBool(b.Retired)
	w.WriteString(b.Reason)
}

// Junction is a topology entity materialized from Junction* events.
type Junction struct {
	JunctionID          string
	IncidentBoundaryIDs []string
	Location            Point
	Retired             bool
	Reason              string
}

func (j Junction) CanonicalEncode(w *Writer) {
	w.WriteString(j.JunctionID)
	w.WriteArrayLen(len(j.IncidentBoundaryIDs))
	for _, id := range j.IncidentBoundaryIDs {
		w.WriteString(id)
	}
	j.Location.CanonicalEncode(w)
	w.WriteBool(j.Retired)
	w.WriteString(j.Reason)
}

// TopologySnapshot is the materialized state view over plates, boundaries,
// and junctions as of (stream, target_tick, last_sequence_at_capture).
// Entities are keyed by id in maps, never linked by back-pointer (spec §9
// design note): back-pointers would make the fold order-sensitive in ways
// that complicate byte-exact re-encoding.
type TopologySnapshot struct {
	Stream               StreamIdentity
	TargetTick           int64
	LastSequenceAtCapture int64
	Plates               map[string]*Plate
	Boundaries           map[string]*Boundary
	Junctions            map[string]*Junction
}

// NewTopologySnapshot returns an empty snapshot ready for reducer application.
func NewTopologySnapshot(stream StreamIdentity, targetTick int64) *TopologySnapshot {
	return &TopologySnapshot{
		Stream:     stream,
		TargetTick: targetTick,
		Plates:     make(map[string]*Plate),
		Boundaries: make(map[string]*Boundary),
		Junctions:  make(map[string]*Junction),
	}
}

// CanonicalEncode writes plates, boundaries, and junctions each sorted by
// id, so that re-encoding a fold is independent of map iteration order.
func (t TopologySnapshot) CanonicalEncode(w *Writer) {
	t.Stream.CanonicalEncode(w)
	w.WriteInt64(t.TargetTick)
	w.WriteInt64(t.LastSequenceAtCapture)

	plateIDs := sortedKeys(t.Plates)
	w.WriteArrayLen(len(plateIDs))
	for _, id := range plateIDs {
		t.Plates[id].CanonicalEncode(w)
	}

	boundaryIDs := sortedKeys(t.Boundaries)
	w.WriteArrayLen(len(boundaryIDs))
	for _, id := range boundaryIDs {
		t.Boundaries[id].CanonicalEncode(w)
	}

	junctionIDs := sortedKeys(t.Junctions)
	w.WriteArrayLen(len(junctionIDs))
	for _, id := range junctionIDs {
		t.Junctions[id].CanonicalEncode(w)
	}
}

// MotionSegment is a kinematics entity materialized from MotionSegment* events.
type MotionSegment struct {
	PlateID           string
	SegmentID         string
	TickA             int64
	TickB             int64
	Pole              Point
	AngleMicrodegrees int64
	Retired           bool
}

func (m MotionSegment) CanonicalEncode(w *Writer) {
	w.WriteString(m.PlateID)
	w.WriteString(m.SegmentID)
	w.WriteInt64(m.TickA)
	w.WriteInt64(m.TickB)
	m.Pole.CanonicalEncode(w)
	w.WriteInt64(m.AngleMicrodegrees)
	w.WriteBool(m.Retired)
}

// segmentKey joins plate and segment id for map keying within a KinematicsView.
func segmentKey(plateID, segmentID string) string {
	return plateID + "\x1f" + segmentID
}

// KinematicsView is the materialized state view over motion segments and
// model assignments.
type KinematicsView struct {
	Stream                StreamIdentity
	TargetTick            int64
	LastSequenceAtCapture int64
	Segments              map[string]*MotionSegment // keyed by segmentKey(plate_id, segment_id)
	ModelAssignments      map[string]string         // plate_id -> model_id
}

// NewKinematicsView returns an empty view ready for reducer application.
func NewKinematicsView(stream StreamIdentity, targetTick int64) *KinematicsView {
	return &KinematicsView{
		Stream:           stream,
		TargetTick:       targetTick,
		Segments:         make(map[string]*MotionSegment),
		ModelAssignments: make(map[string]string),
	}
}

func (v KinematicsView) CanonicalEncode(w *Writer) {
	v.Stream.CanonicalEncode(w)
	w.WriteInt64(v.TargetTick)
	w.WriteInt64(v.LastSequenceAtCapture)

	segKeys := sortedKeys(v.Segments)
	w.WriteArrayLen(len(segKeys))
	for _, k := range segKeys {
		v.Segments[k].CanonicalEncode(w)
	}

	plateIDs := make([]string, 0, len(v.ModelAssignments))
	for id := range v.ModelAssignments {
		plateIDs = append(plateIDs, id)
	}
	plateIDs = sortStrings(plateIDs)
	w.WriteArrayLen(len(plateIDs))
	for _, id := range plateIDs {
		w.WriteString(id)
		w.WriteString(v.ModelAssignments[id])
	}
}

// DerivedArtifactManifest is the content-addressed record of a cached
// derived product (spec §4.5). The payload itself is stored separately,
// addressed by PayloadHash.
type DerivedArtifactManifest struct {
	Fingerprint      string
	GeneratorID      string
	GeneratorVersion string
	InputsDigest     [32]byte
	PayloadHash      [32]byte
	Size             int64
	CreatedAtUnixNs  int64
}

func (m DerivedArtifactManifest) CanonicalEncode(w *Writer) {
	w.WriteString(m.Fingerprint)
	w.WriteString(m.GeneratorID)
	w.WriteString(m.GeneratorVersion)
	w.WriteRawBytes(m.InputsDigest[:])
	w.WriteRawBytes(m.PayloadHash[:])
	w.WriteInt64(m.Size)
	w.WriteInt64(m.CreatedAtUnixNs)
}

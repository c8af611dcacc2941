package ir

import "fmt"

// BoundaryClass is the classification of a plate boundary (spec §3).
type BoundaryClass uint8

const (
	BoundaryDivergent  BoundaryClass = 1
	BoundaryConvergent BoundaryClass = 2
	BoundaryTransform  BoundaryClass = 3
)

func (c BoundaryClass) String() string {
	switch c {
	case BoundaryDivergent:
		return "Divergent"
	case BoundaryConvergent:
		return "Convergent"
	case BoundaryTransform:
		return "Transform"
	default:
		return fmt.Sprintf("BoundaryClass(%d)", uint8(c))
	}
}

// payloadTag values identify EventPayload variants in the canonical
// encoding and on the wire. Each tag is part of every stored envelope's
// encoding and hash — never renumber an existing tag.
const (
	payloadTagPlateCreated            uint8 = 1
	payloadTagPlateRetired            uint8 = 2
	payloadTagBoundaryCreated         uint8 = 3
	payloadTagBoundaryTypeChanged     uint8 = 4
	payloadTagBoundaryGeometryUpdated uint8 = 5
	payloadTagBoundaryRetired         uint8 = 6
	payloadTagJunctionCreated         uint8 = 7
	payloadTagJunctionUpdated         uint8 = 8
	payloadTagJunctionRetired         uint8 = 9
	payloadTagMotionSegmentUpserted   uint8 = 10
	payloadTagMotionSegmentRetired    uint8 = 11
	payloadTagModelAssigned           uint8 = 12
)

// EventPayload is a sealed interface over the twelve event kinds the
// materializer reduces (spec §3, §4.3). The canonical encoding of a
// payload is its tag byte followed by its field encoding in the order
// declared on each type.
type EventPayload interface {
	CanonicalEncodable
	payloadTag() uint8
	Kind() string
}

// PlateCreated introduces a new plate to the topology stream.
type PlateCreated struct {
	PlateID string
}

func (PlateCreated) payloadTag() uint8 { return payloadTagPlateCreated }
func (PlateCreated) Kind() string      { return "PlateCreated" }
func (p PlateCreated) CanonicalEncode(w *Writer) {
	w.WriteString(p.PlateID)
}

// PlateRetired marks a plate as retired, with a human-readable reason.
type PlateRetired struct {
	PlateID string
	Reason  string
}

func (PlateRetired) payloadTag() uint8 { return payloadTagPlateRetired }
func (PlateRetired) Kind() string      { return "PlateRetired" }
func (p PlateRetired) CanonicalEncode(w *Writer) {
	w.WriteString(p.PlateID)
	w.WriteString(p.Reason)
}

// BoundaryCreated introduces a new boundary between two plates.
type BoundaryCreated struct {
	BoundaryID     string
	LeftPlate      string
	RightPlate     string
	Classification BoundaryClass
	Geometry       Geometry
}

func (BoundaryCreated) payloadTag() uint8 { return payloadTagBoundaryCreated }
func (BoundaryCreated) Kind() string      { return "BoundaryCreated" }
func (b BoundaryCreated) CanonicalEncode(w *Writer) {
	w.WriteString(b.BoundaryID)
	w.WriteString(b.LeftPlate)
	w.WriteString(b.RightPlate)
	w.WriteEnumTag(uint8(b.Classification))
	b.Geometry.CanonicalEncode(w)
}

// BoundaryTypeChanged reclassifies an existing boundary.
type BoundaryTypeChanged struct {
	BoundaryID     string
	Classification BoundaryClass
}

func (BoundaryTypeChanged) payloadTag() uint8 { return payloadTagBoundaryTypeChanged }
func (BoundaryTypeChanged) Kind() string      { return "BoundaryTypeChanged" }
func (b BoundaryTypeChanged) CanonicalEncode(w *Writer) {
	w.WriteString(b.BoundaryID)
	w.WriteEnumTag(uint8(b.Classification))
}

// BoundaryGeometryUpdated replaces a boundary's polyline.
type BoundaryGeometryUpdated struct {
	BoundaryID string
	Geometry   Geometry
}

func (BoundaryGeometryUpdated) payloadTag() uint8 { return payloadTagBoundaryGeometryUpdated }
func (BoundaryGeometryUpdated) Kind() string      { return "BoundaryGeometryUpdated" }
func (b BoundaryGeometryUpdated) CanonicalEncode(w *Writer) {
	w.WriteString(b.BoundaryID)
	b.Geometry.CanonicalEncode(w)
}

// BoundaryRetired marks a boundary as retired.
type BoundaryRetired struct {
	BoundaryID string
	Reason     string
}

func (BoundaryRetired) payloadTag() uint8 { return payloadTagBoundaryRetired }
func (BoundaryRetired) Kind() string      { return "BoundaryRetired" }
func (b BoundaryRetired) CanonicalEncode(w *Writer) {
	w.WriteString(b.BoundaryID)
	w.WriteString(b.Reason)
}

// JunctionCreated introduces a new junction among incident boundaries.
type JunctionCreated struct {
	JunctionID          string
	IncidentBoundaryIDs []string
	Location            Point
}

func (JunctionCreated) payloadTag() uint8 { return payloadTagJunctionCreated }
func (JunctionCreated) Kind() string      { return "JunctionCreated" }
func (j JunctionCreated) CanonicalEncode(w *Writer) {
	w.WriteString(j.JunctionID)
	w.WriteArrayLen(len(j.IncidentBoundaryIDs))
	for _, id := range j.IncidentBoundaryIDs {
		w.WriteString(id)
	}
	j.Location.CanonicalEncode(w)
}

// JunctionUpdated replaces a junction's incident-boundary set and/or location.
type JunctionUpdated struct {
	JunctionID          string
	IncidentBoundaryIDs []string
	Location            Point
}

func (JunctionUpdated) payloadTag() uint8 { return payloadTagJunctionUpdated }
func (JunctionUpdated) Kind() string      { return "JunctionUpdated" }
func (j JunctionUpdated) CanonicalEncode(w *Writer) {
	w.WriteString(j.JunctionID)
	w.WriteArrayLen(len(j.IncidentBoundaryIDs))
	for _, id := range j.IncidentBoundaryIDs {
		w.WriteString(id)
	}
	j.Location.CanonicalEncode(w)
}

// JunctionRetired marks a junction as retired.
type JunctionRetired struct {
	JunctionID string
	Reason     string
}

func (JunctionRetired) payloadTag() uint8 { return payloadTagJunctionRetired }
func (JunctionRetired) Kind() string      { return "JunctionRetired" }
func (j JunctionRetired) CanonicalEncode(w *Writer) {
	w.WriteString(j.JunctionID)
	w.WriteString(j.Reason)
}

// MotionSegmentUpserted creates or replaces a plate's motion segment over
// a validity interval [TickA, TickB), carrying a quantized Euler pole and
// rotation angle in micro-degrees.
type MotionSegmentUpserted struct {
	PlateID           string
	SegmentID         string
	TickA             int64
	TickB             int64
	Pole              Point
	AngleMicrodegrees int64
}

func (MotionSegmentUpserted) payloadTag() uint8 { return payloadTagMotionSegmentUpserted }
func (MotionSegmentUpserted) Kind() string      { return "MotionSegmentUpserted" }
func (m MotionSegmentUpserted) CanonicalEncode(w *Writer) {
	w.WriteString(m.PlateID)
	w.WriteString(m.SegmentID)
	w.WriteInt64(m.TickA)
	w.WriteInt64(m.TickB)
	m.Pole.CanonicalEncode(w)
	w.WriteInt64(m.AngleMicrodegrees)
}

// MotionSegmentRetired marks a motion segment as retired.
type MotionSegmentRetired struct {
	PlateID   string
	SegmentID string
}

func (MotionSegmentRetired) payloadTag() uint8 { return payloadTagMotionSegmentRetired }
func (MotionSegmentRetired) Kind() string      { return "MotionSegmentRetired" }
func (m MotionSegmentRetired) CanonicalEncode(w *Writer) {
	w.WriteString(m.PlateID)
	w.WriteString(m.SegmentID)
}

// ModelAssigned assigns a motion model to a plate.
type ModelAssigned struct {
	PlateID string
	ModelID string
}

func (ModelAssigned) payloadTag() uint8 { return payloadTagModelAssigned }
func (ModelAssigned) Kind() string      { return "ModelAssigned" }
func (m ModelAssigned) CanonicalEncode(w *Writer) {
	w.WriteString(m.PlateID)
	w.WriteString(m.ModelID)
}

// EncodePayload writes a payload's tag byte followed by its field encoding.
func EncodePayload(w *Writer, p EventPayload) {
	w.WriteEnumTag(p.payloadTag())
	p.CanonicalEncode(w)
}

// DecodePayload reads a tag byte and dispatches to the matching variant's decoder.
func DecodePayload(r *Reader) (EventPayload, error) {
	tag, err := r.ReadEnumTag()
	if err != nil {
		return nil, err
	}
	switch tag {
	case payloadTagPlateCreated:
		plateID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return PlateCreated{PlateID: plateID}, nil
	case payloadTagPlateRetired:
		plateID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		reason, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return PlateRetired{PlateID: plateID, Reason: reason}, nil
	case payloadTagBoundaryCreated:
		boundaryID, err := r.ReadString()
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
		geom, err := DecodeGeometry(r)
		if err != nil {
			return nil, err
		}
		return BoundaryCreated{
			BoundaryID: boundaryID, LeftPlate: left, RightPlate: right,
			Classification: BoundaryClass(class), Geometry: geom,
		}, nil
	case payloadTagBoundaryTypeChanged:
		boundaryID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		class, err := r.ReadEnumTag()
		if err != nil {
			return nil, err
		}
		return BoundaryTypeChanged{BoundaryID: boundaryID, Classification: BoundaryClass(class)}, nil
	case payloadTagBoundaryGeometryUpdated:
		boundaryID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		geom, err := DecodeGeometry(r)
		if err != nil {
			return nil, err
		}
		return BoundaryGeometryUpdated{BoundaryID: boundaryID, Geometry: geom}, nil
	case payloadTagBoundaryRetired:
		boundaryID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		reason, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return BoundaryRetired{BoundaryID: boundaryID, Reason: reason}, nil
	case payloadTagJunctionCreated:
		junctionID, ids, loc, err := decodeJunctionFields(r)
		if err != nil {
			return nil, err
		}
		return JunctionCreated{JunctionID: junctionID, IncidentBoundaryIDs: ids, Location: loc}, nil
	case payloadTagJunctionUpdated:
		junctionID, ids, loc, err := decodeJunctionFields(r)
		if err != nil {
			return nil, err
		}
		return JunctionUpdated{JunctionID: junctionID, IncidentBoundaryIDs: ids, Location: loc}, nil
	case payloadTagJunctionRetired:
		junctionID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		reason, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return JunctionRetired{JunctionID: junctionID, Reason: reason}, nil
	case payloadTagMotionSegmentUpserted:
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
		pole, err := DecodePoint(r)
		if err != nil {
			return nil, err
		}
		angle, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return MotionSegmentUpserted{
			PlateID: plateID, SegmentID: segmentID, TickA: tickA, TickB: tickB,
			Pole: pole, AngleMicrodegrees: angle,
		}, nil
	case payloadTagMotionSegmentRetired:
		plateID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		segmentID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return MotionSegmentRetired{PlateID: plateID, SegmentID: segmentID}, nil
	case payloadTagModelAssigned:
		plateID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		modelID, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return ModelAssigned{PlateID: plateID, ModelID: modelID}, nil
	default:
		return nil, fmt.Errorf("canonical decode: unknown payload tag %d", tag)
	}
}

func decodeJunctionFields(r *Reader) (id string, incidentIDs []string, loc Point, err error) {
	if id, err = r.ReadString(); err != nil {
		return
	}
	n, err := r.ReadArrayLen()
	if err != nil {
		return
	}
	incidentIDs = make([]string, n)
	for i := range incidentIDs {
		if incidentIDs[i], err = r.ReadString(); err != nil {
			return
		}
	}
	loc, err = DecodePoint(r)
	return
}

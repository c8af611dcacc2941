package materializer

import "github.com/ptsim/truthcore/internal/ir"

// applyTopology folds a single payload into a topology snapshot. Unknown
// payload kinds (kinematics events arriving on a topology stream) are
// ignored — callers only route events of one kind to one reducer, but a
// mis-tagged stream should degrade gracefully rather than panic.
func applyTopology(snap *ir.TopologySnapshot, payload ir.EventPayload) {
	switch p := payload.(type) {
	case ir.PlateCreated:
		snap.Plates[p.PlateID] = &ir.Plate{PlateID: p.PlateID}
	case ir.PlateRetired:
		if plate, ok := snap.Plates[p.PlateID]; ok {
			plate.Retired = true
			plate.Reason = p.Reason
		}
	case ir.BoundaryCreated:
		snap.Boundaries[p.BoundaryID] = &ir.Boundary{
			BoundaryID:     p.BoundaryID,
			LeftPlate:      p.LeftPlate,
			RightPlate:     p.RightPlate,
			Classification: p.Classification,
			Geometry:       p.Geometry,
		}
	case ir.BoundaryTypeChanged:
		if b, ok := snap.Boundaries[p.BoundaryID]; ok {
			b.Classification = p.Classification
		}
	case ir.BoundaryGeometryUpdated:
		if b, ok := snap.Boundaries[p.BoundaryID]; ok {
			b.Geometry = p.Geometry
		}
	case ir.BoundaryRetired:
		if b, ok := snap.Boundaries[p.BoundaryID]; ok {
			b.Retired = true
			b.Reason = p.Reason
		}
	case ir.JunctionCreated:
		snap.Junctions[p.JunctionID] = &ir.Junction{
			JunctionID:          p.JunctionID,
			IncidentBoundaryIDs: append([]string(nil), p.IncidentBoundaryIDs...),
			Location:            p.Location,
		}
	case ir.JunctionUpdated:
		if j, ok := snap.Junctions[p.JunctionID]; ok {
			j.IncidentBoundaryIDs = append([]string(nil), p.IncidentBoundaryIDs...)
			j.Location = p.Location
		}
	case ir.JunctionRetired:
		if j, ok := snap.Junctions[p.JunctionID]; ok {
			j.Retired = true
			j.Reason = p.Reason
		}
	}
}

// applyKinematics folds a single payload into a kinematics view.
func applyKinematics(view *ir.KinematicsView, payload ir.EventPayload) {
	switch p := payload.(type) {
	case ir.MotionSegmentUpserted:
		key := segmentMapKey(p.PlateID, p.SegmentID)
		view.Segments[key] = &ir.MotionSegment{
			PlateID:           p.PlateID,
			SegmentID:         p.SegmentID,
			TickA:             p.TickA,
			TickB:             p.TickB,
			Pole:              p.Pole,
			AngleMicrodegrees: p.AngleMicrodegrees,
		}
	case ir.MotionSegmentRetired:
		key := segmentMapKey(p.PlateID, p.SegmentID)
		if seg, ok := view.Segments[key]; ok {
			seg.Retired = true
		}
	case ir.ModelAssigned:
		view.ModelAssignments[p.PlateID] = p.ModelID
	}
}

// segmentMapKey mirrors ir's unexported segmentKey so the reducer can key
// into KinematicsView.Segments without ir needing to export it.
func segmentMapKey(plateID, segmentID string) string {
	return plateID + "\x1f" + segmentID
}

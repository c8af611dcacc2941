package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ptsim/truthcore/internal/ir"
)

// draftJSON is the on-disk shape accepted by `tectctl stream append`: a
// tick, a payload kind matching ir.EventPayload.Kind(), and kind-specific
// fields.
type draftJSON struct {
	Tick   int64           `json:"tick"`
	Kind   string          `json:"kind"`
	Fields json.RawMessage `json:"fields"`
}

func decodeDrafts(data []byte) ([]ir.EventDraft, error) {
	var raw []draftJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding drafts: %w", err)
	}

	drafts := make([]ir.EventDraft, 0, len(raw))
	for i, r := range raw {
		payload, err := decodePayloadJSON(r.Kind, r.Fields)
		if err != nil {
			return nil, fmt.Errorf("draft %d (%s): %w", i, r.Kind, err)
		}
		drafts = append(drafts, ir.EventDraft{Tick: r.Tick, Payload: payload})
	}
	return drafts, nil
}

func decodePoint(raw json.RawMessage) (ir.Point, error) {
	var p struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	if len(raw) == 0 {
		return ir.Point{}, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return ir.Point{}, err
	}
	return ir.Point{X: p.X, Y: p.Y, Z: p.Z}, nil
}

func decodeBoundaryClass(s string) (ir.BoundaryClass, error) {
	switch s {
	case "Divergent":
		return ir.BoundaryDivergent, nil
	case "Convergent":
		return ir.BoundaryConvergent, nil
	case "Transform":
		return ir.BoundaryTransform, nil
	default:
		return 0, fmt.Errorf("unknown boundary classification %q", s)
	}
}

func decodePayloadJSON(kind string, fields json.RawMessage) (ir.EventPayload, error) {
	switch kind {
	case "PlateCreated":
		var f struct {
			PlateID string `json:"plate_id"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.PlateCreated{PlateID: f.PlateID}, nil

	case "PlateRetired":
		var f struct {
			PlateID string `json:"plate_id"`
			Reason  string `json:"reason"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.PlateRetired{PlateID: f.PlateID, Reason: f.Reason}, nil

	case "BoundaryCreated":
		var f struct {
			BoundaryID     string `json:"boundary_id"`
			LeftPlate      string `json:"left_plate"`
			RightPlate     string `json:"right_plate"`
			Classification string `json:"classification"`
			Geometry       string `json:"geometry"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		class, err := decodeBoundaryClass(f.Classification)
		if err != nil {
			return nil, err
		}
		return ir.BoundaryCreated{
			BoundaryID: f.BoundaryID, LeftPlate: f.LeftPlate, RightPlate: f.RightPlate,
			Classification: class, Geometry: ir.Geometry(f.Geometry),
		}, nil

	case "BoundaryTypeChanged":
		var f struct {
			BoundaryID     string `json:"boundary_id"`
			Classification string `json:"classification"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		class, err := decodeBoundaryClass(f.Classification)
		if err != nil {
			return nil, err
		}
		return ir.BoundaryTypeChanged{BoundaryID: f.BoundaryID, Classification: class}, nil

	case "BoundaryGeometryUpdated":
		var f struct {
			BoundaryID string `json:"boundary_id"`
			Geometry   string `json:"geometry"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.BoundaryGeometryUpdated{BoundaryID: f.BoundaryID, Geometry: ir.Geometry(f.Geometry)}, nil

	case "BoundaryRetired":
		var f struct {
			BoundaryID string `json:"boundary_id"`
			Reason     string `json:"reason"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.BoundaryRetired{BoundaryID: f.BoundaryID, Reason: f.Reason}, nil

	case "JunctionCreated":
		var f struct {
			JunctionID          string          `json:"junction_id"`
			IncidentBoundaryIDs []string        `json:"incident_boundary_ids"`
			Location            json.RawMessage `json:"location"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		loc, err := decodePoint(f.Location)
		if err != nil {
			return nil, err
		}
		return ir.JunctionCreated{JunctionID: f.JunctionID, IncidentBoundaryIDs: f.IncidentBoundaryIDs, Location: loc}, nil

	case "JunctionUpdated":
		var f struct {
			JunctionID          string          `json:"junction_id"`
			IncidentBoundaryIDs []string        `json:"incident_boundary_ids"`
			Location            json.RawMessage `json:"location"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		loc, err := decodePoint(f.Location)
		if err != nil {
			return nil, err
		}
		return ir.JunctionUpdated{JunctionID: f.JunctionID, IncidentBoundaryIDs: f.IncidentBoundaryIDs, Location: loc}, nil

	case "JunctionRetired":
		var f struct {
			JunctionID string `json:"junction_id"`
			Reason     string `json:"reason"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.JunctionRetired{JunctionID: f.JunctionID, Reason: f.Reason}, nil

	case "MotionSegmentUpserted":
		var f struct {
			PlateID           string          `json:"plate_id"`
			SegmentID         string          `json:"segment_id"`
			TickA             int64           `json:"tick_a"`
			TickB             int64           `json:"tick_b"`
			Pole              json.RawMessage `json:"pole"`
			AngleMicrodegrees int64           `json:"angle_microdegrees"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		pole, err := decodePoint(f.Pole)
		if err != nil {
			return nil, err
		}
		return ir.MotionSegmentUpserted{
			PlateID: f.PlateID, SegmentID: f.SegmentID, TickA: f.TickA, TickB: f.TickB,
			Pole: pole, AngleMicrodegrees: f.AngleMicrodegrees,
		}, nil

	case "MotionSegmentRetired":
		var f struct {
			PlateID   string `json:"plate_id"`
			SegmentID string `json:"segment_id"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.MotionSegmentRetired{PlateID: f.PlateID, SegmentID: f.SegmentID}, nil

	case "ModelAssigned":
		var f struct {
			PlateID string `json:"plate_id"`
			ModelID string `json:"model_id"`
		}
		if err := json.Unmarshal(fields, &f); err != nil {
			return nil, err
		}
		return ir.ModelAssigned{PlateID: f.PlateID, ModelID: f.ModelID}, nil

	default:
		return nil, fmt.Errorf("unknown payload kind %q", kind)
	}
}

// Package harness provides a conformance testing framework for the
// deterministic truth substrate: it loads a scenario, appends its batches of
// event drafts to a stream, materializes the requested views, and checks
// them against assertions.
//
// Unlike a generic record/replay test double, the harness talks to a real
// *store.Store and a real materializer — there is no mocked engine or
// manufactured result to fall prey to the tautology that a trace-manufacturing
// harness is vulnerable to. What the harness checks is exactly what Append
// and Materialize* would produce for any other caller.
package harness

import (
	"context"
	"fmt"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/materializer"
	"github.com/ptsim/truthcore/internal/store"
)

// Run executes a scenario against a fresh in-memory store: appends every
// batch in order, then evaluates each materialize_at block's assertions.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	return RunAgainst(ctx, st, scenario)
}

// RunAgainst executes a scenario against the given store, so callers that
// need to inspect store state afterward (or share a store across scenarios)
// can supply their own.
func RunAgainst(ctx context.Context, st *store.Store, scenario *Scenario) (*Result, error) {
	stream := ir.StreamIdentity{
		VariantID: scenario.Stream.VariantID,
		BranchID:  scenario.Stream.BranchID,
		Level:     scenario.Stream.Level,
		Domain:    scenario.Stream.Domain,
		Model:     scenario.Stream.Model,
	}

	tickPolicy, err := ir.ParseTickPolicy(scenario.TickPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid tick_policy: %w", err)
	}

	result := NewResult()

	for i, batch := range scenario.Batches {
		drafts, err := decodeDrafts(batch.Drafts)
		if err != nil {
			return nil, fmt.Errorf("batches[%d]: %w", i, err)
		}

		head, err := st.Append(ctx, stream, drafts, ir.AppendOptions{
			TickPolicy:   tickPolicy,
			ExpectedHead: ir.ExpectedHead{AnyHead: true},
		})
		if err != nil {
			result.AddError(fmt.Sprintf("batches[%d]: append failed: %v", i, err))
			return result, nil
		}
		result.AddBatch(i, head)
	}

	for i, check := range scenario.MaterializeAt {
		var view interface{}
		switch check.Kind {
		case "topology":
			view, err = materializer.MaterializeTopology(ctx, st, stream, check.TargetTick)
		case "kinematics":
			view, err = materializer.MaterializeKinematics(ctx, st, stream, check.TargetTick)
		default:
			err = fmt.Errorf("unknown kind %q", check.Kind)
		}
		if err != nil {
			result.AddError(fmt.Sprintf("materialize_at[%d]: %v", i, err))
			continue
		}

		for _, msg := range EvaluateAssertions(check, view) {
			result.AddError(fmt.Sprintf("materialize_at[%d]: %s", i, msg))
		}
	}

	return result, nil
}

// decodeDrafts converts a batch's YAML-decoded DraftSpecs into ir.EventDraft
// values ready for Append.
func decodeDrafts(specs []DraftSpec) ([]ir.EventDraft, error) {
	drafts := make([]ir.EventDraft, 0, len(specs))
	for i, spec := range specs {
		payload, err := decodePayload(spec.Kind, spec.Fields)
		if err != nil {
			return nil, fmt.Errorf("drafts[%d] (%s): %w", i, spec.Kind, err)
		}
		drafts = append(drafts, ir.EventDraft{Tick: spec.Tick, Payload: payload})
	}
	return drafts, nil
}

func fieldString(fields map[string]interface{}, key string) string {
	v, _ := fields[key].(string)
	return v
}

func fieldInt64(fields map[string]interface{}, key string) int64 {
	switch v := fields[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func fieldStringSlice(fields map[string]interface{}, key string) []string {
	raw, ok := fields[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func fieldPoint(fields map[string]interface{}, key string) ir.Point {
	raw, ok := fields[key].(map[string]interface{})
	if !ok {
		return ir.Point{}
	}
	return ir.Point{X: fieldFloat(raw, "x"), Y: fieldFloat(raw, "y"), Z: fieldFloat(raw, "z")}
}

func fieldFloat(fields map[string]interface{}, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
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

// decodePayload mirrors internal/cli/payload.go's decodePayloadJSON switch,
// adapted for YAML-decoded map[string]interface{} fields instead of raw JSON.
func decodePayload(kind string, fields map[string]interface{}) (ir.EventPayload, error) {
	switch kind {
	case "PlateCreated":
		return ir.PlateCreated{PlateID: fieldString(fields, "plate_id")}, nil

	case "PlateRetired":
		return ir.PlateRetired{PlateID: fieldString(fields, "plate_id"), Reason: fieldString(fields, "reason")}, nil

	case "BoundaryCreated":
		class, err := decodeBoundaryClass(fieldString(fields, "classification"))
		if err != nil {
			return nil, err
		}
		return ir.BoundaryCreated{
			BoundaryID: fieldString(fields, "boundary_id"),
			LeftPlate:  fieldString(fields, "left_plate"),
			RightPlate: fieldString(fields, "right_plate"),
			Classification: class,
			Geometry:   ir.Geometry(fieldString(fields, "geometry")),
		}, nil

	case "BoundaryTypeChanged":
		class, err := decodeBoundaryClass(fieldString(fields, "classification"))
		if err != nil {
			return nil, err
		}
		return ir.BoundaryTypeChanged{BoundaryID: fieldString(fields, "boundary_id"), Classification: class}, nil

	case "BoundaryGeometryUpdated":
		return ir.BoundaryGeometryUpdated{
			BoundaryID: fieldString(fields, "boundary_id"),
			Geometry:   ir.Geometry(fieldString(fields, "geometry")),
		}, nil

	case "BoundaryRetired":
		return ir.BoundaryRetired{BoundaryID: fieldString(fields, "boundary_id"), Reason: fieldString(fields, "reason")}, nil

	case "JunctionCreated":
		return ir.JunctionCreated{
			JunctionID:          fieldString(fields, "junction_id"),
			IncidentBoundaryIDs: fieldStringSlice(fields, "incident_boundary_ids"),
			Location:            fieldPoint(fields, "location"),
		}, nil

	case "JunctionUpdated":
		return ir.JunctionUpdated{
			JunctionID:          fieldString(fields, "junction_id"),
			IncidentBoundaryIDs: fieldStringSlice(fields, "incident_boundary_ids"),
			Location:            fieldPoint(fields, "location"),
		}, nil

	case "JunctionRetired":
		return ir.JunctionRetired{JunctionID: fieldString(fields, "junction_id"), Reason: fieldString(fields, "reason")}, nil

	case "MotionSegmentUpserted":
		return ir.MotionSegmentUpserted{
			PlateID:           fieldString(fields, "plate_id"),
			SegmentID:         fieldString(fields, "segment_id"),
			TickA:             fieldInt64(fields, "tick_a"),
			TickB:             fieldInt64(fields, "tick_b"),
			Pole:              fieldPoint(fields, "pole"),
			AngleMicrodegrees: fieldInt64(fields, "angle_microdegrees"),
		}, nil

	case "MotionSegmentRetired":
		return ir.MotionSegmentRetired{PlateID: fieldString(fields, "plate_id"), SegmentID: fieldString(fields, "segment_id")}, nil

	case "ModelAssigned":
		return ir.ModelAssigned{PlateID: fieldString(fields, "plate_id"), ModelID: fieldString(fields, "model_id")}, nil

	default:
		return nil, fmt.Errorf("unknown payload kind %q", kind)
	}
}

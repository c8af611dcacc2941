package harness

import (
	"fmt"

	"github.com/ptsim/truthcore/internal/ir"
)

// AssertionError is returned when an assertion fails against a materialized
// view.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion %s failed: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion in the check against view, which
// must be an *ir.TopologySnapshot for check.Kind == "topology" or an
// *ir.KinematicsView for check.Kind == "kinematics". Returns one error
// message per failed assertion.
func EvaluateAssertions(check MaterializeCheck, view interface{}) []string {
	var errors []string
	for i, a := range check.Assertions {
		var err error
		switch a.Type {
		case AssertPlateCount:
			err = assertPlateCount(a, view)
		case AssertPlateExists:
			err = assertPlateExists(a, view)
		case AssertBoundaryCount:
			err = assertBoundaryCount(a, view)
		case AssertBoundaryClassification:
			err = assertBoundaryClassification(a, view)
		case AssertJunctionIncidentCount:
			err = assertJunctionIncidentCount(a, view)
		case AssertSegmentCount:
			err = assertSegmentCount(a, view)
		case AssertModelAssignment:
			err = assertModelAssignment(a, view)
		default:
			err = fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

func asTopology(view interface{}) (*ir.TopologySnapshot, error) {
	snap, ok := view.(*ir.TopologySnapshot)
	if !ok {
		return nil, fmt.Errorf("assertion requires a topology snapshot, got %T", view)
	}
	return snap, nil
}

func asKinematics(view interface{}) (*ir.KinematicsView, error) {
	kview, ok := view.(*ir.KinematicsView)
	if !ok {
		return nil, fmt.Errorf("assertion requires a kinematics view, got %T", view)
	}
	return kview, nil
}

func assertPlateCount(a Assertion, view interface{}) error {
	snap, err := asTopology(view)
	if err != nil {
		return err
	}
	if len(snap.Plates) != a.Count {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d plates", a.Count), Actual: fmt.Sprintf("%d plates", len(snap.Plates))}
	}
	return nil
}

func assertPlateExists(a Assertion, view interface{}) error {
	snap, err := asTopology(view)
	if err != nil {
		return err
	}
	plate, found := snap.Plates[a.ID]
	if !found {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("plate %s present", a.ID), Actual: "not found"}
	}
	if a.Retired != nil && plate.Retired != *a.Retired {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("retired=%v", *a.Retired), Actual: fmt.Sprintf("retired=%v", plate.Retired)}
	}
	return nil
}

func assertBoundaryCount(a Assertion, view interface{}) error {
	snap, err := asTopology(view)
	if err != nil {
		return err
	}
	if len(snap.Boundaries) != a.Count {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d boundaries", a.Count), Actual: fmt.Sprintf("%d boundaries", len(snap.Boundaries))}
	}
	return nil
}

func assertBoundaryClassification(a Assertion, view interface{}) error {
	snap, err := asTopology(view)
	if err != nil {
		return err
	}
	boundary, found := snap.Boundaries[a.ID]
	if !found {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("boundary %s present", a.ID), Actual: "not found"}
	}
	actual := boundary.Classification.String()
	if actual != a.Classification {
		return &AssertionError{Type: a.Type, Expected: a.Classification, Actual: actual}
	}
	return nil
}

func assertJunctionIncidentCount(a Assertion, view interface{}) error {
	snap, err := asTopology(view)
	if err != nil {
		return err
	}
	junction, found := snap.Junctions[a.ID]
	if !found {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("junction %s present", a.ID), Actual: "not found"}
	}
	if len(junction.IncidentBoundaryIDs) != a.IncidentCount {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d incident boundaries", a.IncidentCount), Actual: fmt.Sprintf("%d incident boundaries", len(junction.IncidentBoundaryIDs))}
	}
	return nil
}

func assertSegmentCount(a Assertion, view interface{}) error {
	kview, err := asKinematics(view)
	if err != nil {
		return err
	}
	if len(kview.Segments) != a.Count {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d segments", a.Count), Actual: fmt.Sprintf("%d segments", len(kview.Segments))}
	}
	return nil
}

func assertModelAssignment(a Assertion, view interface{}) error {
	kview, err := asKinematics(view)
	if err != nil {
		return err
	}
	assigned, found := kview.ModelAssignments[a.ID]
	if !found {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("model assignment for %s present", a.ID), Actual: "not found"}
	}
	if assigned != a.ModelID {
		return &AssertionError{Type: a.Type, Expected: a.ModelID, Actual: assigned}
	}
	return nil
}

package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a stream identity, one or
// more batches of event drafts appended in order, and one or more
// materializations to check with assertions.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Stream is the identity of the stream every batch is appended to.
	Stream StreamRef `yaml:"stream"`

	// TickPolicy governs how out-of-order ticks across batches are
	// handled. Defaults to "Allow" if empty.
	TickPolicy string `yaml:"tick_policy,omitempty"`

	// Batches are appended to Stream in order, each via a single Append call.
	Batches []Batch `yaml:"batches"`

	// MaterializeAt lists the views to fold and check with assertions.
	MaterializeAt []MaterializeCheck `yaml:"materialize_at"`
}

// StreamRef identifies the stream a scenario exercises.
type StreamRef struct {
	VariantID string `yaml:"variant_id"`
	BranchID  string `yaml:"branch_id"`
	Level     int32  `yaml:"level"`
	Domain    string `yaml:"domain"`
	Model     string `yaml:"model"`
}

// Batch is a single ordered group of event drafts appended in one Append call.
type Batch struct {
	Drafts []DraftSpec `yaml:"drafts"`
}

// DraftSpec is the YAML shape of one event draft: a tick, a payload kind
// matching ir.EventPayload.Kind(), and kind-specific fields.
type DraftSpec struct {
	Tick   int64                  `yaml:"tick"`
	Kind   string                 `yaml:"kind"`
	Fields map[string]interface{} `yaml:"fields"`
}

// MaterializeCheck folds the stream to TargetTick via the named view Kind
// and evaluates Assertions against the result.
type MaterializeCheck struct {
	// Kind is "topology" or "kinematics".
	Kind       string `yaml:"kind"`
	TargetTick int64  `yaml:"target_tick"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a materialized view.
type Assertion struct {
	// Type selects the assertion: plate_count, plate_exists,
	// boundary_count, boundary_classification, junction_incident_count,
	// segment_count, model_assignment. See assertions.go.
	Type string `yaml:"type"`

	ID             string `yaml:"id,omitempty"`              // plate_id / boundary_id / junction_id, per Type
	Count          int    `yaml:"count,omitempty"`            // expected count
	Retired        *bool  `yaml:"retired,omitempty"`          // expected retired flag
	Classification string `yaml:"classification,omitempty"`   // expected BoundaryClass name
	IncidentCount  int    `yaml:"incident_count,omitempty"`   // expected len(IncidentBoundaryIDs)
	ModelID        string `yaml:"model_id,omitempty"`         // expected assigned model
}

// Assertion type constants.
const (
	AssertPlateCount             = "plate_count"
	AssertPlateExists            = "plate_exists"
	AssertBoundaryCount          = "boundary_count"
	AssertBoundaryClassification = "boundary_classification"
	AssertJunctionIncidentCount  = "junction_incident_count"
	AssertSegmentCount           = "segment_count"
	AssertModelAssignment        = "model_assignment"
)

// LoadScenario reads and parses a scenario YAML file. Strict field
// validation (KnownFields) catches typos like "assertion:" vs "assertions:".
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.TickPolicy == "" {
		scenario.TickPolicy = "Allow"
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Stream.VariantID == "" || s.Stream.BranchID == "" || s.Stream.Domain == "" || s.Stream.Model == "" {
		return fmt.Errorf("stream: variant_id, branch_id, domain, and model are all required")
	}
	if len(s.Batches) == 0 {
		return fmt.Errorf("batches list is required and must be non-empty")
	}
	for i, batch := range s.Batches {
		if len(batch.Drafts) == 0 {
			return fmt.Errorf("batches[%d]: drafts list must be non-empty", i)
		}
		for j, draft := range batch.Drafts {
			if draft.Kind == "" {
				return fmt.Errorf("batches[%d].drafts[%d]: kind is required", i, j)
			}
		}
	}
	if len(s.MaterializeAt) == 0 {
		return fmt.Errorf("materialize_at list is required and must be non-empty")
	}
	for i, check := range s.MaterializeAt {
		if check.Kind != "topology" && check.Kind != "kinematics" {
			return fmt.Errorf("materialize_at[%d]: kind must be topology or kinematics, got %q", i, check.Kind)
		}
		for j, assertion := range check.Assertions {
			if err := validateAssertion(i, j, &assertion); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAssertion(checkIndex, index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("materialize_at[%d].assertions[%d]: type is required", checkIndex, index)
	}
	switch a.Type {
	case AssertPlateCount, AssertBoundaryCount, AssertSegmentCount:
		// Count is used directly; zero is a valid expectation.
	case AssertPlateExists, AssertBoundaryClassification, AssertJunctionIncidentCount, AssertModelAssignment:
		if a.ID == "" {
			return fmt.Errorf("materialize_at[%d].assertions[%d]: id is required for %s", checkIndex, index, a.Type)
		}
	default:
		return fmt.Errorf("materialize_at[%d].assertions[%d]: unknown assertion type %q", checkIndex, index, a.Type)
	}
	return nil
}

package harness

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScenarioFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write scenario file: %v", err)
	}
	return path
}

const minimalScenarioYAML = `
name: single_plate
description: a single plate appears after creation
stream:
  variant_id: v1
  branch_id: main
  level: 0
  domain: plate.topology
  model: uniform
batches:
  - drafts:
      - tick: 0
        kind: PlateCreated
        fields:
          plate_id: p1
materialize_at:
  - kind: topology
    target_tick: 0
    assertions:
      - type: plate_count
        count: 1
`

func TestLoadScenarioParsesMinimalFile(t *testing.T) {
	path := writeScenarioFile(t, minimalScenarioYAML)

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario() failed: %v", err)
	}

	if scenario.Name != "single_plate" {
		t.Errorf("expected name %q, got %q", "single_plate", scenario.Name)
	}
	if scenario.TickPolicy != "Allow" {
		t.Errorf("expected default tick_policy Allow, got %q", scenario.TickPolicy)
	}
	if len(scenario.Batches) != 1 || len(scenario.Batches[0].Drafts) != 1 {
		t.Fatalf("expected 1 batch with 1 draft, got %+v", scenario.Batches)
	}
	if scenario.Batches[0].Drafts[0].Kind != "PlateCreated" {
		t.Errorf("expected kind PlateCreated, got %q", scenario.Batches[0].Drafts[0].Kind)
	}
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenarioFile(t, minimalScenarioYAML+"\nbogus_field: true\n")

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestLoadScenarioRejectsMissingStreamFields(t *testing.T) {
	const missingDomain = `
name: bad
description: missing domain
stream:
  variant_id: v1
  branch_id: main
  level: 0
  model: uniform
batches:
  - drafts:
      - tick: 0
        kind: PlateCreated
        fields: { plate_id: p1 }
materialize_at:
  - kind: topology
    target_tick: 0
    assertions:
      - type: plate_count
        count: 1
`
	path := writeScenarioFile(t, missingDomain)

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for missing stream.domain, got nil")
	}
}

func TestLoadScenarioRejectsEmptyBatches(t *testing.T) {
	const noBatches = `
name: bad
description: no batches
stream:
  variant_id: v1
  branch_id: main
  level: 0
  domain: plate.topology
  model: uniform
batches: []
materialize_at:
  - kind: topology
    target_tick: 0
    assertions:
      - type: plate_count
        count: 0
`
	path := writeScenarioFile(t, noBatches)

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for empty batches, got nil")
	}
}

func TestLoadScenarioRejectsUnknownAssertionType(t *testing.T) {
	const badAssertion = `
name: bad
description: bad assertion
stream:
  variant_id: v1
  branch_id: main
  level: 0
  domain: plate.topology
  model: uniform
batches:
  - drafts:
      - tick: 0
        kind: PlateCreated
        fields: { plate_id: p1 }
materialize_at:
  - kind: topology
    target_tick: 0
    assertions:
      - type: not_a_real_assertion
`
	path := writeScenarioFile(t, badAssertion)

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for unknown assertion type, got nil")
	}
}

func TestLoadScenarioRejectsUnknownMaterializeKind(t *testing.T) {
	const badKind = `
name: bad
description: bad kind
stream:
  variant_id: v1
  branch_id: main
  level: 0
  domain: plate.topology
  model: uniform
batches:
  - drafts:
      - tick: 0
        kind: PlateCreated
        fields: { plate_id: p1 }
materialize_at:
  - kind: not_a_real_kind
    target_tick: 0
    assertions:
      - type: plate_count
        count: 1
`
	path := writeScenarioFile(t, badKind)

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected error for unknown materialize kind, got nil")
	}
}

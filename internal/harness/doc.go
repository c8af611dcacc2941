// Package harness provides conformance testing for the event-sourced truth
// substrate.
//
// The harness loads a scenario, appends its batches of event drafts to a
// stream, materializes the requested views, and validates them against
// assertions.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	stream:
//	  variant_id: v1
//	  branch_id: main
//	  level: 0
//	  domain: topology
//	  model: uniform
//	tick_policy: Allow
//	batches:
//	  - drafts:
//	      - tick: 0
//	        kind: PlateCreated
//	        fields: { plate_id: p1 }
//	materialize_at:
//	  - kind: topology
//	    target_tick: 0
//	    assertions:
//	      - type: plate_count
//	        count: 1
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - plate_count, boundary_count, segment_count: exact count over a view
//   - plate_exists: a plate id is present, optionally checking its retired flag
//   - boundary_classification: a boundary's classification matches exactly
//   - junction_incident_count: a junction's incident boundary count matches
//   - model_assignment: a plate's assigned model id matches
//
// # Determinism
//
// Each scenario runs against a fresh in-memory store. Because Append and
// Materialize* are themselves deterministic, two runs of the same scenario
// against the same store implementation always produce identical results.
//
// # Usage
//
// Load a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/subduction.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Execute it:
//
//	result, err := harness.Run(context.Background(), scenario)
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness

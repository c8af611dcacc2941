package harness

import (
	"context"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/materializer"
	"github.com/ptsim/truthcore/internal/store"
)

// AssertTopologyGolden runs scenario, materializes a topology view at
// targetTick, and compares its canonical encoding against the golden file
// testdata/golden/{scenario.Name}-topology.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertTopologyGolden(t *testing.T, scenario *Scenario, targetTick int64) {
	t.Helper()

	st, err := store.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to create in-memory store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := RunAgainst(ctx, st, scenario); err != nil {
		t.Fatalf("scenario run failed: %v", err)
	}

	stream := ir.StreamIdentity{
		VariantID: scenario.Stream.VariantID,
		BranchID:  scenario.Stream.BranchID,
		Level:     scenario.Stream.Level,
		Domain:    scenario.Stream.Domain,
		Model:     scenario.Stream.Model,
	}

	snapshot, err := materializer.MaterializeTopology(ctx, st, stream, targetTick)
	if err != nil {
		t.Fatalf("materialize topology: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, fmt.Sprintf("%s-topology", scenario.Name), ir.EncodeCanonical(*snapshot))
}

// AssertKinematicsGolden is AssertTopologyGolden's kinematics counterpart.
func AssertKinematicsGolden(t *testing.T, scenario *Scenario, targetTick int64) {
	t.Helper()

	st, err := store.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("failed to create in-memory store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := RunAgainst(ctx, st, scenario); err != nil {
		t.Fatalf("scenario run failed: %v", err)
	}

	stream := ir.StreamIdentity{
		VariantID: scenario.Stream.VariantID,
		BranchID:  scenario.Stream.BranchID,
		Level:     scenario.Stream.Level,
		Domain:    scenario.Stream.Domain,
		Model:     scenario.Stream.Model,
	}

	view, err := materializer.MaterializeKinematics(ctx, st, stream, targetTick)
	if err != nil {
		t.Fatalf("materialize kinematics: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, fmt.Sprintf("%s-kinematics", scenario.Name), ir.EncodeCanonical(*view))
}

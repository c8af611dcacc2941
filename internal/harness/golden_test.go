package harness

import (
	"bytes"
	"context"
	"testing"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/materializer"
	"github.com/ptsim/truthcore/internal/store"
)

// encodeTopologyAt runs scenario against a fresh store and returns the
// canonical encoding of its topology at targetTick.
func encodeTopologyAt(t *testing.T, scenario *Scenario, targetTick int64) []byte {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := RunAgainst(ctx, st, scenario); err != nil {
		t.Fatalf("RunAgainst() failed: %v", err)
	}

	stream := ir.StreamIdentity{
		VariantID: scenario.Stream.VariantID, BranchID: scenario.Stream.BranchID,
		Level: scenario.Stream.Level, Domain: scenario.Stream.Domain, Model: scenario.Stream.Model,
	}
	snap, err := materializer.MaterializeTopology(ctx, st, stream, targetTick)
	if err != nil {
		t.Fatalf("MaterializeTopology() failed: %v", err)
	}
	return ir.EncodeCanonical(*snap)
}

// TestGoldenEncodingIsReproducible asserts that two independent runs of the
// same scenario against distinct stores produce byte-identical canonical
// encodings, the property the golden-file comparison depends on.
func TestGoldenEncodingIsReproducible(t *testing.T) {
	scenario := plateCreationScenario()

	first := encodeTopologyAt(t, scenario, 10)
	second := encodeTopologyAt(t, scenario, 10)

	if !bytes.Equal(first, second) {
		t.Fatal("expected identical canonical encodings across runs")
	}
}

// TestGoldenEncodingReflectsSnapshotContent asserts the canonical encoding
// changes when the materialized content changes, so the comparison is
// actually sensitive to regressions rather than trivially passing.
func TestGoldenEncodingReflectsSnapshotContent(t *testing.T) {
	scenario := plateCreationScenario()
	baseline := encodeTopologyAt(t, scenario, 10)

	scenario.Batches[0].Drafts = append(scenario.Batches[0].Drafts, DraftSpec{
		Tick: 3, Kind: "PlateRetired", Fields: map[string]interface{}{"plate_id": "p1", "reason": "subducted"},
	})
	changed := encodeTopologyAt(t, scenario, 10)

	if bytes.Equal(baseline, changed) {
		t.Fatal("expected canonical encoding to change when plate is retired")
	}
}

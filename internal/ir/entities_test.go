package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopologySnapshotEncodingIndependentOfMapOrder(t *testing.T) {
	stream := StreamIdentity{VariantID: "baseline", BranchID: "main", Level: 0, Domain: "plate.topology", Model: "default"}

	snap1 := NewTopologySnapshot(stream, 100)
	snap1.Plates["p1"] = &Plate{PlateID: "p1"}
	snap1.Plates["p2"] = &Plate{PlateID: "p2", Retired: true, Reason: "subducted"}
	snap1.LastSequenceAtCapture = 10

	snap2 := NewTopologySnapshot(stream, 100)
	snap2.Plates["p2"] = &Plate{PlateID: "p2", Retired: true, Reason: "subducted"}
	snap2.Plates["p1"] = &Plate{PlateID: "p1"}
	snap2.LastSequenceAtCapture = 10

	assert.Equal(t, EncodeCanonical(*snap1), EncodeCanonical(*snap2),
		"encoding must be independent of Go map iteration order")
}

func TestTopologySnapshotEncodingChangesWithContent(t *testing.T) {
	stream := StreamIdentity{VariantID: "baseline", BranchID: "main", Level: 0, Domain: "plate.topology", Model: "default"}

	snap := NewTopologySnapshot(stream, 100)
	snap.Plates["p1"] = &Plate{PlateID: "p1"}
	before := EncodeCanonical(*snap)

	snap.Plates["p1"].Retired = true
	snap.Plates["p1"].Reason = "subducted"
	after := EncodeCanonical(*snap)

	assert.NotEqual(t, before, after)
}

func TestKinematicsViewEncodingSortsSegmentsAndAssignments(t *testing.T) {
	stream := StreamIdentity{VariantID: "baseline", BranchID: "main", Level: 0, Domain: "plate.motion", Model: "default"}

	v1 := NewKinematicsView(stream, 50)
	v1.Segments[segmentKey("p2", "s1")] = &MotionSegment{PlateID: "p2", SegmentID: "s1", TickB: 10}
	v1.Segments[segmentKey("p1", "s1")] = &MotionSegment{PlateID: "p1", SegmentID: "s1", TickB: 20}
	v1.ModelAssignments["p2"] = "m2"
	v1.ModelAssignments["p1"] = "m1"

	v2 := NewKinematicsView(stream, 50)
	v2.Segments[segmentKey("p1", "s1")] = &MotionSegment{PlateID: "p1", SegmentID: "s1", TickB: 20}
	v2.Segments[segmentKey("p2", "s1")] = &MotionSegment{PlateID: "p2", SegmentID: "s1", TickB: 10}
	v2.ModelAssignments["p1"] = "m1"
	v2.ModelAssignments["p2"] = "m2"

	assert.Equal(t, EncodeCanonical(*v1), EncodeCanonical(*v2))
}

func TestDerivedArtifactManifestEncodeDeterminism(t *testing.T) {
	m := DerivedArtifactManifest{
		Fingerprint:      "abc123",
		GeneratorID:      "erosion-surface",
		GeneratorVersion: "v1",
		InputsDigest:     Sum256([]byte("inputs")),
		PayloadHash:      Sum256([]byte("payload")),
		Size:             4096,
		CreatedAtUnixNs:  1234567890,
	}

	assert.Equal(t, EncodeCanonical(m), EncodeCanonical(m))
}

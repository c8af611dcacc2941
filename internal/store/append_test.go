package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ptsim/truthcore/internal/ir"
)

func testStream() ir.StreamIdentity {
	return ir.StreamIdentity{VariantID: "baseline", BranchID: "main", Level: 0, Domain: "plate.topology", Model: "default"}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAssignsDenseSequencesAndChainsHashes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	drafts := []ir.EventDraft{
		{Tick: 0, Payload: ir.PlateCreated{PlateID: "p1"}},
		{Tick: 1, Payload: ir.PlateCreated{PlateID: "p2"}},
		{Tick: 2, Payload: ir.PlateCreated{PlateID: "p3"}},
	}

	head, err := s.Append(ctx, stream, drafts, ir.AppendOptions{
		TickPolicy:   ir.TickPolicyReject,
		ExpectedHead: ir.ExpectedHead{AnyHead: true},
	})
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if head.Sequence != 2 {
		t.Fatalf("expected head sequence 2, got %d", head.Sequence)
	}

	envelopes, err := s.Read(ctx, stream, 0)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(envelopes) != 3 {
		t.Fatalf("expected 3 envelopes, got %d", len(envelopes))
	}
	if envelopes[0].PreviousHash != ir.ZeroHash {
		t.Error("first event must chain from the zero-hash sentinel")
	}
	if envelopes[1].PreviousHash != envelopes[0].Hash {
		t.Error("event 1's previous_hash must equal event 0's hash")
	}
	if envelopes[2].Sequence != 2 {
		t.Errorf("expected sequence 2, got %d", envelopes[2].Sequence)
	}
}

func TestAppendConcurrencyConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	head, err := s.Append(ctx, stream, []ir.EventDraft{{Tick: 0, Payload: ir.PlateCreated{PlateID: "p1"}}},
		ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}})
	if err != nil {
		t.Fatalf("initial Append() failed: %v", err)
	}

	_, err = s.Append(ctx, stream, []ir.EventDraft{{Tick: 1, Payload: ir.PlateCreated{PlateID: "p2"}}},
		ir.AppendOptions{ExpectedHead: ir.ExpectedHead{Sequence: head.Sequence, Hash: head.Hash}})
	if err != nil {
		t.Fatalf("second Append() with correct expected head failed: %v", err)
	}

	_, err = s.Append(ctx, stream, []ir.EventDraft{{Tick: 2, Payload: ir.PlateCreated{PlateID: "p3"}}},
		ir.AppendOptions{ExpectedHead: ir.ExpectedHead{Sequence: head.Sequence, Hash: head.Hash}})
	if !ir.IsConcurrencyConflict(err) {
		t.Fatalf("expected ConcurrencyConflict, got %v", err)
	}
}

func TestAppendRejectPolicyRejectsNonMonotonicTick(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	_, err := s.Append(ctx, stream, []ir.EventDraft{{Tick: 10, Payload: ir.PlateCreated{PlateID: "p1"}}},
		ir.AppendOptions{TickPolicy: ir.TickPolicyReject, ExpectedHead: ir.ExpectedHead{AnyHead: true}})
	if err != nil {
		t.Fatalf("initial Append() failed: %v", err)
	}

	_, err = s.Append(ctx, stream, []ir.EventDraft{{Tick: 5, Payload: ir.PlateCreated{PlateID: "p2"}}},
		ir.AppendOptions{TickPolicy: ir.TickPolicyReject, ExpectedHead: ir.ExpectedHead{AnyHead: true}})
	if !ir.IsTickPolicyViolation(err) {
		t.Fatalf("expected TickPolicyViolation, got %v", err)
	}

	head, err := s.GetHead(ctx, stream)
	if err != nil {
		t.Fatalf("GetHead() failed: %v", err)
	}
	if head.Sequence != 0 {
		t.Fatalf("rejected batch must not advance the head; got sequence %d", head.Sequence)
	}
}

func TestAppendAllowPolicyPermitsBackInTimeInsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	_, err := s.Append(ctx, stream, []ir.EventDraft{{Tick: 10, Payload: ir.PlateCreated{PlateID: "p1"}}},
		ir.AppendOptions{TickPolicy: ir.TickPolicyAllow, ExpectedHead: ir.ExpectedHead{AnyHead: true}})
	if err != nil {
		t.Fatalf("initial Append() failed: %v", err)
	}

	head, err := s.Append(ctx, stream, []ir.EventDraft{{Tick: 3, Payload: ir.PlateCreated{PlateID: "p2"}}},
		ir.AppendOptions{TickPolicy: ir.TickPolicyAllow, ExpectedHead: ir.ExpectedHead{AnyHead: true}})
	if err != nil {
		t.Fatalf("back-in-time Append() under Allow policy failed: %v", err)
	}
	if head.Sequence != 1 {
		t.Fatalf("expected sequence to still advance to 1, got %d", head.Sequence)
	}
}

func TestAppendEmptyBatchReturnsCurrentHead(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	head, err := s.Append(ctx, stream, nil, ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}})
	if err != nil {
		t.Fatalf("Append() with empty batch failed: %v", err)
	}
	if head.Sequence != -1 {
		t.Fatalf("expected sequence -1 for an empty stream, got %d", head.Sequence)
	}
}

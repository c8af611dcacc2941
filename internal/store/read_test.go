package store

import (
	"context"
	"testing"

	"github.com/ptsim/truthcore/internal/ir"
)

func TestGetHeadAbsentStream(t *testing.T) {
	s := openTestStore(t)
	head, err := s.GetHead(context.Background(), testStream())
	if err != nil {
		t.Fatalf("GetHead() failed: %v", err)
	}
	if head.Sequence != -1 {
		t.Fatalf("expected sequence -1 for an absent stream, got %d", head.Sequence)
	}
}

func TestReadFromSequenceInclusive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	drafts := []ir.EventDraft{
		{Tick: 0, Payload: ir.PlateCreated{PlateID: "p1"}},
		{Tick: 1, Payload: ir.PlateCreated{PlateID: "p2"}},
		{Tick: 2, Payload: ir.PlateCreated{PlateID: "p3"}},
	}
	if _, err := s.Append(ctx, stream, drafts, ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	envelopes, err := s.Read(ctx, stream, 1)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(envelopes) != 2 {
		t.Fatalf("expected 2 envelopes from sequence 1, got %d", len(envelopes))
	}
	if envelopes[0].Sequence != 1 {
		t.Fatalf("expected first envelope sequence 1, got %d", envelopes[0].Sequence)
	}
}

func TestReadEmptyStreamReturnsEmptySlice(t *testing.T) {
	s := openTestStore(t)
	envelopes, err := s.Read(context.Background(), testStream(), 0)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if envelopes == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(envelopes) != 0 {
		t.Fatalf("expected 0 envelopes, got %d", len(envelopes))
	}
}

func TestReadDetectsTamperedHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	if _, err := s.Append(ctx, stream, []ir.EventDraft{{Tick: 0, Payload: ir.PlateCreated{PlateID: "p1"}}},
		ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE events SET hash = ? WHERE stream_key = ? AND sequence = 0`,
		ir.ZeroHash[:], stream.Key()); err != nil {
		t.Fatalf("tamper UPDATE failed: %v", err)
	}

	_, err := s.Read(ctx, stream, 0)
	if !ir.IsHashChainMismatch(err) {
		t.Fatalf("expected HashChainMismatch, got %v", err)
	}
}

func TestGetLastSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	if _, err := s.Append(ctx, stream, []ir.EventDraft{
		{Tick: 0, Payload: ir.PlateCreated{PlateID: "p1"}},
		{Tick: 1, Payload: ir.PlateCreated{PlateID: "p2"}},
	}, ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}}); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	seq, err := s.GetLastSequence(ctx, stream)
	if err != nil {
		t.Fatalf("GetLastSequence() failed: %v", err)
	}
	if seq != 1 {
		t.Fatalf("expected last sequence 1, got %d", seq)
	}
}

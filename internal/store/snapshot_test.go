package store

import (
	"context"
	"testing"

	"github.com/ptsim/truthcore/internal/ir"
)

func TestSnapshotSaveAndGetExact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	body := []byte("encoded-topology-snapshot")
	if err := s.SaveSnapshot(ctx, stream, SnapshotKindTopology, 100, 50, body); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	snap, err := s.GetExact(ctx, stream, SnapshotKindTopology, 100, 50)
	if err != nil {
		t.Fatalf("GetExact() failed: %v", err)
	}
	if string(snap.Body) != string(body) {
		t.Fatalf("expected body %q, got %q", body, snap.Body)
	}
}

func TestSnapshotGetExactNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetExact(context.Background(), testStream(), SnapshotKindTopology, 100, 50)
	if !ir.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSnapshotGetLatestBeforeHonorsHeadGuard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	stream := testStream()

	drafts := make([]ir.EventDraft, 0, 106)
	for tick := int64(0); tick <= 105; tick++ {
		drafts = append(drafts, ir.EventDraft{Tick: tick, Payload: ir.PlateCreated{PlateID: "p"}})
	}
	// Append in two batches so we can snapshot mid-stream, as spec scenario 4 describes.
	if _, err := s.Append(ctx, stream, drafts[:51], ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}}); err != nil {
		t.Fatalf("first Append() failed: %v", err)
	}

	if err := s.SaveSnapshot(ctx, stream, SnapshotKindTopology, 100, 50, []byte("snap-at-100")); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	if _, err := s.Append(ctx, stream, drafts[51:], ir.AppendOptions{ExpectedHead: ir.ExpectedHead{AnyHead: true}}); err != nil {
		t.Fatalf("second Append() failed: %v", err)
	}

	snap, ok, err := s.GetLatestBefore(ctx, stream, SnapshotKindTopology, 107)
	if err != nil {
		t.Fatalf("GetLatestBefore() failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a snapshot to be found")
	}
	if snap.Tick != 100 || snap.LastSequenceAtCapture != 50 {
		t.Fatalf("expected snapshot (tick=100, last_sequence=50), got (tick=%d, last_sequence=%d)", snap.Tick, snap.LastSequenceAtCapture)
	}
}

func TestSnapshotGetLatestBeforeNoneFound(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.GetLatestBefore(context.Background(), testStream(), SnapshotKindTopology, 100)
	if err != nil {
		t.Fatalf("GetLatestBefore() failed: %v", err)
	}
	if ok {
		t.Fatal("expected no snapshot to be found")
	}
}

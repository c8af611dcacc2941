package store

import (
	"context"
	"database/sql"

	"github.com/ptsim/truthcore/internal/ir"
)

// SnapshotKind distinguishes the two state-view shapes persisted as
// snapshots, stored in the same table but never compared to each other.
type SnapshotKind string

const (
	SnapshotKindTopology   SnapshotKind = "topology"
	SnapshotKindKinematics SnapshotKind = "kinematics"
)

// SaveSnapshot persists a canonically-encoded state view keyed by
// (stream, tick, last_sequence_at_capture, kind).
func (s *Store) SaveSnapshot(ctx context.Context, stream ir.StreamIdentity, kind SnapshotKind, tick, lastSequenceAtCapture int64, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (stream_key, tick, last_sequence_at_capture, kind, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(stream_key, tick, last_sequence_at_capture, kind) DO UPDATE SET body = excluded.body
	`, stream.Key(), tick, lastSequenceAtCapture, string(kind), body)
	if err != nil {
		return ir.NewStorageUnavailable(err)
	}
	return nil
}

// Snapshot is a stored state-view record as returned by the snapshot
// lookups below; Body is the kind-specific canonical encoding the caller
// decodes with ir.DecodeEnvelopeWithoutHash's sibling decoders.
type Snapshot struct {
	Tick                  int64
	LastSequenceAtCapture int64
	Body                  []byte
}

// GetExact returns the snapshot at exactly (stream, tick, lastSequence, kind).
func (s *Store) GetExact(ctx context.Context, stream ir.StreamIdentity, kind SnapshotKind, tick, lastSequence int64) (Snapshot, error) {
	var snap Snapshot
	snap.Tick = tick
	snap.LastSequenceAtCapture = lastSequence
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM snapshots
		WHERE stream_key = ? AND tick = ? AND last_sequence_at_capture = ? AND kind = ?
	`, stream.Key(), tick, lastSequence, string(kind)).Scan(&snap.Body)
	if err == sql.ErrNoRows {
		return Snapshot{}, ir.NewNotFound("snapshot", stream.Key())
	}
	if err != nil {
		return Snapshot{}, ir.NewStorageUnavailable(err)
	}
	return snap, nil
}

// GetLatestBefore returns the snapshot with the largest tick <= targetTick
// whose last_sequence_at_capture <= the stream's current head sequence
// (spec: any snapshot with a later last_sequence would imply a rewound
// stream). Candidates are walked newest-tick-first and the first one
// passing the head guard wins, falling back to older snapshots — this is
// the query-time half of snapshot soundness. SaveSnapshot stores the
// last sequence its caller passes and does not check it against the head.
func (s *Store) GetLatestBefore(ctx context.Context, stream ir.StreamIdentity, kind SnapshotKind, targetTick int64) (Snapshot, bool, error) {
	head, err := s.GetHead(ctx, stream)
	if err != nil {
		return Snapshot{}, false, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, last_sequence_at_capture, body FROM snapshots
		WHERE stream_key = ? AND kind = ? AND tick <= ?
		ORDER BY tick DESC
	`, stream.Key(), string(kind), targetTick)
	if err != nil {
		return Snapshot{}, false, ir.NewStorageUnavailable(err)
	}
	defer rows.Close()

	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Tick, &snap.LastSequenceAtCapture, &snap.Body); err != nil {
			return Snapshot{}, false, ir.NewStorageUnavailable(err)
		}
		if snap.LastSequenceAtCapture <= head.Sequence {
			return snap, true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, false, ir.NewStorageUnavailable(err)
	}

	return Snapshot{}, false, nil
}

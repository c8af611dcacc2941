package store

import (
	"context"
	"database/sql"

	"github.com/ptsim/truthcore/internal/ir"
)

// Read returns envelopes on stream with sequence >= fromSequenceInclusive,
// in ascending sequence order. Reads are snapshot-consistent: SQLite's
// default isolation means a concurrent Append cannot be observed
// mid-iteration by an already-open query.
func (s *Store) Read(ctx context.Context, stream ir.StreamIdentity, fromSequenceInclusive int64) ([]ir.EventEnvelope, error) {
	streamKey := stream.Key()
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence, tick, envelope, hash, previous_hash
		FROM events
		WHERE stream_key = ? AND sequence >= ?
		ORDER BY sequence ASC
	`, streamKey, fromSequenceInclusive)
	if err != nil {
		return nil, ir.NewStorageUnavailable(err)
	}
	defer rows.Close()

	var envelopes []ir.EventEnvelope
	for rows.Next() {
		env, err := scanEnvelope(rows, stream)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, env)
	}
	if err := rows.Err(); err != nil {
		return nil, ir.NewStorageUnavailable(err)
	}
	if envelopes == nil {
		envelopes = []ir.EventEnvelope{}
	}
	return envelopes, nil
}

func scanEnvelope(rows *sql.Rows, stream ir.StreamIdentity) (ir.EventEnvelope, error) {
	var sequence, tick int64
	var encoded, hashBytes, prevHashBytes []byte
	if err := rows.Scan(&sequence, &tick, &encoded, &hashBytes, &prevHashBytes); err != nil {
		return ir.EventEnvelope{}, ir.NewStorageUnavailable(err)
	}
	env, err := ir.DecodeEnvelopeWithoutHash(ir.NewReader(encoded))
	if err != nil {
		return ir.EventEnvelope{}, ir.NewStorageUnavailable(err)
	}

	stored := bytesToHash32(hashBytes)
	if !ir.VerifyEventHash(stored, bytesToHash32(prevHashBytes), env) {
		return ir.EventEnvelope{}, ir.NewHashChainMismatch(stream.Key(), sequence)
	}
	env.Hash = stored

	return env, nil
}

// GetHead returns the current head of stream. Sequence is -1 if the
// stream has never been appended to.
func (s *Store) GetHead(ctx context.Context, stream ir.StreamIdentity) (ir.Head, error) {
	var seq int64
	var hashBytes []byte
	err := s.db.QueryRowContext(ctx, `SELECT sequence, hash FROM heads WHERE stream_key = ?`, stream.Key()).Scan(&seq, &hashBytes)
	if err == sql.ErrNoRows {
		return ir.Head{Sequence: -1}, nil
	}
	if err != nil {
		return ir.Head{}, ir.NewStorageUnavailable(err)
	}
	return ir.Head{Sequence: seq, Hash: bytesToHash32(hashBytes)}, nil
}

// GetLastSequence returns the stream's head sequence, or -1 if absent.
func (s *Store) GetLastSequence(ctx context.Context, stream ir.StreamIdentity) (int64, error) {
	head, err := s.GetHead(ctx, stream)
	if err != nil {
		return 0, err
	}
	return head.Sequence, nil
}

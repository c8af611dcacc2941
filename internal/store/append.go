package store

import (
	"context"
	"database/sql"

	"github.com/ptsim/truthcore/internal/ir"
)

// Append atomically appends a batch of drafts to a stream: assigns dense
// sequences, computes the hash chain, enforces the tick policy, and
// checks the optimistic-concurrency precondition before persisting
// anything. Either the whole batch lands or none of it does.
func (s *Store) Append(ctx context.Context, stream ir.StreamIdentity, drafts []ir.EventDraft, opts ir.AppendOptions) (ir.Head, error) {
	if err := stream.Validate(); err != nil {
		return ir.Head{}, err
	}
	if len(drafts) == 0 {
		head, err := s.GetHead(ctx, stream)
		if err != nil {
			return ir.Head{}, err
		}
		return head, nil
	}

	streamKey := stream.Key()
	mu := s.lockFor(streamKey)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.Head{}, ir.NewStorageUnavailable(err)
	}
	defer tx.Rollback()

	head, found, err := getHeadTx(ctx, tx, streamKey)
	if err != nil {
		return ir.Head{}, err
	}

	if !opts.ExpectedHead.AnyHead {
		var currentSeq int64 = -1
		var currentHash [32]byte
		if found {
			currentSeq = head.Sequence
			currentHash = head.Hash
		}
		if opts.ExpectedHead.Sequence != currentSeq || (found && opts.ExpectedHead.Hash != currentHash) {
			return ir.Head{}, ir.NewConcurrencyConflict(streamKey, opts.ExpectedHead.Sequence, currentSeq)
		}
	}

	highestTick, err := getHighestTickTx(ctx, tx, streamKey)
	if err != nil {
		return ir.Head{}, err
	}

	nextSeq := int64(0)
	prevHash := ir.ZeroHash
	if found {
		nextSeq = head.Sequence + 1
		prevHash = head.Hash
	}

	for _, draft := range drafts {
		if found && draft.Tick < highestTick {
			switch opts.TickPolicy {
			case ir.TickPolicyReject:
				return ir.Head{}, ir.NewTickPolicyViolation(streamKey, draft.Tick, highestTick)
			case ir.TickPolicyWarn:
				s.logger.Warn("tick policy violation",
					"stream", streamKey, "tick", draft.Tick, "highest_tick", highestTick)
			}
		}

		eventID := draft.EventID
		envelope := ir.EventEnvelope{
			EventID:        eventID,
			StreamIdentity: stream,
			Tick:           draft.Tick,
			Sequence:       nextSeq,
			PreviousHash:   prevHash,
			Payload:        draft.Payload,
		}
		envelope.Hash = ir.EventHash(prevHash, envelope)

		encoded := ir.EncodeCanonical(envelope)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (stream_key, sequence, tick, envelope, hash, previous_hash)
			VALUES (?, ?, ?, ?, ?, ?)
		`, streamKey, envelope.Sequence, envelope.Tick, encoded, envelope.Hash[:], envelope.PreviousHash[:]); err != nil {
			return ir.Head{}, ir.NewStorageUnavailable(err)
		}

		if draft.Tick > highestTick || !found {
			highestTick = draft.Tick
		}
		found = true
		prevHash = envelope.Hash
		nextSeq++
	}

	newHead := ir.Head{Sequence: nextSeq - 1, Hash: prevHash}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO heads (stream_key, sequence, hash) VALUES (?, ?, ?)
		ON CONFLICT(stream_key) DO UPDATE SET sequence = excluded.sequence, hash = excluded.hash
	`, streamKey, newHead.Sequence, newHead.Hash[:]); err != nil {
		return ir.Head{}, ir.NewStorageUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		return ir.Head{}, ir.NewStorageUnavailable(err)
	}

	return newHead, nil
}

func getHeadTx(ctx context.Context, tx *sql.Tx, streamKey string) (ir.Head, bool, error) {
	var seq int64
	var hashBytes []byte
	err := tx.QueryRowContext(ctx, `SELECT sequence, hash FROM heads WHERE stream_key = ?`, streamKey).Scan(&seq, &hashBytes)
	if err == sql.ErrNoRows {
		return ir.Head{}, false, nil
	}
	if err != nil {
		return ir.Head{}, false, ir.NewStorageUnavailable(err)
	}
	var h ir.Head
	h.Sequence = seq
	copy(h.Hash[:], hashBytes)
	return h, true, nil
}

func getHighestTickTx(ctx context.Context, tx *sql.Tx, streamKey string) (int64, error) {
	var tick sql.NullInt64
	err := tx.QueryRowContext(ctx, `SELECT MAX(tick) FROM events WHERE stream_key = ?`, streamKey).Scan(&tick)
	if err != nil {
		return 0, ir.NewStorageUnavailable(err)
	}
	if !tick.Valid {
		return 0, nil
	}
	return tick.Int64, nil
}

// bytesToHash32 copies a byte slice into a fixed [32]byte, ignoring
// length mismatches from corrupt rows (callers treat the zero value as
// "unset" rather than crashing on malformed storage).
func bytesToHash32(b []byte) [32]byte {
	var h [32]byte
	copy(h[:], b)
	return h
}

package store

import (
	"context"
	"database/sql"

	"github.com/ptsim/truthcore/internal/ir"
)

// inFlightBuild coordinates concurrent requests for the same fingerprint:
// the first caller runs build, later callers block on done and share its
// result. Grounded on the teacher's eventQueue signal-channel wakeup
// idiom, keyed here by fingerprint instead of global.
type inFlightBuild struct {
	done     chan struct{}
	manifest ir.DerivedArtifactManifest
	payload  []byte
	err      error
}

// GetManifest returns the stored manifest for fingerprint, if any.
func (s *Store) GetManifest(ctx context.Context, fingerprint string) (ir.DerivedArtifactManifest, bool, error) {
	var m ir.DerivedArtifactManifest
	var inputsDigest, payloadHash []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, generator_id, generator_version, inputs_digest, payload_hash, size, created_at_ns
		FROM artifact_manifests WHERE fingerprint = ?
	`, fingerprint).Scan(&m.Fingerprint, &m.GeneratorID, &m.GeneratorVersion, &inputsDigest, &payloadHash, &m.Size, &m.CreatedAtUnixNs)
	if err == sql.ErrNoRows {
		return ir.DerivedArtifactManifest{}, false, nil
	}
	if err != nil {
		return ir.DerivedArtifactManifest{}, false, ir.NewStorageUnavailable(err)
	}
	m.InputsDigest = bytesToHash32(inputsDigest)
	m.PayloadHash = bytesToHash32(payloadHash)
	return m, true, nil
}

// GetPayload returns the payload bytes for a manifest's payload hash,
// verifying the stored bytes still hash to that value.
func (s *Store) GetPayload(ctx context.Context, payloadHash [32]byte) ([]byte, error) {
	hex := ir.HexHash(payloadHash)
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM artifact_payloads WHERE payload_hash = ?`, hex).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ir.NewNotFound("artifact_payload", hex)
	}
	if err != nil {
		return nil, ir.NewStorageUnavailable(err)
	}
	if ir.Sum256(body) != payloadHash {
		return nil, ir.NewCorruptArtifact(hex)
	}
	return body, nil
}

// StoreArtifact persists a manifest and its payload together. payloadHash
// on the manifest must equal SHA-256(payload) — callers compute it via
// ir.Sum256 before calling StoreArtifact.
func (s *Store) StoreArtifact(ctx context.Context, manifest ir.DerivedArtifactManifest, payload []byte) error {
	if ir.Sum256(payload) != manifest.PayloadHash {
		return ir.NewCorruptArtifact(manifest.Fingerprint)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ir.NewStorageUnavailable(err)
	}
	defer tx.Rollback()

	payloadHex := ir.HexHash(manifest.PayloadHash)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO artifact_payloads (payload_hash, body, ref_count) VALUES (?, ?, 1)
		ON CONFLICT(payload_hash) DO UPDATE SET ref_count = ref_count + 1
	`, payloadHex, payload); err != nil {
		return ir.NewStorageUnavailable(err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO artifact_manifests
			(fingerprint, generator_id, generator_version, inputs_digest, payload_hash, size, created_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`, manifest.Fingerprint, manifest.GeneratorID, manifest.GeneratorVersion,
		manifest.InputsDigest[:], manifest.PayloadHash[:], manifest.Size, manifest.CreatedAtUnixNs); err != nil {
		return ir.NewStorageUnavailable(err)
	}

	return tx.Commit()
}

// InvalidateArtifact removes a manifest whose payload failed verification
// on read (spec §4.6: mismatches surface as CorruptArtifact and remove
// the entry).
func (s *Store) InvalidateArtifact(ctx context.Context, fingerprint string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM artifact_manifests WHERE fingerprint = ?`, fingerprint)
	if err != nil {
		return ir.NewStorageUnavailable(err)
	}
	return nil
}

// BuildFunc produces a manifest and payload for a fingerprint not yet cached.
type BuildFunc func(ctx context.Context) (ir.DerivedArtifactManifest, []byte, error)

// GetOrBuild returns the cached artifact for fingerprint, or runs build
// exactly once across concurrent callers requesting the same fingerprint
// and caches the result. Concurrent requests for different fingerprints
// never block each other.
func (s *Store) GetOrBuild(ctx context.Context, fingerprint string, build BuildFunc) (ir.DerivedArtifactManifest, []byte, error) {
	if manifest, ok, err := s.GetManifest(ctx, fingerprint); err != nil {
		return ir.DerivedArtifactManifest{}, nil, err
	} else if ok {
		payload, err := s.GetPayload(ctx, manifest.PayloadHash)
		if ir.IsCorruptArtifact(err) {
			_ = s.InvalidateArtifact(ctx, fingerprint)
		} else if err != nil {
			return ir.DerivedArtifactManifest{}, nil, err
		} else {
			return manifest, payload, nil
		}
	}

	s.buildsMu.Lock()
	if b, inFlight := s.builds[fingerprint]; inFlight {
		s.buildsMu.Unlock()
		<-b.done
		return b.manifest, b.payload, b.err
	}
	b := &inFlightBuild{done: make(chan struct{})}
	s.builds[fingerprint] = b
	s.buildsMu.Unlock()

	// A build for this fingerprint may have finished between the cache
	// lookup above and registering this one; reuse its stored result.
	manifest, cached, err := s.GetManifest(ctx, fingerprint)
	var payload []byte
	if err == nil && cached {
		payload, err = s.GetPayload(ctx, manifest.PayloadHash)
		if ir.IsCorruptArtifact(err) {
			_ = s.InvalidateArtifact(ctx, fingerprint)
		}
	}
	if err != nil || !cached {
		manifest, payload, err = build(ctx)
		if err == nil {
			err = s.StoreArtifact(ctx, manifest, payload)
		}
	}

	b.manifest, b.payload, b.err = manifest, payload, err
	close(b.done)

	s.buildsMu.Lock()
	delete(s.builds, fingerprint)
	s.buildsMu.Unlock()

	return manifest, payload, err
}

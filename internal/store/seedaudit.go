package store

import (
	"context"
	"database/sql"

	"github.com/ptsim/truthcore/internal/ir"
	"github.com/ptsim/truthcore/internal/seed"
)

// SaveSeedAudit persists the record of how a stream's per-stream RNG seed
// was derived, keyed by stream. A stream carries at most one audit; a
// later scheduler run against the same stream overwrites it.
func (s *Store) SaveSeedAudit(ctx context.Context, audit seed.Audit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seed_audits (stream_key, scenario_seed, derived_seed, algorithm, generated_at_ns)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(stream_key) DO UPDATE SET
			scenario_seed = excluded.scenario_seed,
			derived_seed = excluded.derived_seed,
			algorithm = excluded.algorithm,
			generated_at_ns = excluded.generated_at_ns
	`, audit.StreamKey, int64(audit.ScenarioSeed), int64(audit.DerivedSeed), audit.Algorithm, audit.GeneratedAtUnixNs)
	if err != nil {
		return ir.NewStorageUnavailable(err)
	}
	return nil
}

// GetSeedAudit returns the stored seed audit for streamKey, if any.
func (s *Store) GetSeedAudit(ctx context.Context, streamKey string) (seed.Audit, bool, error) {
	var audit seed.Audit
	var scenarioSeed, derivedSeed int64
	audit.StreamKey = streamKey
	err := s.db.QueryRowContext(ctx, `
		SELECT scenario_seed, derived_seed, algorithm, generated_at_ns
		FROM seed_audits WHERE stream_key = ?
	`, streamKey).Scan(&scenarioSeed, &derivedSeed, &audit.Algorithm, &audit.GeneratedAtUnixNs)
	if err == sql.ErrNoRows {
		return seed.Audit{}, false, nil
	}
	if err != nil {
		return seed.Audit{}, false, ir.NewStorageUnavailable(err)
	}
	audit.ScenarioSeed = uint64(scenarioSeed)
	audit.DerivedSeed = uint64(derivedSeed)
	return audit, true, nil
}

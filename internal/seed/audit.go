package seed

import "github.com/ptsim/truthcore/internal/ir"

// Audit is the always-present record of how a per-stream RNG seed was
// derived: which scenario seed and algorithm produced it, so a later run
// can confirm it reproduced the same seed rather than silently drifting.
type Audit struct {
	StreamKey         string
	ScenarioSeed      uint64
	DerivedSeed       uint64
	Algorithm         string
	GeneratedAtUnixNs int64
}

// NewAudit builds the audit record for a seed derived for stream.
func NewAudit(stream ir.StreamIdentity, scenarioSeed, derivedSeed uint64, algorithm string, generatedAtUnixNs int64) Audit {
	return Audit{
		StreamKey:         stream.Key(),
		ScenarioSeed:      scenarioSeed,
		DerivedSeed:       derivedSeed,
		Algorithm:         algorithm,
		GeneratedAtUnixNs: generatedAtUnixNs,
	}
}

// CanonicalEncode writes the fields in declared order.
func (a Audit) CanonicalEncode(w *ir.Writer) {
	w.WriteString(a.StreamKey)
	w.WriteUint64(a.ScenarioSeed)
	w.WriteUint64(a.DerivedSeed)
	w.WriteString(a.Algorithm)
	w.WriteInt64(a.GeneratedAtUnixNs)
}

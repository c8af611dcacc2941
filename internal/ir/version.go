package ir

// Version identifiers for the canonical encoding and the default seed
// algorithm. No manifest or seed audit record stores them.
const (
	// EncodingVersion identifies the canonical encoding revision.
	EncodingVersion = "truthcore-canonical-v1"

	// SeedAlgorithmDefault is the default seed-derivation algorithm identifier
	// recognized by the scenario_seed/seed_algorithm configuration surface.
	SeedAlgorithmDefault = "FNV1a-StreamIdentity-v2"
)

// Package seed derives stable identifiers and reproducible per-stream RNG
// seeds (spec §4.7): a deterministic UUID recipe for event ids that must
// replay identically, and an FNV-1a-plus-SplitMix64 seed derivation for
// per-stream randomness that must reproduce across implementations given
// the same scenario seed and stream identity.
package seed

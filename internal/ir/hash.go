package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// ZeroHash is the 32-zero-byte sentinel used as previous_hash for the first
// event on a stream (spec §9 Open Question (b): a distinct "absent" tag was
// considered and rejected — 32 zero bytes keeps previous_hash a fixed-width
// field with no variant tag, which simplifies both the canonical encoding
// and the SQLite column it is stored in).
var ZeroHash [32]byte

// Sum256 is the one hash primitive used across the truth substrate: event
// chaining, derived-artifact fingerprints, and policy hashing all reduce to
// SHA-256 over a canonical encoding.
func Sum256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HexHash renders a 32-byte digest as lowercase hex, the form persisted in
// the `artifacts/manifest/<fingerprint:64hex>` key layout (spec §6).
func HexHash(h [32]byte) string {
	return hex.EncodeToString(h[:])
}

// EventHash computes hash = SHA256(previousHash || canonical_encode(envelope_without_hash))
// per spec §4.1. previousHash is ZeroHash for the first event on a stream.
// envelopeWithoutHash must already exclude the hash field itself; per the
// data model table it still includes previous_hash, which therefore appears
// twice in the hashed material (once as the explicit prefix, once inside the
// encoded envelope) — this matches the literal formula in spec §4.1.
// hash_test.go checks determinism and chaining; it pins no literal digest.
func EventHash(previousHash [32]byte, envelopeWithoutHash CanonicalEncodable) [32]byte {
	h := sha256.New()
	h.Write(previousHash[:])
	h.Write(EncodeCanonical(envelopeWithoutHash))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// VerifyEventHash reports whether stored agrees with a recomputation from
// previousHash and envelopeWithoutHash. Implementations must reject any
// envelope whose stored hash disagrees (spec §4.1).
func VerifyEventHash(stored [32]byte, previousHash [32]byte, envelopeWithoutHash CanonicalEncodable) bool {
	return EventHash(previousHash, envelopeWithoutHash) == stored
}

// FingerprintRequest is the canonically-encoded tuple hashed to produce a
// derived-artifact fingerprint (spec §4.5). PolicyHash, not the raw policy,
// is what gets hashed — see Policy.PolicyHash.
type FingerprintRequest struct {
	GeneratorID        string
	GeneratorVersion   string
	TargetTick         int64
	PolicyHash         [32]byte
	TopologyHeadHash   [32]byte
	KinematicsHeadHash [32]byte
	ExtraInputsDigest  [32]byte
}

// CanonicalEncode writes the fields in the declared order:
// generator_id, generator_version, target_tick, policy_hash,
// topology_head_hash, kinematics_head_hash, extra_inputs_digest.
func (r FingerprintRequest) CanonicalEncode(w *Writer) {
	w.WriteString(r.GeneratorID)
	w.WriteString(r.GeneratorVersion)
	w.WriteInt64(r.TargetTick)
	w.WriteRawBytes(r.PolicyHash[:])
	w.WriteRawBytes(r.TopologyHeadHash[:])
	w.WriteRawBytes(r.KinematicsHeadHash[:])
	w.WriteRawBytes(r.ExtraInputsDigest[:])
}

// Fingerprint computes fingerprint = HEX(SHA256(canonical_encode(request)))
// per spec §4.5.
func Fingerprint(req FingerprintRequest) string {
	return HexHash(Sum256(EncodeCanonical(req)))
}

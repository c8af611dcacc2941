// Package ir defines the canonical intermediate representation for the
// truth substrate: stream identity, event envelopes and payload variants,
// the binary canonical encoding used for hashing and persistence, and the
// topology/kinematics entities produced by materialization.
//
// This package contains type definitions and pure encoding/hashing logic
// only. All other internal packages import ir; ir imports nothing internal,
// keeping it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types in canonical-encoded payloads except where the data
//     model explicitly calls for IEEE-754 binary64 (e.g. junction points).
//   - Canonical encoding is positional, not keyed: field order is fixed per
//     type and documented next to each CanonicalEncode method.
//   - sequence and tick are always int64 logical values, never derived from
//     wall-clock time.
package ir

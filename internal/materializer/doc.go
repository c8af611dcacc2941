// Package materializer folds an event stream up to a target tick into a
// typed state view: a topology snapshot (plates, boundaries, junctions)
// or a kinematics view (motion segments, model assignments).
//
// Materialization is pure and deterministic: identical event sequences
// yield identical state, byte-for-byte when re-encoded through
// internal/ir's canonical encoding. Ordering ties — two events sharing a
// tick — are broken by sequence ascending, never by arrival order.
package materializer

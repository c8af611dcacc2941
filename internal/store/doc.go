// Package store provides SQLite-backed durable storage for the
// hash-chained event log, materialization snapshots, and the
// content-addressed derived-artifact cache.
//
// # Critical patterns
//
// Sequence, never wall time: every event carries a dense per-stream
// sequence number assigned on append. Ordering and replay never consult
// timestamps.
//
// Hash-chain integrity: a stream's events form a linked list over
// SHA-256 digests (internal/ir.EventHash). Append recomputes and
// verifies the chain; it never trusts a caller-supplied hash.
//
// Snapshot soundness: a snapshot is only eligible for incremental
// replay if its last_sequence_at_capture is no greater than the
// stream's head at query time — a larger one implies a rewound stream,
// and the store falls back to an earlier snapshot. Back-in-time inserts
// made after capture are not detected here; internal/materializer
// checks the events read since the capture point for them.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - single writer connection: SQLite allows one writer at a time
//
// All content-addressed identifiers are computed via internal/ir/hash.go
// using the canonical binary encoding, never encoding/json.
package store

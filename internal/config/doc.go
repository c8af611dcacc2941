// Package config loads and validates the configuration surface (spec §6):
// tick_policy, artifact_storage_mode, verify_artifacts_on_read,
// scenario_seed, and seed_algorithm. Files are authored in YAML and
// checked against an embedded CUE schema, the same two-library split the
// teacher uses between its scenario files (YAML) and its concept/sync
// schema (CUE).
package config

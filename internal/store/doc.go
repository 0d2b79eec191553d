// Package store provides the SQLite run log.
//
// A run log records, per run and document, the final relation set, the
// derivation of every inferred relation and the diagnostics raised. It is
// an audit trail for evaluation; relation graphs themselves are never
// persisted or reloaded.
//
// # Patterns
//
// Idempotent writes
//   - Every INSERT uses ON CONFLICT DO NOTHING
//   - Rewriting a document under the same run changes nothing
//
// Deterministic reads
//   - Rows are ordered by their recorded position (seq) or by ID with
//     COLLATE BINARY
//   - Empty results are empty slices, never nil
//
// Content addressing
//   - Relations and derivation premises are keyed by ir.AssertionID, so a
//     fact has the same ID whichever direction it was stated in
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

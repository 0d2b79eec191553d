// Package ir defines the data model shared by every other package: spans,
// temporal relation categories, assertions, derivations and diagnostics.
//
// ir imports nothing internal. All other internal packages import it.
//
// Key constraints:
//   - No floats anywhere; offsets are ints and canonical values are Int
//   - Span identity is the span ID, never its text
//   - Every ordering over spans uses CompareSpans
//   - JSON tags use snake_case
package ir

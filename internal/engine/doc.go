// Package engine applies a configured temporal-relation pipeline to
// documents.
//
// ARCHITECTURE:
//
// Per-document batch transform:
// Each document is processed once, synchronously, on a graph built fresh
// from its relations and discarded afterwards. The pipeline is
//
//  1. Category normalization (strict or lenient parsing)
//  2. Graph construction; malformed relations dropped with diagnostics
//  3. Optional event-event removal
//  4. Duplicate/conflict resolution
//  5. Mode: none | close | restrict | restrict-then-close | close-then-restrict
//  6. Optional output transforms: contains-to-overlap, flipped overlaps,
//     category whitelist
//
// Documents are independent. ProcessAll fans them out over a bounded
// errgroup and returns outcomes in input order; within a document there is
// no concurrency.
//
// ERROR HANDLING: data problems are dropped and reported as diagnostics and
// Report counts, never as errors. Process fails only for a done context, an
// unencodable document or a run log write failure.
//
// OBSERVABILITY: the Engine logs through log/slog, updates optional
// Prometheus collectors (see Metrics) and, with WithStore, records runs,
// outcomes, derivations and diagnostics in the SQLite run log.
package engine

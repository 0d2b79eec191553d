// Package closure implements the temporal reasoning over a relation graph:
// duplicate and conflict resolution, the composition table, fixpoint
// closure, the sentence-boundary filter and the evaluation-view transforms.
//
// Every function operates on one *graph.Graph in place and returns its
// statistics as values. Nothing in this package keeps state between calls.
//
// The usual order is
//
//	Resolve(g)                 // at most one category per pair
//	Close(g, Options{})        // add entailed relations until fixpoint
//	RestrictToSentences(g, ix) // before or after Close, per evaluation mode
package closure

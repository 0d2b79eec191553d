// Package graph is the in-memory relation store for one document.
//
// A Graph is a multiset of ir.Assertion values indexed by ordered argument
// pair. It is built fresh per document, mutated in place by the closure
// transforms, and discarded afterwards.
package graph

package closure

import (
	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
)

// The transforms below shape a graph into an evaluation view. They run
// outside Resolve and Close and may leave more than one category on a pair.

// KeepCategories removes every relation whose category is not listed.
// It returns the number removed.
func KeepCategories(g *graph.Graph, keep ...ir.Category) int {
	allowed := make(map[ir.Category]bool, len(keep))
	for _, c := range keep {
		allowed[c] = true
	}
	removed := 0
	for _, e := range g.Entries() {
		if !allowed[e.Category] {
			g.Remove(e)
			removed++
		}
	}
	return removed
}

// DropEventEvent removes relations between two events, leaving event-time
// and time-time links. It returns the number removed.
func DropEventEvent(g *graph.Graph) int {
	removed := 0
	for _, e := range g.Entries() {
		if e.Arg1.Kind == ir.SpanEvent && e.Arg2.Kind == ir.SpanEvent {
			g.Remove(e)
			removed++
		}
	}
	return removed
}

// ExpandContainsToOverlap adds an OVERLAP alongside every CONTAINS on the
// same ordered pair, unless one is already there. It returns the number
// added.
func ExpandContainsToOverlap(g *graph.Graph) int {
	added := 0
	for _, e := range g.Entries() {
		if e.Category != ir.Contains || hasCategory(g, e.Arg1.ID, e.Arg2.ID, ir.Overlap) {
			continue
		}
		if _, err := g.Add(ir.Assertion{Arg1: e.Arg1, Arg2: e.Arg2, Category: ir.Overlap, Provenance: ir.Inferred}); err == nil {
			added++
		}
	}
	return added
}

// AddFlippedOverlaps adds (B OVERLAP A) for every (A OVERLAP B) that has no
// mirror yet. It returns the number added.
func AddFlippedOverlaps(g *graph.Graph) int {
	added := 0
	for _, e := range g.Entries() {
		if e.Category != ir.Overlap || hasCategory(g, e.Arg2.ID, e.Arg1.ID, ir.Overlap) {
			continue
		}
		if _, err := g.Add(ir.Assertion{Arg1: e.Arg2, Arg2: e.Arg1, Category: ir.Overlap, Provenance: ir.Inferred}); err == nil {
			added++
		}
	}
	return added
}

func hasCategory(g *graph.Graph, arg1, arg2 string, c ir.Category) bool {
	for _, e := range g.Lookup(arg1, arg2) {
		if e.Category == c {
			return true
		}
	}
	return false
}

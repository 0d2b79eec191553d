package graph

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/btree"

	"github.com/roach88/tlink/internal/ir"
)

// ErrMalformed is returned by Add for assertions that cannot enter a graph.
var ErrMalformed = errors.New("malformed assertion")

// btreeDegree is the B-tree node fan-out.
const btreeDegree = 16

// Entry is one stored assertion. Seq is the insertion order and breaks ties
// between assertions on the same ordered pair.
type Entry struct {
	Seq int64
	ir.Assertion
}

// Graph is the working set of relation assertions for one document.
//
// Entries are kept in a B-tree ordered by (Arg1 span order, Arg2 span order,
// Seq), so every enumeration is deterministic regardless of insertion
// history. A Graph is not safe for concurrent use; documents are processed
// one graph per goroutine.
type Graph struct {
	tree  *btree.BTreeG[Entry]
	spans map[string]ir.SpanRef
	next  int64
}

func lessEntry(a, b Entry) bool {
	if c := ir.CompareSpans(*a.Arg1, *b.Arg1); c != 0 {
		return c < 0
	}
	if c := ir.CompareSpans(*a.Arg2, *b.Arg2); c != 0 {
		return c < 0
	}
	return a.Seq < b.Seq
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		tree:  btree.NewG(btreeDegree, lessEntry),
		spans: make(map[string]ir.SpanRef),
		next:  1,
	}
}

// FromDocument builds a graph from a document. Spans are registered first so
// that isolated spans still take part in sentence mapping. Malformed
// relations are dropped and reported as diagnostics.
func FromDocument(doc ir.Document) (*Graph, []ir.Diagnostic) {
	g := New()
	var diags []ir.Diagnostic
	for _, s := range doc.Spans {
		if err := g.RegisterSpan(s); err != nil {
			diags = append(diags, ir.Diagnostic{
				Code:    ir.DiagMalformed,
				Message: err.Error(),
				Arg1:    s.ID,
			})
		}
	}
	for _, rel := range doc.Relations {
		if rel.Provenance == "" {
			rel.Provenance = ir.Original
		}
		if _, err := g.Add(rel); err != nil {
			diags = append(diags, ir.NewDiagnostic(ir.DiagMalformed, rel, "%v", err))
		}
	}
	return g, diags
}

// RegisterSpan records a span without relating it. Registering the same ID
// twice with different offsets or kind is an error.
func (g *Graph) RegisterSpan(s ir.SpanRef) error {
	if s.ID == "" {
		return fmt.Errorf("%w: span without id", ErrMalformed)
	}
	if prev, ok := g.spans[s.ID]; ok {
		if prev != s {
			return fmt.Errorf("%w: span %s redefined as %s", ErrMalformed, prev, s)
		}
		return nil
	}
	g.spans[s.ID] = s
	return nil
}

// Add inserts an assertion and returns its entry. Malformed assertions
// (missing argument, empty ID, self relation, span redefinition) are
// rejected with an error wrapping ErrMalformed and leave the graph
// unchanged.
func (g *Graph) Add(a ir.Assertion) (Entry, error) {
	if err := a.Validate(); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, s := range []*ir.SpanRef{a.Arg1, a.Arg2} {
		if prev, ok := g.spans[s.ID]; ok && prev != *s {
			return Entry{}, fmt.Errorf("%w: span %s redefined as %s", ErrMalformed, prev, *s)
		}
	}
	arg1, arg2 := *a.Arg1, *a.Arg2
	g.spans[arg1.ID] = arg1
	g.spans[arg2.ID] = arg2

	// Store private copies so callers cannot mutate offsets under the index.
	a.Arg1, a.Arg2 = &arg1, &arg2
	e := Entry{Seq: g.next, Assertion: a}
	g.next++
	g.tree.ReplaceOrInsert(e)
	return e, nil
}

// Remove deletes the entry. It reports whether the entry was present.
func (g *Graph) Remove(e Entry) bool {
	_, ok := g.tree.Delete(e)
	return ok
}

// Len returns the number of stored assertions.
func (g *Graph) Len() int {
	return g.tree.Len()
}

// Entries returns every entry in index order. The result is never nil.
func (g *Graph) Entries() []Entry {
	out := make([]Entry, 0, g.tree.Len())
	g.tree.Ascend(func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Assertions returns every assertion in index order.
func (g *Graph) Assertions() []ir.Assertion {
	out := make([]ir.Assertion, 0, g.tree.Len())
	g.tree.Ascend(func(e Entry) bool {
		out = append(out, e.Assertion)
		return true
	})
	return out
}

// Lookup returns the entries stored for the ordered pair (arg1, arg2) in
// insertion order.
func (g *Graph) Lookup(arg1, arg2 string) []Entry {
	s1, ok1 := g.spans[arg1]
	s2, ok2 := g.spans[arg2]
	if !ok1 || !ok2 {
		return nil
	}
	var out []Entry
	lo := Entry{Seq: math.MinInt64, Assertion: ir.Assertion{Arg1: &s1, Arg2: &s2}}
	hi := Entry{Seq: math.MaxInt64, Assertion: ir.Assertion{Arg1: &s1, Arg2: &s2}}
	g.tree.AscendRange(lo, hi, func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Related reports whether any assertion links x and y in either direction.
func (g *Graph) Related(x, y string) bool {
	return len(g.Lookup(x, y)) > 0 || len(g.Lookup(y, x)) > 0
}

// Span returns the registered span for an ID.
func (g *Graph) Span(id string) (ir.SpanRef, bool) {
	s, ok := g.spans[id]
	return s, ok
}

// Spans returns every registered span in span order.
func (g *Graph) Spans() []ir.SpanRef {
	out := make([]ir.SpanRef, 0, len(g.spans))
	for _, s := range g.spans {
		out = append(out, s)
	}
	slices.SortFunc(out, ir.CompareSpans)
	return out
}

// Clone returns an independent copy. Mutating either graph does not affect
// the other.
func (g *Graph) Clone() *Graph {
	spans := make(map[string]ir.SpanRef, len(g.spans))
	for k, v := range g.spans {
		spans[k] = v
	}
	return &Graph{tree: g.tree.Clone(), spans: spans, next: g.next}
}

package closure

import (
	"fmt"
	"slices"

	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
)

// Options controls closure emission.
type Options struct {
	// MaterializeReciprocals also stores the mirror of every inferred
	// relation. By default an entailed CONTAINED-BY or AFTER is stored only
	// as its reciprocal CONTAINS or BEFORE, and callers look up the
	// reverse direction themselves.
	MaterializeReciprocals bool

	// discovery, when set, permutes the order in which spans are visited
	// while collecting candidates. Tests use it to show the fixpoint does
	// not depend on discovery order.
	discovery func(n int) []int
}

// Result describes one closure run.
type Result struct {
	// Derivations lists every inferred assertion with its premises, in the
	// order they were added.
	Derivations []ir.Derivation `json:"derivations"`

	// Passes is the number of passes that added at least one relation.
	Passes int `json:"passes"`

	// Inconsistent is the number of pairs for which contradictory
	// categories were entailed. No relation is added for such pairs.
	Inconsistent int `json:"inconsistent"`

	Diagnostics []ir.Diagnostic `json:"diagnostics"`
}

// Inferred returns the inferred assertions in the order they were added.
func (r Result) Inferred() []ir.Assertion {
	out := make([]ir.Assertion, len(r.Derivations))
	for i, d := range r.Derivations {
		out[i] = d.Inferred
	}
	return out
}

// view is the start-of-pass snapshot that candidates are evaluated against.
// Cells are indexed i*n+j over spans in span order.
type view struct {
	n        int
	rel      []ir.Category  // category from span i to span j, "" if none
	src      []ir.Assertion // stored assertion behind rel
	occupied []bool         // any relation between i and j, inert included
}

func newView(g *graph.Graph, idx map[string]int, n int) *view {
	v := &view{
		n:        n,
		rel:      make([]ir.Category, n*n),
		src:      make([]ir.Assertion, n*n),
		occupied: make([]bool, n*n),
	}
	for _, e := range g.Entries() {
		i, j := idx[e.Arg1.ID], idx[e.Arg2.ID]
		v.occupied[i*n+j] = true
		v.occupied[j*n+i] = true
		if !e.Category.Known() || v.rel[i*n+j] != "" {
			continue
		}
		v.rel[i*n+j] = e.Category
		v.rel[j*n+i] = e.Category.Mirror()
		v.src[i*n+j] = e.Assertion
		v.src[j*n+i] = e.Assertion
	}
	return v
}

// candidate is one composition result for a pair (i, k) with i < k, read
// from span i to span k.
type candidate struct {
	cat      ir.Category
	mid      int
	premises [2]ir.Assertion
}

type pair struct{ i, k int }

// collect composes every two relations sharing exactly one span. Only pairs
// with no relation at the start of the pass are considered (novelty rule).
// For each pair and category the candidate through the earliest middle span
// is kept, so the outcome is independent of visit order.
func (v *view) collect(order []int) map[pair]map[ir.Category]candidate {
	n := v.n
	out := make(map[pair]map[ir.Category]candidate)
	for _, j := range order {
		for _, i := range order {
			r1 := v.rel[i*n+j]
			if r1 == "" {
				continue
			}
			for _, k := range order {
				if k <= i || k == j {
					continue
				}
				r2 := v.rel[j*n+k]
				if r2 == "" || v.occupied[i*n+k] {
					continue
				}
				c, ok := Compose(r1, r2)
				if !ok {
					continue
				}
				p := pair{i, k}
				byCat := out[p]
				if byCat == nil {
					byCat = make(map[ir.Category]candidate)
					out[p] = byCat
				}
				if prev, seen := byCat[c]; seen && prev.mid <= j {
					continue
				}
				byCat[c] = candidate{
					cat:      c,
					mid:      j,
					premises: [2]ir.Assertion{v.src[i*n+j], v.src[j*n+k]},
				}
			}
		}
	}
	return out
}

// settle picks the relation for a pair from every category entailed for it
// in one pass. A single category wins outright. CONTAINS or CONTAINED-BY
// refine OVERLAP. Anything else is a contradiction.
func settle(byCat map[ir.Category]candidate) (candidate, bool) {
	if len(byCat) == 1 {
		for _, c := range byCat {
			return c, true
		}
	}
	if len(byCat) == 2 {
		if _, ok := byCat[ir.Overlap]; ok {
			if c, ok := byCat[ir.Contains]; ok {
				return c, true
			}
			if c, ok := byCat[ir.ContainedBy]; ok {
				return c, true
			}
		}
	}
	return candidate{}, false
}

func identity(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Close adds to g every relation entailed by repeated composition, until a
// pass adds nothing. Existing assertions are never changed or removed, and a
// candidate is dropped if any relation already links its two spans in
// either direction.
//
// Relations entailed within a pass are staged against the graph as it stood
// at the start of the pass and merged when the pass ends, so the result does
// not depend on the order composable pairs are discovered. Entailed
// CONTAINED-BY and AFTER are stored as their reciprocals; OVERLAP, ENDS-ON
// and BEGINS-ON are stored with the earlier span first.
//
// Close expects a graph already passed through Resolve. On an unresolved
// graph the earliest temporal assertion of each pair is used for
// composition.
func Close(g *graph.Graph, opts Options) Result {
	res := Result{Derivations: []ir.Derivation{}, Diagnostics: []ir.Diagnostic{}}

	spans := g.Spans()
	n := len(spans)
	idx := make(map[string]int, n)
	for i, s := range spans {
		idx[s.ID] = i
	}
	order := identity(n)
	if opts.discovery != nil {
		order = opts.discovery(n)
	}
	reported := make(map[pair]bool)

	for pass := 1; ; pass++ {
		cands := newView(g, idx, n).collect(order)

		pairs := make([]pair, 0, len(cands))
		for p := range cands {
			pairs = append(pairs, p)
		}
		slices.SortFunc(pairs, func(a, b pair) int {
			if a.i != b.i {
				return a.i - b.i
			}
			return a.k - b.k
		})

		added := 0
		for _, p := range pairs {
			c, ok := settle(cands[p])
			if !ok {
				if !reported[p] {
					reported[p] = true
					res.Inconsistent++
					res.Diagnostics = append(res.Diagnostics, inconsistency(spans[p.i], spans[p.k], cands[p]))
				}
				continue
			}
			for _, a := range emit(spans[p.i], spans[p.k], c.cat, opts.MaterializeReciprocals) {
				if _, err := g.Add(a); err != nil {
					continue
				}
				res.Derivations = append(res.Derivations, ir.Derivation{
					Inferred: a,
					Premises: c.premises,
					Pass:     pass,
				})
				added++
			}
		}
		if added == 0 {
			return res
		}
		res.Passes = pass
	}
}

// emit turns a category read from a to b into the assertions to store.
func emit(a, b ir.SpanRef, cat ir.Category, mirror bool) []ir.Assertion {
	fwd := ir.Assertion{Arg1: &a, Arg2: &b, Category: cat, Provenance: ir.Inferred}
	if cat == ir.ContainedBy || cat == ir.After {
		fwd = fwd.Flip()
	}
	if mirror {
		return []ir.Assertion{fwd, fwd.Flip()}
	}
	return []ir.Assertion{fwd}
}

func inconsistency(a, b ir.SpanRef, byCat map[ir.Category]candidate) ir.Diagnostic {
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, string(c))
	}
	slices.Sort(cats)
	return ir.Diagnostic{
		Code:    ir.DiagInconsistent,
		Message: fmt.Sprintf("contradictory entailments %v", cats),
		Arg1:    a.ID,
		Arg2:    b.ID,
	}
}

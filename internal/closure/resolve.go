package closure

import (
	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
)

// ResolveResult summarizes what Resolve removed.
type ResolveResult struct {
	// Duplicates is the number of redundant restatements removed.
	Duplicates int `json:"duplicates"`

	// ConflictPairs is the number of argument pairs whose assertions
	// disagreed.
	ConflictPairs int `json:"conflict_pairs"`

	// ConflictRemoved is the number of assertions removed from those pairs.
	ConflictRemoved int `json:"conflict_removed"`

	Diagnostics []ir.Diagnostic `json:"diagnostics"`
}

type pairKey struct{ lo, hi string }

// Resolve removes duplicate and conflicting temporal assertions so that at
// most one category remains per unordered argument pair.
//
// Assertions are grouped by unordered pair and compared in canonical
// orientation, so "A BEFORE B" and "B AFTER A" restate one fact. A group
// whose members all state the same fact keeps one representative: an
// Original over an Inferred, then one stored in canonical orientation, then
// the earliest inserted. A group with any disagreement loses every member:
// the pair is treated as unresolvable rather than guessed at. Inert
// categories are not grouped and are never removed.
func Resolve(g *graph.Graph) ResolveResult {
	groups := make(map[pairKey][]graph.Entry)
	var order []pairKey
	for _, e := range g.Entries() {
		if !e.Category.Known() {
			continue
		}
		c := e.Canonical()
		k := pairKey{c.Arg1.ID, c.Arg2.ID}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	res := ResolveResult{Diagnostics: []ir.Diagnostic{}}
	for _, k := range order {
		members := groups[k]
		if len(members) < 2 {
			continue
		}
		keep := members[0]
		agree := true
		for _, m := range members[1:] {
			if preferred(m, keep) {
				keep = m
			}
			if m.Canonical().Category != members[0].Canonical().Category {
				agree = false
			}
		}

		if agree {
			for _, m := range members {
				if m.Seq == keep.Seq {
					continue
				}
				g.Remove(m)
				res.Duplicates++
				res.Diagnostics = append(res.Diagnostics,
					ir.NewDiagnostic(ir.DiagDuplicate, m.Assertion, "restates %s", keep.Assertion))
			}
			continue
		}

		res.ConflictPairs++
		for _, m := range members {
			g.Remove(m)
			res.ConflictRemoved++
			res.Diagnostics = append(res.Diagnostics,
				ir.NewDiagnostic(ir.DiagConflict, m.Assertion, "pair %s/%s has %d disagreeing assertions", k.lo, k.hi, len(members)))
		}
	}
	return res
}

// preferred reports whether a is a better representative than b for the
// same fact. The choice does not depend on insertion order unless a and b
// are indistinguishable.
func preferred(a, b graph.Entry) bool {
	if (a.Provenance == ir.Original) != (b.Provenance == ir.Original) {
		return a.Provenance == ir.Original
	}
	ac, bc := isCanonical(a.Assertion), isCanonical(b.Assertion)
	if ac != bc {
		return ac
	}
	return a.Seq < b.Seq
}

func isCanonical(a ir.Assertion) bool {
	return ir.CompareSpans(*a.Arg1, *a.Arg2) < 0
}

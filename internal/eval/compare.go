package eval

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/tlink/internal/ir"
)

// DiffKind classifies one entry of an error report.
type DiffKind string

const (
	Matched    DiffKind = "MATCHED"
	Mislabeled DiffKind = "MISLABELED"
	Dropped    DiffKind = "DROPPED"
	Added      DiffKind = "ADDED"
)

// Difference compares gold and system on one span pair. Arg1 and Arg2 are
// in span order; Gold and System are read from Arg1 to Arg2 and are empty
// on the side that stated nothing.
type Difference struct {
	Kind   DiffKind    `json:"kind"`
	Arg1   string      `json:"arg1"`
	Arg2   string      `json:"arg2"`
	Gold   ir.Category `json:"gold,omitempty"`
	System ir.Category `json:"system,omitempty"`
}

func (d Difference) String() string {
	switch d.Kind {
	case Added:
		return fmt.Sprintf("system added: %s %s %s", d.Arg1, d.System, d.Arg2)
	case Dropped:
		return fmt.Sprintf("system dropped: %s %s %s", d.Arg1, d.Gold, d.Arg2)
	case Mislabeled:
		return fmt.Sprintf("system labeled %s for %s %s %s", d.System, d.Arg1, d.Gold, d.Arg2)
	}
	return fmt.Sprintf("matched: %s %s %s", d.Arg1, d.Gold, d.Arg2)
}

type spanPair struct {
	a1, a2 ir.SpanRef
	cats   []ir.Category
}

// byPair groups valid assertions by span pair in span order, reading every
// known category from the earlier span. Categories within a pair are
// deduplicated and sorted.
func byPair(as []ir.Assertion) map[[2]string]*spanPair {
	out := make(map[[2]string]*spanPair)
	for _, a := range as {
		if a.Validate() != nil {
			continue
		}
		a = parsed(a)
		c := a
		if ir.CompareSpans(*a.Arg2, *a.Arg1) < 0 {
			c = a.Flip()
		}
		k := [2]string{c.Arg1.ID, c.Arg2.ID}
		p, ok := out[k]
		if !ok {
			p = &spanPair{a1: *c.Arg1, a2: *c.Arg2}
			out[k] = p
		}
		if !slices.Contains(p.cats, c.Category) {
			p.cats = append(p.cats, c.Category)
		}
	}
	for _, p := range out {
		slices.Sort(p.cats)
	}
	return out
}

// Compare lists, pair by pair, how the system output differs from gold.
// Pairs are ordered by span order. On a pair, categories both sides state
// are Matched; remaining gold and system categories are paired off in sorted
// order as Mislabeled, and any leftover is Dropped (gold only) or Added
// (system only).
func Compare(gold, system []ir.Assertion) []Difference {
	gp, sp := byPair(gold), byPair(system)

	keys := make([][2]string, 0, len(gp)+len(sp))
	spans := make(map[[2]string]*spanPair, len(gp)+len(sp))
	for k, p := range gp {
		keys = append(keys, k)
		spans[k] = p
	}
	for k, p := range sp {
		if _, ok := spans[k]; !ok {
			keys = append(keys, k)
			spans[k] = p
		}
	}
	slices.SortFunc(keys, func(x, y [2]string) int {
		px, py := spans[x], spans[y]
		if c := ir.CompareSpans(px.a1, py.a1); c != 0 {
			return c
		}
		return ir.CompareSpans(px.a2, py.a2)
	})

	out := []Difference{}
	for _, k := range keys {
		var gc, sc []ir.Category
		if p, ok := gp[k]; ok {
			gc = p.cats
		}
		if p, ok := sp[k]; ok {
			sc = p.cats
		}
		var gRest, sRest []ir.Category
		for _, c := range gc {
			if slices.Contains(sc, c) {
				out = append(out, Difference{Kind: Matched, Arg1: k[0], Arg2: k[1], Gold: c, System: c})
			} else {
				gRest = append(gRest, c)
			}
		}
		for _, c := range sc {
			if !slices.Contains(gc, c) {
				sRest = append(sRest, c)
			}
		}
		for len(gRest) > 0 && len(sRest) > 0 {
			out = append(out, Difference{Kind: Mislabeled, Arg1: k[0], Arg2: k[1], Gold: gRest[0], System: sRest[0]})
			gRest, sRest = gRest[1:], sRest[1:]
		}
		for _, c := range gRest {
			out = append(out, Difference{Kind: Dropped, Arg1: k[0], Arg2: k[1], Gold: c})
		}
		for _, c := range sRest {
			out = append(out, Difference{Kind: Added, Arg1: k[0], Arg2: k[1], System: c})
		}
	}
	return out
}

// FormatDifferences renders a report one line per difference. Matched
// pairs are omitted unless all is set.
func FormatDifferences(diffs []Difference, all bool) string {
	var b strings.Builder
	for _, d := range diffs {
		if d.Kind == Matched && !all {
			continue
		}
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

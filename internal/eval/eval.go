package eval

import (
	"fmt"
	"slices"

	"github.com/roach88/tlink/internal/closure"
	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
)

// Mode selects which side of an evaluation is closed before scoring.
type Mode string

const (
	// ModePlain scores the relations as given.
	ModePlain Mode = "plain"

	// ModePrecision closes gold, so a system relation that gold only
	// entails still counts as correct. Recall is plain.
	ModePrecision Mode = "precision"

	// ModeRecall closes the system output, so a gold relation the system
	// only entails still counts as found. Precision is plain.
	ModeRecall Mode = "recall"

	// ModeAwareness takes precision from ModePrecision and recall from
	// ModeRecall.
	ModeAwareness Mode = "awareness"
)

// Counts are the tallies behind one precision/recall figure.
type Counts struct {
	Gold   int `json:"gold"`
	System int `json:"system"`

	// CorrectP counts system relations confirmed by (possibly closed) gold.
	CorrectP int `json:"correct_p"`

	// CorrectR counts gold relations found in the (possibly closed) system.
	CorrectR int `json:"correct_r"`
}

// Precision is CorrectP/System, or 0 when the system stated nothing.
func (c Counts) Precision() float64 {
	if c.System == 0 {
		return 0
	}
	return float64(c.CorrectP) / float64(c.System)
}

// Recall is CorrectR/Gold, or 0 when gold is empty.
func (c Counts) Recall() float64 {
	if c.Gold == 0 {
		return 0
	}
	return float64(c.CorrectR) / float64(c.Gold)
}

// F1 is the harmonic mean of Precision and Recall.
func (c Counts) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (c *Counts) add(o Counts) {
	c.Gold += o.Gold
	c.System += o.System
	c.CorrectP += o.CorrectP
	c.CorrectR += o.CorrectR
}

func (c Counts) String() string {
	return fmt.Sprintf("P=%.4f R=%.4f F1=%.4f (gold=%d system=%d correct=%d/%d)",
		c.Precision(), c.Recall(), c.F1(), c.Gold, c.System, c.CorrectP, c.CorrectR)
}

// Stats are overall and per-category counts. Per-category counts use the
// label a relation is stated with after CONTAINED-BY and AFTER are turned
// around, so "B AFTER A" is tallied under BEFORE.
type Stats struct {
	Counts
	ByCategory map[ir.Category]Counts `json:"by_category"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Counts.add(other.Counts)
	if s.ByCategory == nil {
		s.ByCategory = make(map[ir.Category]Counts)
	}
	for c, n := range other.ByCategory {
		cur := s.ByCategory[c]
		cur.add(n)
		s.ByCategory[c] = cur
	}
}

// Categories returns the categories present in ByCategory, in table order
// with inert categories last and sorted.
func (s Stats) Categories() []ir.Category {
	var known, inert []ir.Category
	for _, c := range ir.Categories {
		if _, ok := s.ByCategory[c]; ok {
			known = append(known, c)
		}
	}
	for c := range s.ByCategory {
		if !c.Known() {
			inert = append(inert, c)
		}
	}
	slices.Sort(inert)
	return append(known, inert...)
}

// fact identifies a relation independent of the direction it was stated in.
type fact struct {
	arg1, arg2 string
	cat        ir.Category
}

// factSet is a deduplicated relation set with the label each fact was first
// stated with.
type factSet map[fact]ir.Category

func keyOf(a ir.Assertion) fact {
	c := a
	if a.Category.Known() {
		c = a.Canonical()
	}
	return fact{arg1: c.Arg1.ID, arg2: c.Arg2.ID, cat: c.Category}
}

func label(c ir.Category) ir.Category {
	if c == ir.ContainedBy || c == ir.After {
		return c.Mirror()
	}
	return c
}

// parsed returns a with its category normalized the way the engine
// normalizes input, so "contains" and "CONTAINED_BY" are read as CONTAINS
// and CONTAINED-BY.
func parsed(a ir.Assertion) ir.Assertion {
	a.Category = ir.ParseCategory(string(a.Category))
	return a
}

func newFactSet(as []ir.Assertion) factSet {
	fs := make(factSet, len(as))
	for _, a := range as {
		if a.Validate() != nil {
			continue
		}
		a = parsed(a)
		k := keyOf(a)
		if _, ok := fs[k]; !ok {
			fs[k] = label(a.Category)
		}
	}
	return fs
}

// Score compares system relations against gold as given. A system relation
// is correct when gold states the same fact, in either direction.
// Categories are compared after ir.ParseCategory. Malformed relations and
// restatements are ignored.
func Score(gold, system []ir.Assertion) Stats {
	g, s := newFactSet(gold), newFactSet(system)
	return score(g, s, g, s)
}

// score counts system facts confirmed by goldRef and gold facts found in
// systemRef.
func score(gold, system, goldRef, systemRef factSet) Stats {
	st := Stats{ByCategory: make(map[ir.Category]Counts)}
	bump := func(c ir.Category, f func(*Counts)) {
		n := st.ByCategory[c]
		f(&n)
		st.ByCategory[c] = n
	}
	for k, c := range gold {
		st.Gold++
		bump(c, func(n *Counts) { n.Gold++ })
		if _, ok := systemRef[k]; ok {
			st.CorrectR++
			bump(c, func(n *Counts) { n.CorrectR++ })
		}
	}
	for k, c := range system {
		st.System++
		bump(c, func(n *Counts) { n.System++ })
		if _, ok := goldRef[k]; ok {
			st.CorrectP++
			bump(c, func(n *Counts) { n.CorrectP++ })
		}
	}
	return st
}

// Evaluate scores one document's system relations against its gold
// relations under mode. Closure runs on private copies; neither document is
// modified. Both sides are resolved before closure.
func Evaluate(gold, system ir.Document, mode Mode) (Stats, error) {
	g, s := newFactSet(gold.Relations), newFactSet(system.Relations)
	switch mode {
	case ModePlain:
		return score(g, s, g, s), nil
	case ModePrecision:
		return score(g, s, closed(gold), s), nil
	case ModeRecall:
		return score(g, s, g, closed(system)), nil
	case ModeAwareness:
		return score(g, s, closed(gold), closed(system)), nil
	}
	return Stats{}, fmt.Errorf("eval: unknown mode %q", mode)
}

// EvaluateAll scores a corpus. Documents are paired by ID; a system
// document without gold is scored against an empty gold set and vice versa.
func EvaluateAll(gold, system []ir.Document, mode Mode) (Stats, error) {
	sys := make(map[string]ir.Document, len(system))
	for _, d := range system {
		sys[d.ID] = d
	}
	total := Stats{ByCategory: make(map[ir.Category]Counts)}
	seen := make(map[string]bool, len(gold))
	for _, gd := range gold {
		seen[gd.ID] = true
		sd, ok := sys[gd.ID]
		if !ok {
			sd = ir.Document{ID: gd.ID}
		}
		st, err := Evaluate(gd, sd, mode)
		if err != nil {
			return Stats{}, fmt.Errorf("document %s: %w", gd.ID, err)
		}
		total.Add(st)
	}
	for _, sd := range system {
		if seen[sd.ID] {
			continue
		}
		st, err := Evaluate(ir.Document{ID: sd.ID}, sd, mode)
		if err != nil {
			return Stats{}, fmt.Errorf("document %s: %w", sd.ID, err)
		}
		total.Add(st)
	}
	return total, nil
}

// closed returns the document's facts plus everything closure entails from
// them. Conflicting pairs are resolved away before closure but their stated
// facts stay in the set, so closing never makes a match disappear.
func closed(doc ir.Document) factSet {
	fs := newFactSet(doc.Relations)
	rels := make([]ir.Assertion, len(doc.Relations))
	for i, a := range doc.Relations {
		rels[i] = parsed(a)
	}
	doc.Relations = rels
	g, _ := graph.FromDocument(doc)
	closure.Resolve(g)
	res := closure.Close(g, closure.Options{})
	for k, c := range newFactSet(res.Inferred()) {
		if _, ok := fs[k]; !ok {
			fs[k] = c
		}
	}
	return fs
}

package closure

import "github.com/roach88/tlink/internal/ir"

const (
	cn = ir.Contains
	cb = ir.ContainedBy
	bf = ir.Before
	af = ir.After
	bo = ir.BeginsOn
	eo = ir.EndsOn
	ov = ir.Overlap
	xx = ir.Category("")
)

// table[r1][r2] is the category entailed on (A, C) by (A r1 B) and (B r2 C),
// or xx when interval semantics do not fix a single answer. Rows and columns
// cover all seven categories; the ContainedBy and After rows and columns are
// the converse of the Contains and Before ones:
//
//	Compose(r1, r2) == Compose(r2.Mirror(), r1.Mirror()).Mirror()
//
// Where several categories are entailed the most specific one is listed
// (BEFORE/AFTER/ENDS-ON/BEGINS-ON over CONTAINS/CONTAINED-BY over OVERLAP).
var table = map[ir.Category]map[ir.Category]ir.Category{
	//     Contains     ContainedBy   Before       After        BeginsOn     EndsOn       Overlap
	cn: {cn: cn, cb: ov, bf: xx, af: xx, bo: ov, eo: ov, ov: ov},
	cb: {cn: xx, cb: cb, bf: bf, af: af, bo: af, eo: bf, ov: xx},
	bf: {cn: bf, cb: xx, bf: bf, af: xx, bo: xx, eo: bf, ov: xx},
	af: {cn: af, cb: xx, bf: xx, af: af, bo: af, eo: xx, ov: xx},
	bo: {cn: af, cb: ov, bf: xx, af: af, bo: af, eo: ov, ov: xx},
	eo: {cn: bf, cb: ov, bf: bf, af: xx, bo: ov, eo: bf, ov: xx},
	ov: {cn: xx, cb: ov, bf: xx, af: xx, bo: xx, eo: xx, ov: xx},
}

// Compose returns the relation entailed on (A, C) by (A r1 B) and (B r2 C).
// ok is false when the pair of categories entails nothing definite or either
// category is inert. Compose never guesses.
func Compose(r1, r2 ir.Category) (ir.Category, bool) {
	row, ok := table[r1]
	if !ok {
		return "", false
	}
	c, ok := row[r2]
	if !ok || c == xx {
		return "", false
	}
	return c, true
}

package ir

import "strings"

// Category is a temporal relation category. The seven constants below form
// the closed set the closure engine reasons about; any other value is inert
// and travels through every transform unchanged.
type Category string

const (
	Contains    Category = "CONTAINS"
	ContainedBy Category = "CONTAINED-BY"
	Overlap     Category = "OVERLAP"
	Before      Category = "BEFORE"
	After       Category = "AFTER"
	BeginsOn    Category = "BEGINS-ON"
	EndsOn      Category = "ENDS-ON"
)

// Categories lists the temporal categories in table order.
var Categories = []Category{Contains, ContainedBy, Before, After, BeginsOn, EndsOn, Overlap}

// Known reports whether c is one of the seven temporal categories.
func (c Category) Known() bool {
	switch c {
	case Contains, ContainedBy, Overlap, Before, After, BeginsOn, EndsOn:
		return true
	}
	return false
}

// Reciprocal returns the category of the same fact read in the opposite
// direction. Inert categories have no reciprocal.
func (c Category) Reciprocal() (Category, bool) {
	switch c {
	case Contains:
		return ContainedBy, true
	case ContainedBy:
		return Contains, true
	case Before:
		return After, true
	case After:
		return Before, true
	case BeginsOn:
		return EndsOn, true
	case EndsOn:
		return BeginsOn, true
	case Overlap:
		return Overlap, true
	}
	return c, false
}

// Mirror is Reciprocal without the ok flag. Inert categories map to
// themselves.
func (c Category) Mirror() Category {
	r, _ := c.Reciprocal()
	return r
}

// ParseCategory normalizes case and separators. The result may be inert.
func ParseCategory(s string) Category {
	s = strings.ToUpper(strings.TrimSpace(s))
	return Category(strings.ReplaceAll(s, "_", "-"))
}

// ParseCategoryLenient is ParseCategory plus the THYME-era aliases found in
// older gold annotations.
func ParseCategoryLenient(s string) Category {
	c := ParseCategory(s)
	switch c {
	case "", "UNDEFINED":
		return Overlap
	case "CONTINUES", "TERMINATES":
		return BeginsOn
	case "INITIATES", "REINITIATES":
		return EndsOn
	case "CONTAINEDBY":
		return ContainedBy
	case "BEGINSON":
		return BeginsOn
	case "ENDSON":
		return EndsOn
	}
	return c
}

// Holds evaluates the category as a predicate over two proper intervals.
// Offsets are treated as interval endpoints: ENDS-ON means a ends exactly
// where b begins, CONTAINS is strict on both ends, and OVERLAP is any shared
// interior.
func (c Category) Holds(a, b SpanRef) bool {
	switch c {
	case Before:
		return a.End < b.Begin
	case After:
		return a.Begin > b.End
	case EndsOn:
		return a.End == b.Begin
	case BeginsOn:
		return a.Begin == b.End
	case Contains:
		return a.Begin < b.Begin && a.End > b.End
	case ContainedBy:
		return a.Begin > b.Begin && a.End < b.End
	case Overlap:
		return a.Begin < b.End && b.Begin < a.End
	}
	return false
}

// specificity is the preference order used when several categories hold.
var specificity = []Category{Before, After, EndsOn, BeginsOn, Contains, ContainedBy, Overlap}

// CategoryFromOffsets returns the most specific category that holds between
// two proper intervals. ok is false if either interval is empty or inverted.
//
// Categories follow Holds, not THYME annotation practice: two spans that
// share only a start or only an end offset, and otherwise overlap, are
// OVERLAP. BEGINS-ON and ENDS-ON are returned only when one span ends exactly
// where the other begins. Gold relations derived here therefore never carry
// BEGINS-ON for a shared start or ENDS-ON for a shared end.
func CategoryFromOffsets(a, b SpanRef) (Category, bool) {
	if !a.Proper() || !b.Proper() {
		return "", false
	}
	for _, c := range specificity {
		if c.Holds(a, b) {
			return c, true
		}
	}
	return "", false
}

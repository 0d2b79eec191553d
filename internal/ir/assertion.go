package ir

import "fmt"

// Provenance records whether a relation was asserted or derived.
type Provenance string

const (
	Original Provenance = "ORIGINAL"
	Inferred Provenance = "INFERRED"
)

// Assertion is a directed relation between two spans. A nil argument marks
// a malformed assertion; such assertions are dropped before any graph
// operation sees them.
type Assertion struct {
	Arg1       *SpanRef   `json:"arg1"`
	Arg2       *SpanRef   `json:"arg2"`
	Category   Category   `json:"category"`
	Provenance Provenance `json:"provenance"`
}

// Validate reports why an assertion cannot enter a relation graph.
func (a Assertion) Validate() error {
	switch {
	case a.Arg1 == nil && a.Arg2 == nil:
		return fmt.Errorf("both arguments missing")
	case a.Arg1 == nil:
		return fmt.Errorf("arg1 missing")
	case a.Arg2 == nil:
		return fmt.Errorf("arg2 missing")
	case a.Arg1.ID == "" || a.Arg2.ID == "":
		return fmt.Errorf("argument without id")
	case a.Arg1.ID == a.Arg2.ID:
		return fmt.Errorf("self relation on %s", a.Arg1.ID)
	}
	return nil
}

// Flip returns the same fact read from Arg2 to Arg1. Inert categories keep
// their name.
func (a Assertion) Flip() Assertion {
	return Assertion{
		Arg1:       a.Arg2,
		Arg2:       a.Arg1,
		Category:   a.Category.Mirror(),
		Provenance: a.Provenance,
	}
}

// Canonical orients the assertion so that Arg1 sorts before Arg2, flipping
// the category when needed. Two assertions describe the same fact iff their
// canonical forms have equal argument IDs and category.
func (a Assertion) Canonical() Assertion {
	if CompareSpans(*a.Arg2, *a.Arg1) < 0 {
		return a.Flip()
	}
	return a
}

func (a Assertion) String() string {
	return fmt.Sprintf("%s %s %s", argID(a.Arg1), a.Category, argID(a.Arg2))
}

func argID(s *SpanRef) string {
	if s == nil {
		return "<nil>"
	}
	return s.ID
}

// Derivation explains one inferred assertion: the two premises it was
// composed from and the closure pass that produced it.
type Derivation struct {
	Inferred Assertion    `json:"inferred"`
	Premises [2]Assertion `json:"premises"`
	Pass     int          `json:"pass"`
}

// Document is everything the engine needs for one document, materialized
// by the annotation layer.
type Document struct {
	ID        string      `json:"id"`
	Spans     []SpanRef   `json:"spans"`
	Sentences []Sentence  `json:"sentences"`
	Relations []Assertion `json:"relations"`
}

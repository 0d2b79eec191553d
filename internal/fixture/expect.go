package fixture

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tlink/internal/engine"
	"github.com/roach88/tlink/internal/ir"
	"github.com/roach88/tlink/internal/store"
)

// Expectation type constants.
const (
	ExpectRelationPresent = "relation_present"
	ExpectRelationAbsent  = "relation_absent"
	ExpectPairCount       = "pair_count"
	ExpectTotalCount      = "total_count"
	ExpectInferredCount   = "inferred_count"
	ExpectDiagnosticCount = "diagnostic_count"
	ExpectReport          = "report"
	ExpectDerivation      = "derivation"
)

// Expectation is one check against a processed document.
type Expectation struct {
	// Type selects the check; see the Expect* constants.
	Type string `yaml:"type"`

	// Relation is "ARG1 CATEGORY ARG2" (relation_present, relation_absent,
	// derivation). It matches the stated fact in either direction.
	Relation string `yaml:"relation,omitempty"`

	// Provenance optionally narrows relation_present.
	Provenance string `yaml:"provenance,omitempty"`

	// Pair is two span IDs (pair_count).
	Pair []string `yaml:"pair,omitempty"`

	// Code is a diagnostic code (diagnostic_count).
	Code string `yaml:"code,omitempty"`

	// Field is a report field name such as "conflict_pairs" (report).
	Field string `yaml:"field,omitempty"`

	// Premises are the two relations a derivation must cite, in order.
	Premises []string `yaml:"premises,omitempty"`

	Count int `yaml:"count,omitempty"`
}

func (e *Expectation) validate(spans map[string]bool) error {
	if e.Count < 0 {
		return fmt.Errorf("count must be non-negative")
	}
	checkFact := func(s string) error {
		f, err := parseFact(s)
		if err != nil {
			return err
		}
		for _, id := range []string{f.arg1, f.arg2} {
			if !spans[id] {
				return fmt.Errorf("unknown span %q in %q", id, s)
			}
		}
		return nil
	}

	switch e.Type {
	case "":
		return fmt.Errorf("type is required")
	case ExpectRelationPresent, ExpectRelationAbsent:
		if e.Provenance != "" && e.Provenance != string(ir.Original) && e.Provenance != string(ir.Inferred) {
			return fmt.Errorf("unknown provenance %q", e.Provenance)
		}
		return checkFact(e.Relation)
	case ExpectPairCount:
		if len(e.Pair) != 2 {
			return fmt.Errorf("pair must name two spans")
		}
		for _, id := range e.Pair {
			if !spans[id] {
				return fmt.Errorf("unknown span %q", id)
			}
		}
	case ExpectTotalCount, ExpectInferredCount:
	case ExpectDiagnosticCount:
		if e.Code == "" {
			return fmt.Errorf("code is required for diagnostic_count")
		}
	case ExpectReport:
		if _, ok := (engine.Report{}).Record()[e.Field]; !ok {
			return fmt.Errorf("unknown report field %q", e.Field)
		}
	case ExpectDerivation:
		if err := checkFact(e.Relation); err != nil {
			return err
		}
		if len(e.Premises) != 2 {
			return fmt.Errorf("derivation needs two premises")
		}
		for _, p := range e.Premises {
			if err := checkFact(p); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown expectation type %q", e.Type)
	}
	return nil
}

// ExpectationError is returned when an expectation fails. It carries the
// output relations for context.
type ExpectationError struct {
	Type      string
	Expected  string
	Actual    string
	Relations []ir.Assertion
}

func (e *ExpectationError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Expectation failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nOutput relations:\n")
	for i, r := range e.Relations {
		fmt.Fprintf(&buf, "  [%d] %s (%s)\n", i+1, r, r.Provenance)
	}
	return buf.String()
}

type fact struct {
	arg1, arg2 string
	cat        ir.Category
}

func parseFact(s string) (fact, error) {
	f := strings.Fields(s)
	if len(f) != 3 {
		return fact{}, fmt.Errorf("relation %q must be ARG1 CATEGORY ARG2", s)
	}
	return fact{arg1: f[0], cat: ir.ParseCategory(f[1]), arg2: f[2]}, nil
}

// matches reports whether a states f, read in either direction.
func (f fact) matches(a ir.Assertion) bool {
	if a.Arg1 == nil || a.Arg2 == nil {
		return false
	}
	if a.Arg1.ID == f.arg1 && a.Arg2.ID == f.arg2 && a.Category == f.cat {
		return true
	}
	return a.Arg1.ID == f.arg2 && a.Arg2.ID == f.arg1 && a.Category == f.cat.Mirror()
}

// Check evaluates every expectation against out. st and runID, when st is
// non-nil, are used for derivation expectations. All failures are returned
// in expectation order.
func Check(ctx context.Context, out *engine.Outcome, exps []Expectation, st *store.Store, runID string) []error {
	var errs []error
	for i, e := range exps {
		if err := check(ctx, out, e, st, runID); err != nil {
			errs = append(errs, fmt.Errorf("expect[%d]: %w", i, err))
		}
	}
	return errs
}

func check(ctx context.Context, out *engine.Outcome, e Expectation, st *store.Store, runID string) error {
	fail := func(expected, actual string) error {
		return &ExpectationError{Type: e.Type, Expected: expected, Actual: actual, Relations: out.Relations}
	}

	switch e.Type {
	case ExpectRelationPresent:
		f, _ := parseFact(e.Relation)
		for _, r := range out.Relations {
			if f.matches(r) && (e.Provenance == "" || string(r.Provenance) == e.Provenance) {
				return nil
			}
		}
		want := e.Relation
		if e.Provenance != "" {
			want += " (" + e.Provenance + ")"
		}
		return fail(want, "not found in output")

	case ExpectRelationAbsent:
		f, _ := parseFact(e.Relation)
		for _, r := range out.Relations {
			if f.matches(r) {
				return fail(e.Relation+" absent", fmt.Sprintf("present as %s (%s)", r, r.Provenance))
			}
		}
		return nil

	case ExpectPairCount:
		n := 0
		for _, r := range out.Relations {
			if (r.Arg1.ID == e.Pair[0] && r.Arg2.ID == e.Pair[1]) ||
				(r.Arg1.ID == e.Pair[1] && r.Arg2.ID == e.Pair[0]) {
				n++
			}
		}
		if n != e.Count {
			return fail(fmt.Sprintf("%d relations on %s/%s", e.Count, e.Pair[0], e.Pair[1]), fmt.Sprintf("%d relations", n))
		}
		return nil

	case ExpectTotalCount:
		if len(out.Relations) != e.Count {
			return fail(fmt.Sprintf("%d relations", e.Count), fmt.Sprintf("%d relations", len(out.Relations)))
		}
		return nil

	case ExpectInferredCount:
		n := 0
		for _, r := range out.Relations {
			if r.Provenance == ir.Inferred {
				n++
			}
		}
		if n != e.Count {
			return fail(fmt.Sprintf("%d inferred relations", e.Count), fmt.Sprintf("%d inferred relations", n))
		}
		return nil

	case ExpectDiagnosticCount:
		n := 0
		for _, d := range out.Diagnostics {
			if string(d.Code) == e.Code {
				n++
			}
		}
		if n != e.Count {
			return fail(fmt.Sprintf("%d %s diagnostics", e.Count, e.Code), fmt.Sprintf("%d %s diagnostics", n, e.Code))
		}
		return nil

	case ExpectReport:
		got := out.Report.Record()[e.Field]
		if got != ir.Int(e.Count) {
			return fail(fmt.Sprintf("report %s = %d", e.Field, e.Count), fmt.Sprintf("report %s = %v", e.Field, got))
		}
		return nil

	case ExpectDerivation:
		if st == nil {
			return fmt.Errorf("derivation expectation requires a run log")
		}
		return checkDerivation(ctx, out, e, st, runID, fail)
	}
	return fmt.Errorf("unknown expectation type %q", e.Type)
}

// checkDerivation looks the inferred relation up in the run log by content
// address and compares the recorded premises.
func checkDerivation(ctx context.Context, out *engine.Outcome, e Expectation, st *store.Store, runID string, fail func(string, string) error) error {
	id, ok := outputID(out, e.Relation)
	if !ok {
		return fail(e.Relation+" derived", "not found in output")
	}
	rows, err := st.Explain(ctx, runID, id)
	if err != nil {
		return fmt.Errorf("explain %s: %w", e.Relation, err)
	}

	var want [2]string
	for i, p := range e.Premises {
		pid, ok := outputID(out, p)
		if !ok {
			return fail(fmt.Sprintf("premise %s in output", p), "not found in output")
		}
		want[i] = pid
	}
	for _, row := range rows {
		if row.PremiseIDs == want {
			return nil
		}
	}
	return fail(
		fmt.Sprintf("%s derived from %s and %s", e.Relation, e.Premises[0], e.Premises[1]),
		fmt.Sprintf("%d recorded derivations with other premises", len(rows)),
	)
}

// outputID returns the assertion ID of the output relation stating s.
func outputID(out *engine.Outcome, s string) (string, bool) {
	f, err := parseFact(s)
	if err != nil {
		return "", false
	}
	for _, r := range out.Relations {
		if f.matches(r) {
			id, err := ir.AssertionID(r)
			return id, err == nil
		}
	}
	return "", false
}

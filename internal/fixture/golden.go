package fixture

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tlink/internal/engine"
	"github.com/roach88/tlink/internal/ir"
)

// Snapshot renders an outcome as canonical JSON followed by a newline.
// Relations, derivations and diagnostics keep engine order, which is
// deterministic.
func Snapshot(name string, out *engine.Outcome) ([]byte, error) {
	obj := ir.Object{
		"fixture":     ir.String(name),
		"relations":   ir.Records(out.Relations, ir.Assertion.Record),
		"derivations": ir.Records(out.Derivations, ir.Derivation.Record),
		"diagnostics": ir.Records(out.Diagnostics, ir.Diagnostic.Record),
		"report":      out.Report.Record(),
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// AssertGolden compares the outcome's snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/fixture -update
func AssertGolden(t *testing.T, name string, out *engine.Outcome) {
	t.Helper()

	data, err := Snapshot(name, out)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}

// RunWithGolden runs the fixture, fails the test for every unmet
// expectation and compares the outcome against its golden file.
func RunWithGolden(t *testing.T, f *Fixture) {
	t.Helper()

	res, err := Run(context.Background(), f)
	if err != nil {
		t.Fatalf("run fixture %s: %v", f.Name, err)
	}
	for _, e := range res.Errors {
		t.Errorf("fixture %s: %v", f.Name, e)
	}
	AssertGolden(t, f.Name, res.Outcome)
}

package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tlink/internal/config"
	"github.com/roach88/tlink/internal/engine"
	"github.com/roach88/tlink/internal/ir"
)

const minimal = `
name: minimal
description: two spans
spans:
  - {id: A, begin: 0, end: 5, kind: event}
  - {id: B, begin: 10, end: 15, kind: timex3}
relations:
  - A BEFORE B
expect:
  - {type: total_count, count: 1}
`

func TestFixtures(t *testing.T) {
	fixtures, err := LoadDir("testdata/fixtures")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)

	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			RunWithGolden(t, f)
		})
	}
}

func TestParseMinimal(t *testing.T) {
	f, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, "minimal", f.Name)
	assert.Equal(t, config.Default(), f.Pipeline())
	assert.Equal(t, ir.SpanEvent, f.Spans[0].Kind)
	assert.Equal(t, ir.SpanTime, f.Spans[1].Kind)
	assert.Equal(t, []Relation{{Arg1: "A", Arg2: "B", Category: "BEFORE"}}, f.Relations)
}

func TestParseConfigOverride(t *testing.T) {
	src := minimal + `
config:
  mode: restrict-then-close
  keep_categories: [BEFORE]
`
	f, err := Parse([]byte(src))
	require.NoError(t, err)

	p := f.Pipeline()
	assert.Equal(t, config.ModeRestrictThenClose, p.Mode)
	assert.Equal(t, []string{"BEFORE"}, p.KeepCategories)
	assert.Equal(t, 4, p.Workers, "omitted fields keep defaults")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown top-level field",
			src:  minimal + "relation: []\n",
			want: "field relation not found",
		},
		{
			name: "unknown config field",
			src:  minimal + "config: {closure: true}\n",
			want: "field closure not found",
		},
		{
			name: "invalid config value",
			src:  minimal + "config: {mode: sideways}\n",
			want: `unknown mode "sideways"`,
		},
		{
			name: "missing name",
			src:  "description: x\nspans: [{id: A, kind: EVENT}]\nexpect: [{type: total_count}]\n",
			want: "name is required",
		},
		{
			name: "missing expectations",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}]\n",
			want: "expect list is required",
		},
		{
			name: "duplicate span",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}, {id: A, kind: EVENT}]\nexpect: [{type: total_count}]\n",
			want: `spans[1]: duplicate id "A"`,
		},
		{
			name: "bad span kind",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: PLACE}]\nexpect: [{type: total_count}]\n",
			want: `unknown span kind "PLACE"`,
		},
		{
			name: "relation on unknown span",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}]\nrelations: [A BEFORE Z]\nexpect: [{type: total_count}]\n",
			want: `relations[0]: unknown span "Z"`,
		},
		{
			name: "short relation",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}]\nrelations: [A BEFORE]\nexpect: [{type: total_count}]\n",
			want: "must be ARG1 CATEGORY ARG2",
		},
		{
			name: "unknown expectation",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}]\nexpect: [{type: trace_count}]\n",
			want: `expect[0]: unknown expectation type "trace_count"`,
		},
		{
			name: "unknown report field",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}]\nexpect: [{type: report, field: speed}]\n",
			want: `unknown report field "speed"`,
		},
		{
			name: "derivation with one premise",
			src:  "name: x\ndescription: x\nspans: [{id: A, kind: EVENT}, {id: B, kind: EVENT}]\nexpect: [{type: derivation, relation: A BEFORE B, premises: [A BEFORE B]}]\n",
			want: "derivation needs two premises",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDocumentMalformedRelation(t *testing.T) {
	f, err := Parse([]byte(`
name: gap
description: missing arg2
spans:
  - {id: A, begin: 0, end: 5, kind: EVENT}
relations:
  - {arg1: A, category: BEFORE}
expect:
  - {type: diagnostic_count, code: MALFORMED, count: 1}
`))
	require.NoError(t, err)

	doc := f.Document()
	assert.Equal(t, "gap", doc.ID)
	require.Len(t, doc.Relations, 1)
	assert.Equal(t, "A", doc.Relations[0].Arg1.ID)
	assert.Nil(t, doc.Relations[0].Arg2)
	assert.Equal(t, ir.Original, doc.Relations[0].Provenance)
}

func TestLoadDirRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(minimal), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(minimal), 0644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `fixture "minimal" defined in both`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunReportsFailedExpectations(t *testing.T) {
	f, err := Parse([]byte(`
name: wrong
description: expectations that do not hold
spans:
  - {id: A, begin: 0, end: 5, kind: EVENT}
  - {id: B, begin: 10, end: 15, kind: EVENT}
  - {id: C, begin: 20, end: 25, kind: EVENT}
relations:
  - A BEFORE B
  - B BEFORE C
expect:
  - {type: relation_present, relation: A AFTER C}
  - {type: relation_absent, relation: C AFTER A}
  - {type: total_count, count: 3}
  - {type: relation_present, relation: A BEFORE B, provenance: INFERRED}
`))
	require.NoError(t, err)

	res, err := Run(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, res.Pass())
	assert.Equal(t, "fixture-wrong", res.RunID)
	require.Len(t, res.Errors, 3)

	var ee *ExpectationError
	require.True(t, errors.As(res.Errors[0], &ee))
	assert.Equal(t, ExpectRelationPresent, ee.Type)
	assert.Contains(t, res.Errors[0].Error(), "Expected: A AFTER C")
	assert.Contains(t, res.Errors[0].Error(), "[2] A BEFORE C (INFERRED)")

	assert.Contains(t, res.Errors[1].Error(), "present as A BEFORE C (INFERRED)")
	assert.Contains(t, res.Errors[2].Error(), "Expected: A BEFORE B (INFERRED)")
}

func TestRunIsDeterministic(t *testing.T) {
	f, err := Load("testdata/fixtures/contains_chain.yaml")
	require.NoError(t, err)

	first, err := Run(context.Background(), f)
	require.NoError(t, err)
	second, err := Run(context.Background(), f)
	require.NoError(t, err)

	a, err := Snapshot(f.Name, first.Outcome)
	require.NoError(t, err)
	b, err := Snapshot(f.Name, second.Outcome)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCheckDerivationNeedsRunLog(t *testing.T) {
	spans := map[string]*ir.SpanRef{
		"A": {ID: "A", Begin: 0, End: 5, Kind: ir.SpanEvent},
		"B": {ID: "B", Begin: 10, End: 15, Kind: ir.SpanEvent},
	}
	out := &engine.Outcome{Relations: []ir.Assertion{
		{Arg1: spans["A"], Arg2: spans["B"], Category: ir.Before, Provenance: ir.Original},
	}}
	errs := Check(context.Background(), out, []Expectation{
		{Type: ExpectPairCount, Pair: []string{"B", "A"}, Count: 1},
		{Type: ExpectDerivation, Relation: "A BEFORE B", Premises: []string{"A BEFORE B", "A BEFORE B"}},
	}, nil, "")

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "expect[1]: derivation expectation requires a run log")
}

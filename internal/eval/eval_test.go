package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tlink/internal/ir"
	"github.com/roach88/tlink/internal/testutil"
)

func assertions(t *testing.T, facts ...string) []ir.Assertion {
	t.Helper()
	spans := testutil.Spans("A", "B", "C", "D")
	out := make([]ir.Assertion, len(facts))
	for i, f := range facts {
		out[i] = testutil.Fact(t, spans, f)
	}
	return out
}

// rawLabels returns the facts with their categories replaced by labels as
// they appear in annotation files, unparsed.
func rawLabels(as []ir.Assertion, labels ...string) []ir.Assertion {
	for i := range as {
		as[i].Category = ir.Category(labels[i])
	}
	return as
}

func document(t *testing.T, id string, facts ...string) ir.Document {
	t.Helper()
	return ir.Document{ID: id, Relations: assertions(t, facts...)}
}

func TestScoreMatchesEitherDirection(t *testing.T) {
	gold := assertions(t, "A BEFORE B", "B CONTAINS C")
	system := assertions(t, "B AFTER A", "A BEFORE C")

	st := Score(gold, system)

	assert.Equal(t, Counts{Gold: 2, System: 2, CorrectP: 1, CorrectR: 1}, st.Counts)
	assert.InDelta(t, 0.5, st.Precision(), 1e-9)
	assert.InDelta(t, 0.5, st.Recall(), 1e-9)
	assert.InDelta(t, 0.5, st.F1(), 1e-9)

	assert.Equal(t, Counts{Gold: 1, System: 2, CorrectP: 1, CorrectR: 1}, st.ByCategory[ir.Before])
	assert.Equal(t, Counts{Gold: 1}, st.ByCategory[ir.Contains])
	assert.Equal(t, []ir.Category{ir.Contains, ir.Before}, st.Categories())
}

func TestScoreIgnoresRestatementsAndMalformed(t *testing.T) {
	gold := assertions(t, "A BEFORE B", "B AFTER A")
	system := append(assertions(t, "A BEFORE B"), ir.Assertion{Category: ir.Before})

	st := Score(gold, system)

	assert.Equal(t, Counts{Gold: 1, System: 1, CorrectP: 1, CorrectR: 1}, st.Counts)
	assert.InDelta(t, 1.0, st.F1(), 1e-9)
}

func TestCountsEmpty(t *testing.T) {
	var c Counts
	assert.Zero(t, c.Precision())
	assert.Zero(t, c.Recall())
	assert.Zero(t, c.F1())
	assert.Equal(t, "P=0.0000 R=0.0000 F1=0.0000 (gold=0 system=0 correct=0/0)", c.String())
}

func TestEvaluateModes(t *testing.T) {
	tests := []struct {
		name   string
		gold   []string
		system []string
		mode   Mode
		want   Counts
	}{
		{
			name:   "plain",
			gold:   []string{"A CONTAINS B", "B CONTAINS C"},
			system: []string{"A CONTAINS B", "A CONTAINS C"},
			mode:   ModePlain,
			want:   Counts{Gold: 2, System: 2, CorrectP: 1, CorrectR: 1},
		},
		{
			name:   "precision credits facts gold entails",
			gold:   []string{"A CONTAINS B", "B CONTAINS C"},
			system: []string{"A CONTAINS B", "A CONTAINS C"},
			mode:   ModePrecision,
			want:   Counts{Gold: 2, System: 2, CorrectP: 2, CorrectR: 1},
		},
		{
			name:   "recall credits facts the system entails",
			gold:   []string{"A CONTAINS B", "A CONTAINS C"},
			system: []string{"A CONTAINS B", "B CONTAINS C"},
			mode:   ModeRecall,
			want:   Counts{Gold: 2, System: 2, CorrectP: 1, CorrectR: 2},
		},
		{
			name:   "awareness closes both sides",
			gold:   []string{"A BEFORE B", "B BEFORE C", "C CONTAINS D"},
			system: []string{"A BEFORE C", "C BEFORE D", "B BEFORE C"},
			mode:   ModeAwareness,
			// Closed gold adds A BEFORE C; closed system adds A BEFORE D and
			// B BEFORE D, neither of which gold states.
			want: Counts{Gold: 3, System: 3, CorrectP: 2, CorrectR: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gold := document(t, "d1", tt.gold...)
			system := document(t, "d1", tt.system...)

			st, err := Evaluate(gold, system, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Counts)

			// Closure works on copies.
			assert.Len(t, gold.Relations, len(tt.gold))
			assert.Len(t, system.Relations, len(tt.system))
		})
	}
}

func TestEvaluateUnknownMode(t *testing.T) {
	_, err := Evaluate(ir.Document{}, ir.Document{}, "sideways")
	assert.ErrorContains(t, err, `unknown mode "sideways"`)
}

func TestEvaluateAllPairsByID(t *testing.T) {
	gold := []ir.Document{
		document(t, "d1", "A BEFORE B"),
		document(t, "d2", "A CONTAINS B"),
	}
	system := []ir.Document{
		document(t, "d3", "C BEFORE D"),
		document(t, "d1", "A BEFORE B"),
	}

	st, err := EvaluateAll(gold, system, ModePlain)
	require.NoError(t, err)

	assert.Equal(t, Counts{Gold: 2, System: 2, CorrectP: 1, CorrectR: 1}, st.Counts)
	assert.Equal(t, Counts{Gold: 1, System: 2, CorrectP: 1, CorrectR: 1}, st.ByCategory[ir.Before])
	assert.Equal(t, Counts{Gold: 1}, st.ByCategory[ir.Contains])
}

func TestStatsAdd(t *testing.T) {
	var total Stats
	total.Add(Stats{
		Counts:     Counts{Gold: 1, System: 2, CorrectP: 1, CorrectR: 1},
		ByCategory: map[ir.Category]Counts{ir.Before: {Gold: 1, System: 2, CorrectP: 1, CorrectR: 1}},
	})
	total.Add(Stats{
		Counts:     Counts{Gold: 3},
		ByCategory: map[ir.Category]Counts{ir.Before: {Gold: 1}, "NOTED-ON": {Gold: 2}},
	})

	assert.Equal(t, Counts{Gold: 4, System: 2, CorrectP: 1, CorrectR: 1}, total.Counts)
	assert.Equal(t, Counts{Gold: 2, System: 2, CorrectP: 1, CorrectR: 1}, total.ByCategory[ir.Before])
	assert.Equal(t, []ir.Category{ir.Before, "NOTED-ON"}, total.Categories())
}

func TestScoreNormalizesLabels(t *testing.T) {
	gold := rawLabels(assertions(t, "C CONTAINED-BY A", "A BEFORE B"), "contained_by", " Before ")
	system := assertions(t, "A CONTAINS C", "B AFTER A")

	st := Score(gold, system)

	assert.Equal(t, Counts{Gold: 2, System: 2, CorrectP: 2, CorrectR: 2}, st.Counts)
	assert.Equal(t, Counts{Gold: 1, System: 1, CorrectP: 1, CorrectR: 1}, st.ByCategory[ir.Contains])
	assert.Equal(t, []ir.Category{ir.Contains, ir.Before}, st.Categories())
}

func TestEvaluateClosesMixedCaseGold(t *testing.T) {
	gold := ir.Document{ID: "d1", Relations: rawLabels(
		assertions(t, "A CONTAINS B", "B CONTAINS C"), "contains", "Contains")}
	system := document(t, "d1", "A CONTAINS B", "A CONTAINS C")

	st, err := Evaluate(gold, system, ModePrecision)
	require.NoError(t, err)

	assert.Equal(t, Counts{Gold: 2, System: 2, CorrectP: 2, CorrectR: 1}, st.Counts)
	assert.InDelta(t, 1.0, st.Precision(), 1e-9)
	assert.InDelta(t, 0.5, st.Recall(), 1e-9)
	assert.Equal(t, ir.Category("contains"), gold.Relations[0].Category, "input left as given")
}

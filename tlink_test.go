package tlink_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tlink"
)

func TestProcessThroughFacade(t *testing.T) {
	a := tlink.SpanRef{ID: "e1", Begin: 0, End: 40, Kind: tlink.SpanEvent}
	b := tlink.SpanRef{ID: "e2", Begin: 5, End: 20, Kind: tlink.SpanEvent}
	c := tlink.SpanRef{ID: "t1", Begin: 25, End: 35, Kind: tlink.SpanTime}
	doc := tlink.Document{
		ID:        "note-1",
		Spans:     []tlink.SpanRef{a, b, c},
		Sentences: []tlink.Sentence{{Begin: 0, End: 50}},
		Relations: []tlink.Assertion{
			{Arg1: &b, Arg2: &c, Category: tlink.Before},
			{Arg1: &c, Arg2: &a, Category: tlink.ContainedBy},
		},
	}

	cfg := tlink.DefaultConfig()
	eng, err := tlink.NewEngine(cfg, tlink.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	out, err := eng.Process(context.Background(), doc)
	require.NoError(t, err)

	// e1 CONTAINS t1 and t1 AFTER e2 entail nothing definite for e1/e2.
	assert.Equal(t, 2, out.Report.Output)
	assert.Empty(t, out.Derivations)
}

func TestCloseGraphThroughFacade(t *testing.T) {
	a := tlink.SpanRef{ID: "A", Begin: 0, End: 5, Kind: tlink.SpanEvent}
	b := tlink.SpanRef{ID: "B", Begin: 10, End: 15, Kind: tlink.SpanEvent}
	c := tlink.SpanRef{ID: "C", Begin: 20, End: 25, Kind: tlink.SpanEvent}

	g, diags := tlink.GraphFromDocument(tlink.Document{
		ID: "d",
		Relations: []tlink.Assertion{
			{Arg1: &a, Arg2: &b, Category: tlink.Before},
			{Arg1: &c, Arg2: &b, Category: tlink.After},
		},
	})
	require.Empty(t, diags)

	tlink.Resolve(g)
	res := tlink.Close(g, tlink.ClosureOptions{})

	require.Len(t, res.Derivations, 1)
	assert.Equal(t, "A BEFORE C", res.Derivations[0].Inferred.String())
	assert.Equal(t, tlink.Inferred, res.Derivations[0].Inferred.Provenance)

	cat, ok := tlink.Compose(tlink.Before, tlink.Before)
	assert.True(t, ok)
	assert.Equal(t, tlink.Before, cat)
}

func TestEvaluateThroughFacade(t *testing.T) {
	a := tlink.SpanRef{ID: "A", Begin: 0, End: 5, Kind: tlink.SpanEvent}
	b := tlink.SpanRef{ID: "B", Begin: 10, End: 15, Kind: tlink.SpanEvent}

	gold := tlink.Document{ID: "d", Relations: []tlink.Assertion{{Arg1: &a, Arg2: &b, Category: tlink.Before}}}
	system := tlink.Document{ID: "d", Relations: []tlink.Assertion{{Arg1: &b, Arg2: &a, Category: tlink.After}}}

	st, err := tlink.Evaluate(gold, system, tlink.EvalPlain)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, st.F1(), 1e-9)
}

package testutil

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
)

// Spans returns event spans laid out left to right in argument order, so
// span order equals the order the IDs were given in.
func Spans(ids ...string) map[string]ir.SpanRef {
	out := make(map[string]ir.SpanRef, len(ids))
	for i, id := range ids {
		out[id] = ir.SpanRef{ID: id, Begin: 10 * i, End: 10*i + 5, Kind: ir.SpanEvent}
	}
	return out
}

// Fact parses "A CONTAINS B" against spans into an Original assertion.
func Fact(t testing.TB, spans map[string]ir.SpanRef, fact string) ir.Assertion {
	t.Helper()
	f := strings.Fields(fact)
	require.Len(t, f, 3, "fact %q must be ARG1 CATEGORY ARG2", fact)
	a1, ok := spans[f[0]]
	require.True(t, ok, "unknown span %q", f[0])
	a2, ok := spans[f[2]]
	require.True(t, ok, "unknown span %q", f[2])
	return ir.Assertion{Arg1: &a1, Arg2: &a2, Category: ir.ParseCategory(f[1]), Provenance: ir.Original}
}

// Graph builds a graph holding the given facts in the given order.
func Graph(t testing.TB, spans map[string]ir.SpanRef, facts ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, f := range facts {
		_, err := g.Add(Fact(t, spans, f))
		require.NoError(t, err)
	}
	return g
}

// Facts renders a graph as "ARG1 CATEGORY ARG2" lines in index order.
func Facts(g *graph.Graph) []string {
	out := make([]string, 0, g.Len())
	for _, a := range g.Assertions() {
		out = append(out, a.String())
	}
	return out
}

// RandomConsistent builds a document of n spans with random offsets and up
// to m relations, each labeled with the category its offsets actually
// satisfy. The relation set is therefore always satisfiable.
func RandomConsistent(rng *rand.Rand, id string, n, m int) ir.Document {
	doc := ir.Document{ID: id}
	for i := 0; i < n; i++ {
		b := rng.Intn(30)
		e := b + 1 + rng.Intn(10)
		kind := ir.SpanEvent
		if rng.Intn(3) == 0 {
			kind = ir.SpanTime
		}
		doc.Spans = append(doc.Spans, ir.SpanRef{ID: spanID(i), Begin: b, End: e, Kind: kind})
	}
	for r := 0; r < m; r++ {
		i, j := rng.Intn(n), rng.Intn(n)
		if i == j {
			continue
		}
		a, b := doc.Spans[i], doc.Spans[j]
		c, ok := ir.CategoryFromOffsets(a, b)
		if !ok {
			continue
		}
		doc.Relations = append(doc.Relations, ir.Assertion{Arg1: &a, Arg2: &b, Category: c, Provenance: ir.Original})
	}
	return doc
}

func spanID(i int) string {
	return "s" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}

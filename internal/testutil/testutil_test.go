package testutil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedRunID(t *testing.T) {
	gen := NewFixedRunID("run-123")
	assert.Equal(t, "run-123", gen.Generate())
	assert.Equal(t, "run-123", gen.Generate())

	assert.Equal(t, "test-run-default", NewFixedRunID("").Generate())
}

func TestGraphAndFacts(t *testing.T) {
	spans := Spans("A", "B", "C")
	g := Graph(t, spans, "B before C", "A contains B")
	assert.Equal(t, []string{"A CONTAINS B", "B BEFORE C"}, Facts(g))
}

func TestRandomConsistentHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	doc := RandomConsistent(rng, "doc", 12, 30)
	require.Len(t, doc.Spans, 12)
	require.NotEmpty(t, doc.Relations)
	for _, r := range doc.Relations {
		assert.True(t, r.Category.Holds(*r.Arg1, *r.Arg2), r.String())
	}
}

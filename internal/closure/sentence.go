package closure

import (
	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
)

// FilterResult summarizes a sentence restriction.
type FilterResult struct {
	// Within counts relations kept because both spans share a sentence.
	Within int `json:"within"`

	// Cross counts relations removed because their spans sit in different
	// sentences.
	Cross int `json:"cross"`

	// Unmapped counts relations removed because a span has no sentence.
	Unmapped int `json:"unmapped"`

	Diagnostics []ir.Diagnostic `json:"diagnostics"`
}

// Removed is the total number of relations removed.
func (r FilterResult) Removed() int {
	return r.Cross + r.Unmapped
}

// SentenceIndex maps each span to the first sentence that fully covers it.
// Spans straddling a boundary or lying outside every sentence are absent.
func SentenceIndex(sentences []ir.Sentence, spans []ir.SpanRef) map[string]int {
	index := make(map[string]int, len(spans))
	for _, span := range spans {
		for i, s := range sentences {
			if s.Covers(span) {
				index[span.ID] = i
				break
			}
		}
	}
	return index
}

// RestrictToSentences removes every relation, whatever its category, whose
// spans map to different sentences or whose span has no sentence.
func RestrictToSentences(g *graph.Graph, index map[string]int) FilterResult {
	res := FilterResult{Diagnostics: []ir.Diagnostic{}}
	for _, e := range g.Entries() {
		s1, ok1 := index[e.Arg1.ID]
		s2, ok2 := index[e.Arg2.ID]
		switch {
		case !ok1 || !ok2:
			g.Remove(e)
			res.Unmapped++
			res.Diagnostics = append(res.Diagnostics,
				ir.NewDiagnostic(ir.DiagUnmappedSpan, e.Assertion, "span outside every sentence"))
		case s1 != s2:
			g.Remove(e)
			res.Cross++
			res.Diagnostics = append(res.Diagnostics,
				ir.NewDiagnostic(ir.DiagCrossSentence, e.Assertion, "sentences %d and %d", s1, s2))
		default:
			res.Within++
		}
	}
	return res
}

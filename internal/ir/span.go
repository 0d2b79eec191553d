package ir

import (
	"cmp"
	"fmt"
	"strings"
)

// SpanKind distinguishes clinical events from time expressions.
type SpanKind string

const (
	SpanEvent SpanKind = "EVENT"
	SpanTime  SpanKind = "TIME"
)

// ParseSpanKind accepts "event" or "time" in any case.
func ParseSpanKind(s string) (SpanKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SpanEvent):
		return SpanEvent, nil
	case string(SpanTime), "TIMEX", "TIMEX3":
		return SpanTime, nil
	}
	return "", fmt.Errorf("unknown span kind %q", s)
}

// SpanRef identifies an annotated text span. Identity is the ID; offsets
// and kind are carried for ordering and sentence mapping. A SpanRef is
// never mutated after creation.
type SpanRef struct {
	ID    string   `json:"id" yaml:"id"`
	Begin int      `json:"begin" yaml:"begin"`
	End   int      `json:"end" yaml:"end"`
	Kind  SpanKind `json:"kind" yaml:"kind"`
}

// CompareSpans orders spans by (Begin, End, Kind, ID). Every iteration over
// spans in this module uses this order.
func CompareSpans(a, b SpanRef) int {
	if c := cmp.Compare(a.Begin, b.Begin); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Less reports whether s sorts before other.
func (s SpanRef) Less(other SpanRef) bool {
	return CompareSpans(s, other) < 0
}

// Proper reports whether the span has positive length.
func (s SpanRef) Proper() bool {
	return s.Begin < s.End
}

func (s SpanRef) String() string {
	return fmt.Sprintf("%s[%d,%d)", s.ID, s.Begin, s.End)
}

// Sentence is a half-open character range [Begin, End).
type Sentence struct {
	Begin int `json:"begin" yaml:"begin"`
	End   int `json:"end" yaml:"end"`
}

// Covers reports whether the span lies entirely inside the sentence.
func (s Sentence) Covers(span SpanRef) bool {
	return s.Begin <= span.Begin && span.End <= s.End
}

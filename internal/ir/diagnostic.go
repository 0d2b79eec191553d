package ir

import "fmt"

// DiagnosticCode categorizes an anomaly that was resolved by dropping data.
type DiagnosticCode string

const (
	// DiagMalformed marks an assertion with a missing or unusable argument.
	DiagMalformed DiagnosticCode = "MALFORMED"

	// DiagDuplicate marks a redundant restatement of a fact already kept.
	DiagDuplicate DiagnosticCode = "DUPLICATE"

	// DiagConflict marks a pair whose assertions disagree; all were removed.
	DiagConflict DiagnosticCode = "CONFLICT"

	// DiagCrossSentence marks a relation between spans in different sentences.
	DiagCrossSentence DiagnosticCode = "CROSS_SENTENCE"

	// DiagUnmappedSpan marks a relation with an argument outside every sentence.
	DiagUnmappedSpan DiagnosticCode = "UNMAPPED_SPAN"

	// DiagInconsistent marks a pair for which closure derived contradictory
	// categories in the same pass. Nothing was added for it.
	DiagInconsistent DiagnosticCode = "INCONSISTENT"
)

// Diagnostic is a structured record of one dropped assertion or skipped
// inference. Diagnostics never change control flow.
type Diagnostic struct {
	Code     DiagnosticCode `json:"code"`
	Message  string         `json:"message"`
	Arg1     string         `json:"arg1,omitempty"`
	Arg2     string         `json:"arg2,omitempty"`
	Category Category       `json:"category,omitempty"`
}

// NewDiagnostic builds a diagnostic for an assertion.
func NewDiagnostic(code DiagnosticCode, a Assertion, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Arg1:     argIDOrEmpty(a.Arg1),
		Arg2:     argIDOrEmpty(a.Arg2),
		Category: a.Category,
	}
}

func argIDOrEmpty(s *SpanRef) string {
	if s == nil {
		return ""
	}
	return s.ID
}

func (d Diagnostic) String() string {
	if d.Arg1 != "" || d.Arg2 != "" {
		return fmt.Sprintf("%s: %s (%s %s %s)", d.Code, d.Message, d.Arg1, d.Category, d.Arg2)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

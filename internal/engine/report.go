package engine

import "github.com/roach88/tlink/internal/ir"

// Report holds the statistics of one processed document. Counts are
// returned per document rather than accumulated globally; callers sum them
// if they need corpus totals.
type Report struct {
	DocumentID string `json:"document_id"`
	Digest     string `json:"digest"`

	Input     int `json:"input"`
	Malformed int `json:"malformed"`

	EventEventRemoved int `json:"event_event_removed"`

	Duplicates      int `json:"duplicates"`
	ConflictPairs   int `json:"conflict_pairs"`
	ConflictRemoved int `json:"conflict_removed"`

	// Within, CrossSentence and Unmapped are zero unless the mode restricts.
	Within        int `json:"within"`
	CrossSentence int `json:"cross_sentence"`
	Unmapped      int `json:"unmapped"`

	// Inferred counts relations closure added, including any a later
	// sentence restriction removed again.
	Inferred     int `json:"inferred"`
	Passes       int `json:"passes"`
	Inconsistent int `json:"inconsistent"`

	ContainsExpanded int `json:"contains_expanded"`
	OverlapsFlipped  int `json:"overlaps_flipped"`
	CategoryRemoved  int `json:"category_removed"`

	Output int `json:"output"`
}

// Add accumulates other's counts into r. Identity fields are left alone.
func (r *Report) Add(other Report) {
	r.Input += other.Input
	r.Malformed += other.Malformed
	r.EventEventRemoved += other.EventEventRemoved
	r.Duplicates += other.Duplicates
	r.ConflictPairs += other.ConflictPairs
	r.ConflictRemoved += other.ConflictRemoved
	r.Within += other.Within
	r.CrossSentence += other.CrossSentence
	r.Unmapped += other.Unmapped
	r.Inferred += other.Inferred
	r.Passes += other.Passes
	r.Inconsistent += other.Inconsistent
	r.ContainsExpanded += other.ContainsExpanded
	r.OverlapsFlipped += other.OverlapsFlipped
	r.CategoryRemoved += other.CategoryRemoved
	r.Output += other.Output
}

// Summarize totals the reports of a run.
func Summarize(outcomes []*Outcome) Report {
	var total Report
	for _, o := range outcomes {
		if o != nil {
			total.Add(o.Report)
		}
	}
	return total
}

// Record converts the report to a canonical Object.
func (r Report) Record() ir.Object {
	return ir.Object{
		"document_id":         ir.String(r.DocumentID),
		"digest":              ir.String(r.Digest),
		"input":               ir.Int(r.Input),
		"malformed":           ir.Int(r.Malformed),
		"event_event_removed": ir.Int(r.EventEventRemoved),
		"duplicates":          ir.Int(r.Duplicates),
		"conflict_pairs":      ir.Int(r.ConflictPairs),
		"conflict_removed":    ir.Int(r.ConflictRemoved),
		"within":              ir.Int(r.Within),
		"cross_sentence":      ir.Int(r.CrossSentence),
		"unmapped":            ir.Int(r.Unmapped),
		"inferred":            ir.Int(r.Inferred),
		"passes":              ir.Int(r.Passes),
		"inconsistent":        ir.Int(r.Inconsistent),
		"contains_expanded":   ir.Int(r.ContainsExpanded),
		"overlaps_flipped":    ir.Int(r.OverlapsFlipped),
		"category_removed":    ir.Int(r.CategoryRemoved),
		"output":              ir.Int(r.Output),
	}
}

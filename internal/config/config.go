package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tlink/internal/ir"
)

//go:embed schema.cue
var schemaSrc string

// Mode selects which transforms run and in what order.
type Mode string

const (
	ModeNone              Mode = "none"
	ModeClose             Mode = "close"
	ModeRestrict          Mode = "restrict"
	ModeRestrictThenClose Mode = "restrict-then-close"
	ModeCloseThenRestrict Mode = "close-then-restrict"
)

// Modes lists every valid mode.
var Modes = []Mode{ModeNone, ModeClose, ModeRestrict, ModeRestrictThenClose, ModeCloseThenRestrict}

// Closes reports whether the mode runs closure.
func (m Mode) Closes() bool {
	return m == ModeClose || m == ModeRestrictThenClose || m == ModeCloseThenRestrict
}

// Restricts reports whether the mode runs the sentence filter.
func (m Mode) Restricts() bool {
	return m == ModeRestrict || m == ModeRestrictThenClose || m == ModeCloseThenRestrict
}

// Pipeline configures the per-document transform.
type Pipeline struct {
	Mode                    Mode     `json:"mode" yaml:"mode"`
	MaterializeReciprocals  bool     `json:"materialize_reciprocals" yaml:"materialize_reciprocals"`
	LenientCategories       bool     `json:"lenient_categories" yaml:"lenient_categories"`
	KeepCategories          []string `json:"keep_categories" yaml:"keep_categories"`
	DropEventEvent          bool     `json:"drop_event_event" yaml:"drop_event_event"`
	ExpandContainsToOverlap bool     `json:"expand_contains_to_overlap" yaml:"expand_contains_to_overlap"`
	FlipOverlaps            bool     `json:"flip_overlaps" yaml:"flip_overlaps"`
	Workers                 int      `json:"workers" yaml:"workers"`
}

// Default returns the configuration an empty CUE file produces.
func Default() Pipeline {
	return Pipeline{
		Mode:           ModeClose,
		KeepCategories: []string{},
		Workers:        4,
	}
}

// Error is a configuration error, with a CUE position when one is known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Pipeline built in Go or decoded from YAML against the
// same rules the CUE schema enforces.
func (p Pipeline) Validate() error {
	if !slices.Contains(Modes, p.Mode) {
		return &Error{Field: "mode", Message: fmt.Sprintf("unknown mode %q", p.Mode)}
	}
	if p.Workers < 1 || p.Workers > 256 {
		return &Error{Field: "workers", Message: fmt.Sprintf("must be between 1 and 256, got %d", p.Workers)}
	}
	for _, c := range p.KeepCategories {
		if !ir.Category(c).Known() {
			return &Error{Field: "keep_categories", Message: fmt.Sprintf("unknown category %q", c)}
		}
	}
	return nil
}

// Keep returns KeepCategories as categories.
func (p Pipeline) Keep() []ir.Category {
	out := make([]ir.Category, len(p.KeepCategories))
	for i, c := range p.KeepCategories {
		out[i] = ir.Category(c)
	}
	return out
}

// Parse evaluates CUE source against the #Pipeline schema. The file's
// top-level fields are the pipeline fields; omitted fields take their
// schema defaults and unknown fields are rejected.
func Parse(src []byte, filename string) (Pipeline, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Pipeline{}, fmt.Errorf("compile schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Pipeline{}, formatCUEError(err)
	}

	unified := schema.FillPath(cue.ParsePath("pipeline"), v).LookupPath(cue.ParsePath("pipeline"))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Pipeline{}, formatCUEError(err)
	}

	p := Default()
	if err := unified.Decode(&p); err != nil {
		return Pipeline{}, formatCUEError(err)
	}
	if p.KeepCategories == nil {
		p.KeepCategories = []string{}
	}
	return p, nil
}

// Load reads and parses a CUE pipeline file.
func Load(path string) (Pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read pipeline config: %w", err)
	}
	return Parse(src, path)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	field := "cue"
	if path := first.Path(); len(path) > 0 {
		field = path[len(path)-1]
	}
	e := &Error{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}

package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tlink/internal/config"
	"github.com/roach88/tlink/internal/ir"
)

// Fixture is one document plus the pipeline to run over it and the
// expectations the outcome must meet.
type Fixture struct {
	// Name uniquely identifies this fixture. It is also the document ID and
	// the golden file name.
	Name string `yaml:"name"`

	// Description explains what this fixture checks.
	Description string `yaml:"description"`

	// Config overrides pipeline fields; omitted fields keep config.Default().
	Config yaml.Node `yaml:"config,omitempty"`

	Spans     []ir.SpanRef  `yaml:"spans"`
	Sentences []ir.Sentence `yaml:"sentences,omitempty"`

	// Relations may be written "A CONTAINS B" or as {arg1, arg2, category}.
	// The mapping form may leave an argument out to model malformed input.
	Relations []Relation `yaml:"relations"`

	Expect []Expectation `yaml:"expect"`

	pipeline config.Pipeline
}

// Relation is a relation as written in a fixture, by span ID.
type Relation struct {
	Arg1     string `yaml:"arg1"`
	Arg2     string `yaml:"arg2"`
	Category string `yaml:"category"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (r *Relation) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		f := strings.Fields(n.Value)
		if len(f) != 3 {
			return fmt.Errorf("line %d: relation %q must be ARG1 CATEGORY ARG2", n.Line, n.Value)
		}
		r.Arg1, r.Category, r.Arg2 = f[0], f[1], f[2]
		return nil
	}
	type plain Relation
	return n.Decode((*plain)(r))
}

func (r Relation) String() string {
	return fmt.Sprintf("%s %s %s", r.Arg1, r.Category, r.Arg2)
}

// Pipeline returns the fixture's effective configuration.
func (f *Fixture) Pipeline() config.Pipeline {
	return f.pipeline
}

// Load reads and validates a fixture file. Unknown fields are rejected at
// every level, including inside config.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	p, err := decodePipeline(&f.Config)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture: config: %w", err)
	}
	f.pipeline = p

	if err := validate(&f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

// LoadDir loads every *.yaml fixture in dir, sorted by file name.
func LoadDir(dir string) ([]*Fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)

	out := make([]*Fixture, 0, len(paths))
	names := make(map[string]string, len(paths))
	for _, p := range paths {
		f, err := Load(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := names[f.Name]; ok {
			return nil, fmt.Errorf("fixture %q defined in both %s and %s", f.Name, prev, p)
		}
		names[f.Name] = p
		out = append(out, f)
	}
	return out, nil
}

// decodePipeline applies the config overrides to config.Default().
func decodePipeline(n *yaml.Node) (config.Pipeline, error) {
	p := config.Default()
	if n.Kind == 0 {
		return p, nil
	}
	raw, err := yaml.Marshal(n)
	if err != nil {
		return config.Pipeline{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return config.Pipeline{}, err
	}
	if p.KeepCategories == nil {
		p.KeepCategories = []string{}
	}
	if err := p.Validate(); err != nil {
		return config.Pipeline{}, err
	}
	return p, nil
}

// validate checks required fields and normalizes span kinds.
func validate(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}
	if f.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(f.Spans) == 0 {
		return fmt.Errorf("spans list is required and must be non-empty")
	}
	if len(f.Expect) == 0 {
		return fmt.Errorf("expect list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(f.Spans))
	for i := range f.Spans {
		s := &f.Spans[i]
		if s.ID == "" {
			return fmt.Errorf("spans[%d]: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("spans[%d]: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		kind, err := ir.ParseSpanKind(string(s.Kind))
		if err != nil {
			return fmt.Errorf("spans[%d]: %w", i, err)
		}
		s.Kind = kind
	}

	for i, s := range f.Sentences {
		if s.End < s.Begin {
			return fmt.Errorf("sentences[%d]: end %d before begin %d", i, s.End, s.Begin)
		}
	}

	for i, r := range f.Relations {
		if r.Category == "" {
			return fmt.Errorf("relations[%d]: category is required", i)
		}
		for _, id := range []string{r.Arg1, r.Arg2} {
			if id != "" && !seen[id] {
				return fmt.Errorf("relations[%d]: unknown span %q", i, id)
			}
		}
	}

	for i := range f.Expect {
		if err := f.Expect[i].validate(seen); err != nil {
			return fmt.Errorf("expect[%d]: %w", i, err)
		}
	}
	return nil
}

// Document builds the engine input. A relation argument left out in the
// fixture becomes a nil argument.
func (f *Fixture) Document() ir.Document {
	spans := make(map[string]*ir.SpanRef, len(f.Spans))
	for i := range f.Spans {
		s := f.Spans[i]
		spans[s.ID] = &s
	}
	doc := ir.Document{
		ID:        f.Name,
		Spans:     slices.Clone(f.Spans),
		Sentences: slices.Clone(f.Sentences),
		Relations: make([]ir.Assertion, 0, len(f.Relations)),
	}
	for _, r := range f.Relations {
		doc.Relations = append(doc.Relations, ir.Assertion{
			Arg1:       spans[r.Arg1],
			Arg2:       spans[r.Arg2],
			Category:   ir.Category(r.Category),
			Provenance: ir.Original,
		})
	}
	return doc
}

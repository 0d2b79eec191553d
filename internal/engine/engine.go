package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/tlink/internal/closure"
	"github.com/roach88/tlink/internal/config"
	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
	"github.com/roach88/tlink/internal/store"
)

// RunIDGenerator generates run identifiers.
// Implemented by UUIDv7Generator (production) and testutil.FixedRunID (tests).
type RunIDGenerator interface {
	Generate() string
}

// Engine applies a configured pipeline to documents.
//
// Thread-safety model:
//   - Process(): safe from any goroutine; each call owns its graph
//   - ProcessAll(): fans documents out to at most Workers goroutines
//
// Nothing mutable is shared between documents except the metrics and the
// run log, both of which are safe for concurrent use.
type Engine struct {
	cfg     config.Pipeline
	logger  *slog.Logger
	metrics *Metrics
	store   *store.Store
	runGen  RunIDGenerator
	runID   string
	workers int

	// Guards the one-time run record write.
	runMu      sync.Mutex
	runWritten bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics records per-document statistics on m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithStore records every processed document in the run log.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runGen = g
	}
}

// WithWorkers overrides the configured ProcessAll fan-out.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// New creates an Engine for cfg. The configuration is validated and a run
// ID is drawn once; every document processed by this Engine belongs to that
// run.
func New(cfg config.Pipeline, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		logger:  slog.Default(),
		runGen:  UUIDv7Generator{},
		workers: cfg.Workers,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	e.runID = e.runGen.Generate()
	return e, nil
}

// RunID returns the identifier of this Engine's run.
func (e *Engine) RunID() string {
	return e.runID
}

// Config returns the pipeline the Engine was built with.
func (e *Engine) Config() config.Pipeline {
	return e.cfg
}

// Outcome is the result of processing one document.
type Outcome struct {
	DocumentID string `json:"document_id"`

	// Relations is the final relation set in span order.
	Relations []ir.Assertion `json:"relations"`

	// Derivations explains every inferred relation present in Relations.
	Derivations []ir.Derivation `json:"derivations"`

	Report      Report          `json:"report"`
	Diagnostics []ir.Diagnostic `json:"diagnostics"`
}

// Process runs the pipeline over one document.
//
// Stages, in order: category normalization, graph construction (malformed
// relations dropped), event-event removal, conflict resolution, the
// configured closure/restriction mode, then the output transforms.
//
// Data anomalies never fail a document; they are dropped and surface as
// diagnostics. An error is returned only when ctx is done before the
// document starts or when the run log cannot be written.
func (e *Engine) Process(ctx context.Context, doc ir.Document) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewCancelledError(doc.ID, err)
	}

	doc = e.normalize(doc)
	digest, err := ir.DocumentDigest(doc)
	if err != nil {
		return nil, NewDigestError(doc.ID, err)
	}

	rep := Report{DocumentID: doc.ID, Digest: digest, Input: len(doc.Relations)}
	g, malformed := graph.FromDocument(doc)
	// Span redefinitions are diagnosed too but are not malformed relations.
	rep.Malformed = len(doc.Relations) - g.Len()
	diags := append([]ir.Diagnostic{}, malformed...)

	if e.cfg.DropEventEvent {
		rep.EventEventRemoved = closure.DropEventEvent(g)
	}

	rr := closure.Resolve(g)
	rep.Duplicates = rr.Duplicates
	rep.ConflictPairs = rr.ConflictPairs
	rep.ConflictRemoved = rr.ConflictRemoved
	diags = append(diags, rr.Diagnostics...)

	var derivations []ir.Derivation
	closeGraph := func() {
		cr := closure.Close(g, closure.Options{MaterializeReciprocals: e.cfg.MaterializeReciprocals})
		rep.Inferred += len(cr.Derivations)
		rep.Passes += cr.Passes
		rep.Inconsistent += cr.Inconsistent
		derivations = append(derivations, cr.Derivations...)
		diags = append(diags, cr.Diagnostics...)
	}
	restrict := func() {
		fr := closure.RestrictToSentences(g, closure.SentenceIndex(doc.Sentences, g.Spans()))
		rep.Within = fr.Within
		rep.CrossSentence = fr.Cross
		rep.Unmapped = fr.Unmapped
		diags = append(diags, fr.Diagnostics...)
	}

	mode := e.cfg.Mode
	if mode == config.ModeRestrictThenClose {
		restrict()
	}
	if mode.Closes() {
		closeGraph()
	}
	if mode.Restricts() && mode != config.ModeRestrictThenClose {
		restrict()
	}

	if e.cfg.ExpandContainsToOverlap {
		rep.ContainsExpanded = closure.ExpandContainsToOverlap(g)
	}
	if e.cfg.FlipOverlaps {
		rep.OverlapsFlipped = closure.AddFlippedOverlaps(g)
	}
	if keep := e.cfg.Keep(); len(keep) > 0 {
		rep.CategoryRemoved = closure.KeepCategories(g, keep...)
	}

	out := &Outcome{
		DocumentID:  doc.ID,
		Relations:   g.Assertions(),
		Derivations: surviving(derivations, g),
		Diagnostics: diags,
	}
	rep.Output = len(out.Relations)
	out.Report = rep

	e.logger.Debug("document processed",
		"run", e.runID,
		"doc", doc.ID,
		"input", rep.Input,
		"inferred", rep.Inferred,
		"passes", rep.Passes,
		"output", rep.Output,
	)
	if len(diags) > 0 {
		e.logger.Info("document anomalies dropped",
			"run", e.runID,
			"doc", doc.ID,
			"malformed", rep.Malformed,
			"duplicates", rep.Duplicates,
			"conflict_pairs", rep.ConflictPairs,
			"cross_sentence", rep.CrossSentence+rep.Unmapped,
			"inconsistent", rep.Inconsistent,
		)
	}
	if e.metrics != nil {
		e.metrics.observe(rep)
	}

	if e.store != nil {
		if err := e.record(ctx, out); err != nil {
			return nil, NewRunLogError(doc.ID, err)
		}
	}
	return out, nil
}

// ProcessAll runs Process over independent documents with at most Workers
// in flight. Outcomes are returned in input order. The first error cancels
// documents not yet started and is returned.
func (e *Engine) ProcessAll(ctx context.Context, docs []ir.Document) ([]*Outcome, error) {
	out := make([]*Outcome, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range docs {
		i := i
		g.Go(func() error {
			o, err := e.Process(gctx, docs[i])
			if err != nil {
				return err
			}
			out[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info("run complete", "run", e.runID, "documents", len(docs), "workers", e.workers)
	return out, nil
}

// normalize returns doc with categories parsed under the configured policy.
// The caller's relation slice is never modified.
func (e *Engine) normalize(doc ir.Document) ir.Document {
	rels := make([]ir.Assertion, len(doc.Relations))
	for i, r := range doc.Relations {
		if e.cfg.LenientCategories {
			r.Category = ir.ParseCategoryLenient(string(r.Category))
		} else {
			r.Category = ir.ParseCategory(string(r.Category))
		}
		rels[i] = r
	}
	doc.Relations = rels
	return doc
}

// surviving drops derivations whose inferred relation a later stage removed.
func surviving(ds []ir.Derivation, g *graph.Graph) []ir.Derivation {
	out := make([]ir.Derivation, 0, len(ds))
	for _, d := range ds {
		for _, e := range g.Lookup(d.Inferred.Arg1.ID, d.Inferred.Arg2.ID) {
			if e.Category == d.Inferred.Category && e.Provenance == ir.Inferred {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// record writes the run (once) and the document outcome to the run log.
func (e *Engine) record(ctx context.Context, out *Outcome) error {
	e.runMu.Lock()
	if !e.runWritten {
		err := e.store.WriteRun(ctx, store.Run{
			ID:            e.runID,
			Config:        configRecord(e.cfg),
			EngineVersion: ir.EngineVersion,
			SchemaVersion: ir.SchemaVersion,
		})
		if err != nil {
			e.runMu.Unlock()
			return err
		}
		e.runWritten = true
	}
	e.runMu.Unlock()

	return e.store.WriteDocument(ctx, e.runID, store.DocumentRecord{
		DocID:       out.DocumentID,
		Digest:      out.Report.Digest,
		Report:      out.Report.Record(),
		Relations:   out.Relations,
		Derivations: out.Derivations,
		Diagnostics: out.Diagnostics,
	})
}

// configRecord converts a pipeline to a canonical Object for the run log.
func configRecord(p config.Pipeline) ir.Object {
	keep := make(ir.Array, len(p.KeepCategories))
	for i, c := range p.KeepCategories {
		keep[i] = ir.String(c)
	}
	return ir.Object{
		"mode":                       ir.String(p.Mode),
		"materialize_reciprocals":    ir.Bool(p.MaterializeReciprocals),
		"lenient_categories":         ir.Bool(p.LenientCategories),
		"keep_categories":            keep,
		"drop_event_event":           ir.Bool(p.DropEventEvent),
		"expand_contains_to_overlap": ir.Bool(p.ExpandContainsToOverlap),
		"flip_overlaps":              ir.Bool(p.FlipOverlaps),
		"workers":                    ir.Int(p.Workers),
	}
}

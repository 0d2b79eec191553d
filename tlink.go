// Package tlink computes the temporal closure of clinical TLinks.
//
// A document's relations are loaded into a graph, malformed assertions and
// disagreeing pairs are dropped, and the remaining relations are closed
// under interval composition until nothing new is entailed. An optional
// sentence filter restricts relations to single sentences, and eval scores
// system output against gold with or without closure.
//
// Typical use:
//
//	cfg, err := tlink.LoadConfig("pipeline.cue")
//	...
//	eng, err := tlink.NewEngine(cfg, tlink.WithLogger(logger))
//	...
//	out, err := eng.Process(ctx, doc)
//
// Everything here is a re-export of the internal packages; they remain the
// reference for behavior.
package tlink

import (
	"github.com/roach88/tlink/internal/closure"
	"github.com/roach88/tlink/internal/config"
	"github.com/roach88/tlink/internal/engine"
	"github.com/roach88/tlink/internal/eval"
	"github.com/roach88/tlink/internal/graph"
	"github.com/roach88/tlink/internal/ir"
	"github.com/roach88/tlink/internal/store"
)

// Data model.
type (
	Document   = ir.Document
	SpanRef    = ir.SpanRef
	SpanKind   = ir.SpanKind
	Sentence   = ir.Sentence
	Assertion  = ir.Assertion
	Category   = ir.Category
	Provenance = ir.Provenance
	Derivation = ir.Derivation
	Diagnostic = ir.Diagnostic
)

// Categories and provenance.
const (
	Contains    = ir.Contains
	ContainedBy = ir.ContainedBy
	Overlap     = ir.Overlap
	Before      = ir.Before
	After       = ir.After
	BeginsOn    = ir.BeginsOn
	EndsOn      = ir.EndsOn

	Original = ir.Original
	Inferred = ir.Inferred

	SpanEvent = ir.SpanEvent
	SpanTime  = ir.SpanTime
)

var (
	ParseCategory        = ir.ParseCategory
	ParseCategoryLenient = ir.ParseCategoryLenient
	CategoryFromOffsets  = ir.CategoryFromOffsets
	AssertionID          = ir.AssertionID
	DocumentDigest       = ir.DocumentDigest
)

// Pipeline configuration.
type (
	Pipeline    = config.Pipeline
	Mode        = config.Mode
	ConfigError = config.Error
)

const (
	ModeNone              = config.ModeNone
	ModeClose             = config.ModeClose
	ModeRestrict          = config.ModeRestrict
	ModeRestrictThenClose = config.ModeRestrictThenClose
	ModeCloseThenRestrict = config.ModeCloseThenRestrict
)

var (
	DefaultConfig = config.Default
	ParseConfig   = config.Parse
	LoadConfig    = config.Load
)

// Engine and run log.
type (
	Engine       = engine.Engine
	Option       = engine.Option
	Outcome      = engine.Outcome
	Report       = engine.Report
	Metrics      = engine.Metrics
	ProcessError = engine.ProcessError
	Store        = store.Store
)

var (
	NewEngine          = engine.New
	WithLogger         = engine.WithLogger
	WithMetrics        = engine.WithMetrics
	WithStore          = engine.WithStore
	WithWorkers        = engine.WithWorkers
	WithRunIDGenerator = engine.WithRunIDGenerator
	NewMetrics         = engine.NewMetrics
	Summarize          = engine.Summarize
	IsCancelled        = engine.IsCancelled
	IsRunLogError      = engine.IsRunLogError
	OpenStore          = store.Open
)

// Graph-level operations, for callers composing their own pipeline.
type (
	Graph          = graph.Graph
	ClosureOptions = closure.Options
	ClosureResult  = closure.Result
	ResolveResult  = closure.ResolveResult
	FilterResult   = closure.FilterResult
)

var (
	NewGraph                = graph.New
	GraphFromDocument       = graph.FromDocument
	Compose                 = closure.Compose
	Resolve                 = closure.Resolve
	Close                   = closure.Close
	SentenceIndex           = closure.SentenceIndex
	RestrictToSentences     = closure.RestrictToSentences
	KeepCategories          = closure.KeepCategories
	DropEventEvent          = closure.DropEventEvent
	ExpandContainsToOverlap = closure.ExpandContainsToOverlap
	AddFlippedOverlaps      = closure.AddFlippedOverlaps
)

// Evaluation.
type (
	EvalMode   = eval.Mode
	Counts     = eval.Counts
	Stats      = eval.Stats
	Difference = eval.Difference
)

const (
	EvalPlain     = eval.ModePlain
	EvalPrecision = eval.ModePrecision
	EvalRecall    = eval.ModeRecall
	EvalAwareness = eval.ModeAwareness
)

var (
	Score             = eval.Score
	Evaluate          = eval.Evaluate
	EvaluateAll       = eval.EvaluateAll
	Compare           = eval.Compare
	FormatDifferences = eval.FormatDifferences
)

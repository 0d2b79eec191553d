package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/tlink/internal/ir"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun writes a run with minimal required fields.
func createTestRun(t *testing.T, s *Store, id string) Run {
	t.Helper()
	run := Run{
		ID:            id,
		Config:        ir.Object{"mode": ir.String("close")},
		EngineVersion: ir.EngineVersion,
		SchemaVersion: ir.SchemaVersion,
	}
	if err := s.WriteRun(context.Background(), run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	return run
}

// createTestRecord builds "A CONTAINS B", "B CONTAINS C" and the inferred
// "A CONTAINS C" with its derivation.
func createTestRecord(docID string) DocumentRecord {
	a := ir.SpanRef{ID: "A", Begin: 0, End: 20, Kind: ir.SpanEvent}
	b := ir.SpanRef{ID: "B", Begin: 5, End: 15, Kind: ir.SpanEvent}
	c := ir.SpanRef{ID: "C", Begin: 8, End: 10, Kind: ir.SpanTime}

	ab := ir.Assertion{Arg1: &a, Arg2: &b, Category: ir.Contains, Provenance: ir.Original}
	bc := ir.Assertion{Arg1: &b, Arg2: &c, Category: ir.Contains, Provenance: ir.Original}
	ac := ir.Assertion{Arg1: &a, Arg2: &c, Category: ir.Contains, Provenance: ir.Inferred}

	return DocumentRecord{
		DocID:       docID,
		Digest:      "digest-" + docID,
		Report:      ir.Object{"inferred": ir.Int(1)},
		Relations:   []ir.Assertion{ab, bc, ac},
		Derivations: []ir.Derivation{{Inferred: ac, Premises: [2]ir.Assertion{ab, bc}, Pass: 1}},
		Diagnostics: []ir.Diagnostic{ir.NewDiagnostic(ir.DiagDuplicate, ab, "restated")},
	}
}

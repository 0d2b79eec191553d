package store

import (
	"context"
	"fmt"

	"github.com/roach88/tlink/internal/ir"
)

// Run identifies one engine invocation over a document set.
type Run struct {
	ID            string
	Config        ir.Object
	EngineVersion string
	SchemaVersion string
}

// DocumentRecord is everything recorded for one processed document.
type DocumentRecord struct {
	DocID       string
	Digest      string
	Report      ir.Object
	Relations   []ir.Assertion
	Derivations []ir.Derivation
	Diagnostics []ir.Diagnostic
}

// WriteRun inserts a run record. Duplicate run IDs are ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	cfg, err := marshalRecord("config", run.Config)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, config, engine_version, schema_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, cfg, run.EngineVersion, run.SchemaVersion)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteDocument records a document outcome under an existing run in one
// transaction. Writing the same document twice is a no-op: rows are keyed
// by (run, document, position) and conflicts are ignored.
//
// Relations are recorded by content-addressed assertion ID, so a derivation
// can be joined to the rows of its premises.
func (s *Store) WriteDocument(ctx context.Context, runID string, rec DocumentRecord) error {
	report, err := marshalRecord("report", rec.Report)
	if err != nil {
		return fmt.Errorf("write document %s: %w", rec.DocID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write document %s: begin tx: %w", rec.DocID, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (run_id, doc_id, digest, report)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, doc_id) DO NOTHING
	`, runID, rec.DocID, rec.Digest, report); err != nil {
		return fmt.Errorf("write document %s: %w", rec.DocID, err)
	}

	for i, a := range rec.Relations {
		id, err := assertionID(a)
		if err != nil {
			return fmt.Errorf("write document %s: %w", rec.DocID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO relations (run_id, doc_id, seq, assertion_id, arg1, arg2, category, provenance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, runID, rec.DocID, i, id, a.Arg1.ID, a.Arg2.ID, string(a.Category), string(a.Provenance)); err != nil {
			return fmt.Errorf("write document %s: relation %d: %w", rec.DocID, i, err)
		}
	}

	for i, d := range rec.Derivations {
		ids := make([]string, 3)
		for j, a := range []ir.Assertion{d.Inferred, d.Premises[0], d.Premises[1]} {
			if ids[j], err = assertionID(a); err != nil {
				return fmt.Errorf("write document %s: derivation %d: %w", rec.DocID, i, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO derivations (run_id, doc_id, seq, inferred_id, premise1_id, premise2_id, pass)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, runID, rec.DocID, i, ids[0], ids[1], ids[2], d.Pass); err != nil {
			return fmt.Errorf("write document %s: derivation %d: %w", rec.DocID, i, err)
		}
	}

	for i, d := range rec.Diagnostics {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (run_id, doc_id, seq, code, message, arg1, arg2, category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, runID, rec.DocID, i, string(d.Code), d.Message, d.Arg1, d.Arg2, string(d.Category)); err != nil {
			return fmt.Errorf("write document %s: diagnostic %d: %w", rec.DocID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write document %s: commit: %w", rec.DocID, err)
	}
	return nil
}

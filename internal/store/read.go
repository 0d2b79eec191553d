package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tlink/internal/ir"
)

// RunRow is a stored run. Config is canonical JSON.
type RunRow struct {
	ID            string
	Config        string
	EngineVersion string
	SchemaVersion string
}

// DocumentRow is a stored document outcome. Report is canonical JSON.
type DocumentRow struct {
	DocID  string
	Digest string
	Report string
}

// RelationRow is one relation of a document's final output.
type RelationRow struct {
	Seq         int64
	AssertionID string
	Arg1        string
	Arg2        string
	Category    ir.Category
	Provenance  ir.Provenance
}

// DerivationRow links an inferred relation to its two premises.
type DerivationRow struct {
	Seq        int64
	InferredID string
	PremiseIDs [2]string
	Pass       int
}

// ReadRun returns a run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRow, error) {
	var r RunRow
	err := s.db.QueryRowContext(ctx, `
		SELECT id, config, engine_version, schema_version
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Config, &r.EngineVersion, &r.SchemaVersion)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRow{}, err
		}
		return RunRow{}, fmt.Errorf("read run: %w", err)
	}
	return r, nil
}

// ReadDocuments returns every document of a run ordered by document ID.
// Returns an empty slice (not nil) if the run has no documents.
func (s *Store) ReadDocuments(ctx context.Context, runID string) ([]DocumentRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc_id, digest, report
		FROM documents
		WHERE run_id = ?
		ORDER BY doc_id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	out := []DocumentRow{}
	for rows.Next() {
		var d DocumentRow
		if err := rows.Scan(&d.DocID, &d.Digest, &d.Report); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// ReadRelations returns a document's output relations in output order.
func (s *Store) ReadRelations(ctx context.Context, runID, docID string) ([]RelationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, assertion_id, arg1, arg2, category, provenance
		FROM relations
		WHERE run_id = ? AND doc_id = ?
		ORDER BY seq ASC
	`, runID, docID)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	out := []RelationRow{}
	for rows.Next() {
		var r RelationRow
		var cat, prov string
		if err := rows.Scan(&r.Seq, &r.AssertionID, &r.Arg1, &r.Arg2, &cat, &prov); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		r.Category, r.Provenance = ir.Category(cat), ir.Provenance(prov)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}
	return out, nil
}

// ReadDerivations returns a document's derivations in the order they were
// inferred.
func (s *Store) ReadDerivations(ctx context.Context, runID, docID string) ([]DerivationRow, error) {
	return s.queryDerivations(ctx, `
		SELECT seq, inferred_id, premise1_id, premise2_id, pass
		FROM derivations
		WHERE run_id = ? AND doc_id = ?
		ORDER BY seq ASC
	`, runID, docID)
}

// Explain returns the derivations that produced a given assertion, across
// every document of a run.
func (s *Store) Explain(ctx context.Context, runID, assertionID string) ([]DerivationRow, error) {
	return s.queryDerivations(ctx, `
		SELECT seq, inferred_id, premise1_id, premise2_id, pass
		FROM derivations
		WHERE run_id = ? AND inferred_id = ?
		ORDER BY doc_id COLLATE BINARY ASC, seq ASC
	`, runID, assertionID)
}

func (s *Store) queryDerivations(ctx context.Context, query string, args ...any) ([]DerivationRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query derivations: %w", err)
	}
	defer rows.Close()

	out := []DerivationRow{}
	for rows.Next() {
		var d DerivationRow
		if err := rows.Scan(&d.Seq, &d.InferredID, &d.PremiseIDs[0], &d.PremiseIDs[1], &d.Pass); err != nil {
			return nil, fmt.Errorf("scan derivation: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate derivations: %w", err)
	}
	return out, nil
}

// ReadDiagnostics returns a document's diagnostics in the order they were
// raised.
func (s *Store) ReadDiagnostics(ctx context.Context, runID, docID string) ([]ir.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, message, arg1, arg2, category
		FROM diagnostics
		WHERE run_id = ? AND doc_id = ?
		ORDER BY seq ASC
	`, runID, docID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	out := []ir.Diagnostic{}
	for rows.Next() {
		var d ir.Diagnostic
		var code, cat string
		if err := rows.Scan(&code, &d.Message, &d.Arg1, &d.Arg2, &cat); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		d.Code, d.Category = ir.DiagnosticCode(code), ir.Category(cat)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return out, nil
}

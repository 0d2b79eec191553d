package fixture

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/tlink/internal/engine"
	"github.com/roach88/tlink/internal/store"
	"github.com/roach88/tlink/internal/testutil"
)

// Result is the outcome of running one fixture.
type Result struct {
	RunID   string
	Outcome *engine.Outcome

	// Errors holds failed expectations in fixture order. Empty if all
	// passed.
	Errors []error
}

// Pass reports whether every expectation held.
func (r *Result) Pass() bool {
	return len(r.Errors) == 0
}

// Run processes the fixture document through the engine and checks its
// expectations.
//
// Each fixture runs against a fresh in-memory run log with the fixed run ID
// "fixture-<name>", so repeated runs are byte-identical.
func Run(ctx context.Context, f *Fixture) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng, err := engine.New(f.Pipeline(),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithStore(st),
		engine.WithRunIDGenerator(testutil.NewFixedRunID("fixture-"+f.Name)),
	)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}

	out, err := eng.Process(ctx, f.Document())
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", f.Name, err)
	}

	return &Result{
		RunID:   eng.RunID(),
		Outcome: out,
		Errors:  Check(ctx, out, f.Expect, st, eng.RunID()),
	}, nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyGivesDefaults(t *testing.T) {
	p, err := Parse([]byte("{}"), "empty.cue")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	require.NoError(t, p.Validate())
}

func TestParseOverrides(t *testing.T) {
	src := `
mode:                    "restrict-then-close"
materialize_reciprocals: true
lenient_categories:      true
keep_categories: ["CONTAINS", "OVERLAP"]
drop_event_event: true
workers: 8
`
	p, err := Parse([]byte(src), "pipeline.cue")
	require.NoError(t, err)

	assert.Equal(t, ModeRestrictThenClose, p.Mode)
	assert.True(t, p.MaterializeReciprocals)
	assert.True(t, p.LenientCategories)
	assert.Equal(t, []string{"CONTAINS", "OVERLAP"}, p.KeepCategories)
	assert.True(t, p.DropEventEvent)
	assert.False(t, p.FlipOverlaps)
	assert.Equal(t, 8, p.Workers)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		mention string
	}{
		{"unknown mode", `mode: "sometimes"`, "mode"},
		{"unknown field", `bogus: true`, "bogus"},
		{"workers out of range", `workers: 0`, "workers"},
		{"unknown category", `keep_categories: ["SIMULTANEOUS"]`, "keep_categories"},
		{"syntax error", `mode: "close`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.mention)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.cue")
	require.NoError(t, os.WriteFile(path, []byte(`mode: "none"`), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeNone, p.Mode)

	_, err = Load(filepath.Join(dir, "missing.cue"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())

	p.Mode = "sideways"
	assert.Error(t, p.Validate())

	p = Default()
	p.Workers = 0
	assert.Error(t, p.Validate())

	p = Default()
	p.KeepCategories = []string{"CONTAINS", "NOTED-ON"}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTED-ON")
}

func TestModePredicates(t *testing.T) {
	tests := []struct {
		mode      Mode
		closes    bool
		restricts bool
	}{
		{ModeNone, false, false},
		{ModeClose, true, false},
		{ModeRestrict, false, true},
		{ModeRestrictThenClose, true, true},
		{ModeCloseThenRestrict, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.closes, tt.mode.Closes(), tt.mode)
		assert.Equal(t, tt.restricts, tt.mode.Restricts(), tt.mode)
	}
}

func TestErrorFormatting(t *testing.T) {
	e := &Error{Field: "mode", Message: "bad"}
	assert.Equal(t, "mode: bad", e.Error())
}

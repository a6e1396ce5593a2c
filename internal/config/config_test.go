package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsSurviveEmptyDocument(t *testing.T) {
	cfg, err := Parse([]byte(``))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_FieldsOverrideDefaults(t *testing.T) {
	raw := []byte(`
mine:
  use_transitive_closure: false
refine:
  enabled: false
  on_unrefinable: fail
coarsen:
  enabled: false
output:
  show_initial: false
  format: json
rng_seed: 7
`)
	cfg, err := Parse(raw)
	require.NoError(t, err)

	assert.False(t, cfg.Mine.UseTransitiveClosure)
	assert.False(t, cfg.Refine.Enabled)
	assert.Equal(t, "fail", cfg.Refine.OnUnrefinable)
	assert.False(t, cfg.Coarsen.Enabled)
	assert.False(t, cfg.Output.ShowInitial)
	assert.True(t, cfg.Output.ShowTerminal) // default untouched by this document
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, int64(7), cfg.RNGSeed)
}

func TestParse_PartialDocumentKeepsOtherDefaults(t *testing.T) {
	// coarsen.enabled must be turned off with refine.enabled, or
	// validateSemantics rejects the document.
	cfg, err := Parse([]byte("refine:\n  enabled: false\ncoarsen:\n  enabled: false\n"))
	require.NoError(t, err)

	assert.False(t, cfg.Refine.Enabled)
	assert.False(t, cfg.Mine.UseTransitiveClosure) // default untouched
	assert.Equal(t, "drop", cfg.Refine.OnUnrefinable)
}

func TestParse_MalformedYAML_Errors(t *testing.T) {
	_, err := Parse([]byte("refine: [this is not a mapping"))
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeYAMLSyntax, loadErr.Code)
}

func TestParse_InvalidOnUnrefinableEnum_Errors(t *testing.T) {
	_, err := Parse([]byte("refine:\n  on_unrefinable: ignore\n"))
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSchema, loadErr.Code, "CUE's closed enum should reject this before semantic validation runs")
}

func TestParse_InvalidOutputFormatEnum_Errors(t *testing.T) {
	_, err := Parse([]byte("output:\n  format: xml\n"))
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestParse_CoarsenWithoutRefine_Rejected(t *testing.T) {
	_, err := Parse([]byte("refine:\n  enabled: false\ncoarsen:\n  enabled: true\n"))
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeSchema, loadErr.Code)
}

func TestParse_CoarsenWithRefine_Allowed(t *testing.T) {
	cfg, err := Parse([]byte("refine:\n  enabled: true\ncoarsen:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Refine.Enabled)
	assert.True(t, cfg.Coarsen.Enabled)
}

func TestLoad_MissingFile_Errors(t *testing.T) {
	_, err := Load("/nonexistent/path/to/config.yaml")
	require.Error(t, err)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSchema_EmptyDocument_Valid(t *testing.T) {
	assert.NoError(t, ValidateSchema([]byte(``)))
}

func TestValidateSchema_WellFormed_Valid(t *testing.T) {
	raw := []byte(`
mine:
  use_transitive_closure: true
refine:
  enabled: true
  on_unrefinable: drop
output:
  format: text
rng_seed: 42
`)
	assert.NoError(t, ValidateSchema(raw))
}

func TestValidateSchema_WrongFieldType_Invalid(t *testing.T) {
	err := ValidateSchema([]byte("rng_seed: \"not-an-int\"\n"))
	assert.Error(t, err)
}

func TestValidateSchema_UnknownEnumValue_Invalid(t *testing.T) {
	err := ValidateSchema([]byte("output:\n  format: csv\n"))
	assert.Error(t, err)
}

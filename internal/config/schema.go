package config

import (
	"bytes"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

// schema is the CUE definition every config file must satisfy, grounded
// on the shape of the teacher's internal/cli/loader.go CUE-instance loading but
// applied here to validate run configuration rather than sync specs.
// Unset YAML fields unify fine against these (all but the enum fields
// are plain bools/ints); the enum fields close the valid value sets the
// way concept/sync field validation does in internal/compiler/validate.go.
const schema = `
mine?: {
	use_transitive_closure?: bool
}
refine?: {
	enabled?:         bool
	on_unrefinable?: "drop" | "fail"
}
coarsen?: {
	enabled?: bool
}
output?: {
	show_initial?:  bool
	show_terminal?: bool
	format?:        "text" | "json"
}
rng_seed?: int
`

// ValidateSchema checks raw YAML config bytes against schema using CUE's
// unification, the same load-then-validate step the teacher's
// internal/cli/loader.go performs for sync specs (cuecontext.New, build,
// then inspect Err()). An empty document (no fields set) is valid.
func ValidateSchema(raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schema)
	if err := schemaVal.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("internal schema error: %v", err)}
	}

	dataFile, err := yaml.Extract("config", raw)
	if err != nil {
		return &LoadError{Code: ErrCodeYAMLSyntax, Message: fmt.Sprintf("parsing config as CUE: %v", err)}
	}
	data := ctx.BuildFile(dataFile)
	if err := data.Err(); err != nil {
		return &LoadError{Code: ErrCodeYAMLSyntax, Message: fmt.Sprintf("building config value: %v", err)}
	}
	if data.Kind() == cue.NullKind {
		// A comment-only YAML document decodes to null: no fields set.
		return nil
	}

	unified := schemaVal.Unify(data)
	if err := unified.Validate(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("config does not satisfy schema: %v", err)}
	}
	return nil
}

// Package config loads and validates the engine's run configuration:
// YAML decoding via gopkg.in/yaml.v3 followed by CUE schema validation,
// matching the teacher's load-then-validate discipline in
// internal/cli/loader.go and internal/compiler/validate.go.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for one engine run
// (SPEC_FULL.md §2.2).
type Config struct {
	Mine struct {
		UseTransitiveClosure bool `yaml:"use_transitive_closure"`
	} `yaml:"mine"`
	Refine struct {
		Enabled       bool   `yaml:"enabled"`
		OnUnrefinable string `yaml:"on_unrefinable"`
	} `yaml:"refine"`
	Coarsen struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"coarsen"`
	Output struct {
		ShowInitial  bool   `yaml:"show_initial"`
		ShowTerminal bool   `yaml:"show_terminal"`
		Format       string `yaml:"format"`
	} `yaml:"output"`
	RNGSeed int64 `yaml:"rng_seed"`
}

// Default returns the configuration used when no file is supplied:
// chain-walking miner (spec.md §6 "mine.use_transitive_closure ... Default:
// chain-walking"), refinement and coarsening on, unrefinable invariants
// dropped rather than failing the run, and both sentinels shown in the
// output model (spec.md §6 "output.show_initial, output.show_terminal ...
// Default: true").
func Default() *Config {
	c := &Config{}
	c.Mine.UseTransitiveClosure = false
	c.Refine.Enabled = true
	c.Refine.OnUnrefinable = "drop"
	c.Coarsen.Enabled = true
	c.Output.ShowInitial = true
	c.Output.ShowTerminal = true
	c.Output.Format = "text"
	return c
}

// Load reads and YAML-decodes the config at path over the defaults, then
// validates it against the CUE schema (schema.go). Fields absent from
// the file keep their default value, since cfg is decoded into the
// already-populated Default() result rather than a zero Config.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return Parse(raw)
}

// Parse decodes and validates raw YAML config bytes.
func Parse(raw []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeYAMLSyntax, Message: fmt.Sprintf("parsing config: %v", err)}
	}
	if err := ValidateSchema(raw); err != nil {
		return nil, err
	}
	if err := cfg.validateSemantics(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateSemantics checks cross-field constraints the CUE schema
// doesn't express as a closed enum (SPEC_FULL.md §5 "OnUnrefinable").
func (c *Config) validateSemantics() error {
	switch c.Refine.OnUnrefinable {
	case "drop", "fail":
	default:
		return &LoadError{
			Code:    ErrCodeInvalidEnum,
			Message: fmt.Sprintf("refine.on_unrefinable: must be \"drop\" or \"fail\", got %q", c.Refine.OnUnrefinable),
		}
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return &LoadError{
			Code:    ErrCodeInvalidEnum,
			Message: fmt.Sprintf("output.format: must be \"text\" or \"json\", got %q", c.Output.Format),
		}
	}
	if c.Coarsen.Enabled && !c.Refine.Enabled {
		return &LoadError{
			Code:    ErrCodeSchema,
			Message: "coarsen.enabled requires refine.enabled: coarsening an unrefined graph may merge partitions that still violate an invariant",
		}
	}
	return nil
}

package config

import "fmt"

// Error codes, unified across config loading the way the teacher unifies
// CLI error codes in internal/cli/loader.go.
const (
	ErrCodeNotFound     = "C001" // config file not found or unreadable
	ErrCodeYAMLSyntax   = "C002" // malformed YAML
	ErrCodeSchema       = "C003" // CUE schema violation
	ErrCodeInvalidEnum  = "C004" // enum field outside its closed set
)

// LoadError represents a failure loading or validating a config file.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config: [%s] %s", e.Code, e.Message)
}

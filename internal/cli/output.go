package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful run
	ExitFailure      = 1 // invariants violated, refinement/coarsening rejected input, etc.
	ExitCommandError = 2 // bad flags, unreadable input, config errors
)

// ExitError carries a specific process exit code alongside its message.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError creates an ExitError with no wrapped cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with a process exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the process exit code from err, defaulting to
// ExitFailure for errors that were not raised through this package.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as either plain text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// InvariantView is the JSON-stable projection of one mined
// invariant.BinaryInvariant (spec.md §6 "the mined invariant set with
// kinds, event-type pairs, and relation").
type InvariantView struct {
	Kind     string `json:"kind"`
	First    string `json:"first"`
	Second   string `json:"second"`
	Relation string `json:"relation"`
	Text     string `json:"text"`
}

// EdgeView is the JSON-stable projection of one partition.Edge.
type EdgeView struct {
	To       int    `json:"to"`
	Relation string `json:"relation"`
}

// PartitionView is the JSON-stable projection of one partition.Partition
// (spec.md §6 "the final PartitionGraph, EventType-labeled nodes,
// relation-labeled edges").
type PartitionView struct {
	ID    int        `json:"id"`
	Type  string     `json:"type"`
	Size  int        `json:"size"`
	Edges []EdgeView `json:"edges"`
}

// Response is the JSON envelope every command emits in --format json mode.
// Unlike a bare status/data passthrough, its fields mirror the engine's own
// output shapes from spec.md §6 directly — a command populates only the
// fields relevant to what it actually computed (mine fills Invariants,
// run/refine/coarsen fill RunID/Partitions/Invariants/Dropped, validate
// fills Valid), rather than stuffing an arbitrary payload into one opaque
// Data field.
type Response struct {
	Status     string          `json:"status"`
	RunID      string          `json:"run_id,omitempty"`
	Valid      *bool           `json:"valid,omitempty"`
	Invariants []InvariantView `json:"invariants,omitempty"`
	Partitions []PartitionView `json:"partitions,omitempty"`
	Dropped    []string        `json:"dropped_invariants,omitempty"`
	Error      *RespError      `json:"error,omitempty"`
}

// RespError is the error payload of a failed Response.
type RespError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BoolPtr is a small helper for populating Response.Valid, which must
// distinguish "omitted" from "false".
func BoolPtr(b bool) *bool { return &b }

// Success emits r as the command's JSON result, defaulting Status to "ok"
// when the caller left it unset (a failed validate run sets Status to
// "error" itself before calling Success, since it still wants the rest of
// the Response shape — Valid/Error — rendered consistently). Every caller
// in this package only reaches Success when f.Format == "json"; text
// rendering is done by the caller directly.
func (f *OutputFormatter) Success(r Response) error {
	if r.Status == "" {
		r.Status = "ok"
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// VerboseLog writes a diagnostic line to ErrWriter when Verbose is set, so
// JSON-format stdout is never polluted by progress chatter.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

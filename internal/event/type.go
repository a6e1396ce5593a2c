// Package event defines the vocabulary the rest of the engine is built on:
// EventTypes (interned, structurally comparable) and Events (occurrences of
// a type, carrying opaque trace metadata).
package event

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Kind distinguishes a domain event type from one of the two synthetic
// sentinels every trace is stitched to.
type Kind int

const (
	// Domain is an ordinary, trace-supplied event type.
	Domain Kind = iota
	// Initial is the synthetic type of the single INITIAL sentinel shared
	// by every trace in a TraceGraph.
	Initial
	// Terminal is the synthetic type of the single TERMINAL sentinel shared
	// by every trace in a TraceGraph.
	Terminal
)

func (k Kind) String() string {
	switch k {
	case Initial:
		return "INITIAL"
	case Terminal:
		return "TERMINAL"
	default:
		return "DOMAIN"
	}
}

// Type is an EventType: a label tagged by Kind. Two Types are equal iff
// Kind and Label agree (spec.md §3 "EventType"). The sentinel kinds ignore
// Label entirely, so InitialType() always equals InitialType() regardless
// of how it was constructed.
type Type struct {
	kind  Kind
	label string
}

// InitialType returns the single INITIAL sentinel event type.
func InitialType() Type { return Type{kind: Initial} }

// TerminalType returns the single TERMINAL sentinel event type.
func TerminalType() Type { return Type{kind: Terminal} }

// NewType constructs a domain EventType from a label. The label is NFC
// normalized first (golang.org/x/text/unicode/norm) so that Unicode
// code-point-equivalent labels coming out of different trace sources
// collapse onto one EventType, matching Interner's de-duplication contract.
func NewType(label string) Type {
	return Type{kind: Domain, label: norm.NFC.String(label)}
}

// Kind reports whether this is a domain type or a sentinel.
func (t Type) Kind() Kind { return t.kind }

// Label returns the domain label. Empty for sentinel kinds.
func (t Type) Label() string { return t.label }

// IsSentinel reports whether t is INITIAL or TERMINAL.
func (t Type) IsSentinel() bool { return t.kind == Initial || t.kind == Terminal }

func (t Type) String() string {
	if t.kind == Domain {
		return t.label
	}
	return t.kind.String()
}

// key is the comparable projection of Type used by Interner and by map keys
// throughout the engine (Type itself is already comparable, but key makes
// the equality contract explicit at call sites that build maps keyed by
// event type).
type key struct {
	kind  Kind
	label string
}

func (t Type) key() key { return key{kind: t.kind, label: t.label} }

// Interner de-duplicates EventTypes so that structurally-equal types share
// storage, per spec.md §3 ("Hashable; interning encouraged for memory").
// Zero value is ready to use; not safe for concurrent use (the parser
// collaborator runs once, single-threaded, per §5).
type Interner struct {
	byKey map[key]Type
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{byKey: make(map[key]Type)}
}

// Intern returns the canonical Type equal to t, registering t if this is
// the first time it has been seen.
func (in *Interner) Intern(t Type) Type {
	if in.byKey == nil {
		in.byKey = make(map[key]Type)
	}
	k := t.key()
	if existing, ok := in.byKey[k]; ok {
		return existing
	}
	in.byKey[k] = t
	return t
}

// Domain returns the interned domain type for label, creating it on first
// use. Convenience wrapper around Intern(NewType(label)).
func (in *Interner) Domain(label string) Type {
	return in.Intern(NewType(label))
}

// Validate reports an error if t is a zero Type constructed without going
// through NewType/InitialType/TerminalType (i.e. Kind is Domain but Label
// is empty, which would silently collide with other empty-label types).
func (t Type) Validate() error {
	if t.kind == Domain && t.label == "" {
		return fmt.Errorf("event: domain EventType has empty label")
	}
	return nil
}

// Package invariant defines BinaryInvariant, the mined temporal properties
// over pairs of event types, and the InvariantSet container that
// deduplicates them (spec.md §3 "BinaryInvariant", §4.3 "Invariant Set").
package invariant

import (
	"fmt"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// Kind tags the three invariant families this engine mines and checks.
// NeverConcurrentWith (the DAG/partial-order case) is named in spec.md §3
// as an extension point but is out of scope here — see SPEC_FULL.md §5.
type Kind int

const (
	AlwaysFollowedBy Kind = iota
	AlwaysPrecedes
	NeverFollowedBy
)

func (k Kind) String() string {
	switch k {
	case AlwaysFollowedBy:
		return "AFby"
	case AlwaysPrecedes:
		return "AP"
	case NeverFollowedBy:
		return "NFby"
	default:
		return "UNKNOWN"
	}
}

// BinaryInvariant is a tagged union over the three invariant kinds,
// parameterized by an ordered (First, Second) pair of event types and the
// relation the ordering is mined over. Equality is structural: two
// BinaryInvariants with the same Kind/First/Second/Relation are the same
// invariant, which is why this is a plain comparable struct rather than an
// interface hierarchy (spec.md §9 "Polymorphism over invariant kinds
// becomes a tagged union").
type BinaryInvariant struct {
	Kind     Kind
	First    event.Type
	Second   event.Type
	Relation tracegraph.Relation
}

// New constructs a BinaryInvariant.
func New(kind Kind, first, second event.Type, rel tracegraph.Relation) BinaryInvariant {
	return BinaryInvariant{Kind: kind, First: first, Second: second, Relation: rel}
}

func (inv BinaryInvariant) String() string {
	switch inv.Kind {
	case AlwaysFollowedBy:
		return fmt.Sprintf("%s AlwaysFollowedBy(%s) %s", inv.First, inv.Relation, inv.Second)
	case AlwaysPrecedes:
		return fmt.Sprintf("%s AlwaysPrecedes(%s) %s", inv.Second, inv.Relation, inv.First)
	case NeverFollowedBy:
		return fmt.Sprintf("%s NeverFollowedBy(%s) %s", inv.First, inv.Relation, inv.Second)
	default:
		return fmt.Sprintf("UNKNOWN(%s,%s)", inv.First, inv.Second)
	}
}

// ShortName returns the short invariant kind tag (AFby, AP, NFby), matching
// the original implementation's getShortName() (grounded on
// original_source/synoptic/.../AlwaysFollowedInvariant.java).
func (k Kind) ShortName() string { return k.String() }

// Typed is satisfied by anything that knows its own EventType: both
// tracegraph.EventNode and partition.Partition implement it, so Shorten
// works uniformly over raw node paths and over partition-graph
// counter-example paths.
type Typed interface {
	EventType() event.Type
}

// Shorten trims the trailing, non-informative suffix of a counter-example
// path per spec.md §4.3:
//
//   - AFby returns the path unchanged: the full prefix up to the missing
//     "second" is meaningful (original_source's AlwaysFollowedInvariant.
//     shorten is the identity, for the same reason).
//   - AP and NFby trim everything after the witnessing event, since
//     nothing past it contributes to the violation.
func Shorten[T Typed](inv BinaryInvariant, path []T) []T {
	switch inv.Kind {
	case AlwaysFollowedBy:
		return path
	case AlwaysPrecedes:
		// Witness is the unmatched "second" (inv.Second) — trim everything
		// after its first occurrence.
		return trimAfterFirst(path, inv.Second)
	case NeverFollowedBy:
		// Witness is the "second" that illegally followed a "first" — trim
		// everything after its first occurrence.
		return trimAfterFirst(path, inv.Second)
	default:
		return path
	}
}

func trimAfterFirst[T Typed](path []T, t event.Type) []T {
	for i, n := range path {
		if n.EventType() == t {
			return path[:i+1]
		}
	}
	return path
}

package invariant

import "strings"

// Set stores BinaryInvariants with structural deduplication and a stable,
// insertion-order iteration (spec.md §9 "Stable iteration order" —
// required or regression tests relying on mined-invariant order flake).
type Set struct {
	order []BinaryInvariant
	has   map[BinaryInvariant]bool
}

// NewSet creates an empty invariant set.
func NewSet() *Set {
	return &Set{has: make(map[BinaryInvariant]bool)}
}

// Add registers inv, returning false if it was already present (a no-op
// in that case).
func (s *Set) Add(inv BinaryInvariant) bool {
	if s.has == nil {
		s.has = make(map[BinaryInvariant]bool)
	}
	if s.has[inv] {
		return false
	}
	s.has[inv] = true
	s.order = append(s.order, inv)
	return true
}

// Contains reports whether inv is in the set.
func (s *Set) Contains(inv BinaryInvariant) bool {
	return s.has[inv]
}

// Remove drops inv from the set, used when an unrefinable invariant is
// dropped per SPEC_FULL.md §5 ("Config.Refine.OnUnrefinable").
func (s *Set) Remove(inv BinaryInvariant) {
	if !s.has[inv] {
		return
	}
	delete(s.has, inv)
	for i, existing := range s.order {
		if existing == inv {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// All returns every invariant in stable insertion order. The returned
// slice must not be mutated.
func (s *Set) All() []BinaryInvariant {
	return s.order
}

// Len returns the number of invariants in the set.
func (s *Set) Len() int { return len(s.order) }

// CountByKind returns how many invariants of each Kind the set holds.
func (s *Set) CountByKind() map[Kind]int {
	counts := make(map[Kind]int, 3)
	for _, inv := range s.order {
		counts[inv.Kind]++
	}
	return counts
}

// String renders the set as one invariant per line, in insertion order —
// the human-readable form spec.md §4.3 calls for.
func (s *Set) String() string {
	var b strings.Builder
	for i, inv := range s.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(inv.String())
	}
	return b.String()
}

// Equal reports whether s and other contain exactly the same invariants,
// ignoring order — used by the chain-walking vs. transitive-closure miner
// cross-validation (spec.md §8 property 6) and by round-trip tests
// (property 7, via Subset).
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	return s.Subset(other) && other.Subset(s)
}

// Subset reports whether every invariant in s is also in other.
func (s *Set) Subset(other *Set) bool {
	for _, inv := range s.order {
		if !other.Contains(inv) {
			return false
		}
	}
	return true
}

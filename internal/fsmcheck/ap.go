package fsmcheck

import (
	"fmt"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/partition"
)

// apState tracks "a AlwaysPrecedes b": adapted from the same ok/waiting
// idiom nfbyState ports directly. beforeA covers "a not seen yet" —
// seeing b in that substate is an immediate, permanent violation, since
// nothing earlier in the trace can retroactively supply the missing a.
// afterA is absorbing: once a has been seen, every later b is fine.
type apState struct {
	a, b event.Type

	beforeA  *HistoryNode
	afterA   *HistoryNode
	violated *HistoryNode // failure state
}

func (s *apState) InitialEventTest(t event.Type, h *HistoryNode) {
	if t == s.a {
		s.afterA = h
		return
	}
	s.beforeA = h
	if t == s.b {
		s.violated = yieldShorter(s.violated, h)
	}
}

func (s *apState) TransitionEventTest(t event.Type) {
	if t == s.a && s.beforeA != nil {
		s.afterA = yieldShorter(s.afterA, s.beforeA)
		s.beforeA = nil
	}
	if t == s.b && s.beforeA != nil {
		s.violated = yieldShorter(s.violated, s.beforeA)
	}
}

func (s *apState) TransitionHistoryExtend(p partition.ID) {
	s.beforeA = extendIfNonNull(p, s.beforeA)
	s.afterA = extendIfNonNull(p, s.afterA)
	s.violated = extendIfNonNull(p, s.violated)
}

func (s *apState) Failpath() *HistoryNode { return s.violated }

func (s *apState) Clone() StateSet {
	cp := *s
	return &cp
}

func (s *apState) MergeWith(other StateSet) {
	o := other.(*apState)
	s.beforeA = yieldShorter(s.beforeA, o.beforeA)
	s.afterA = yieldShorter(s.afterA, o.afterA)
	s.violated = yieldShorter(s.violated, o.violated)
}

func (s *apState) IsSubset(other StateSet) bool {
	o := other.(*apState)
	if s.beforeA != nil && o.beforeA == nil {
		return false
	}
	if s.afterA != nil && o.afterA == nil {
		return false
	}
	if s.violated != nil && o.violated == nil {
		return false
	}
	return true
}

func (s *apState) String() string {
	return fmt.Sprintf("AP(%s,%s): beforeA=%v afterA=%v failed=%v", s.a, s.b, s.beforeA != nil, s.afterA != nil, s.violated != nil)
}

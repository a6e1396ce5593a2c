package fsmcheck

import (
	"fmt"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/partition"
)

// nfbyState tracks "a NeverFollowedBy b": three substates, direct port of
// NFbyTracingSet.java. aSeen/bSeenAfter tests are independent (no
// else-chain) so that a == b (the "x NFby x" singleton case, S2) is
// handled correctly: the same event can simultaneously close aSeen into
// bSeenAfter and open a fresh aSeen.
type nfbyState struct {
	a, b event.Type

	aNotSeen   *HistoryNode
	aSeen      *HistoryNode
	bSeenAfter *HistoryNode // failure state
}

func (s *nfbyState) InitialEventTest(t event.Type, h *HistoryNode) {
	if t == s.a {
		s.aSeen = h
	} else {
		s.aNotSeen = h
	}
}

func (s *nfbyState) TransitionEventTest(t event.Type) {
	if t == s.b {
		s.bSeenAfter = yieldShorter(s.aSeen, s.bSeenAfter)
		s.aSeen = nil
	}
	if t == s.a {
		s.aSeen = yieldShorter(s.aNotSeen, s.aSeen)
		s.aNotSeen = nil
	}
}

func (s *nfbyState) TransitionHistoryExtend(p partition.ID) {
	s.aNotSeen = extendIfNonNull(p, s.aNotSeen)
	s.aSeen = extendIfNonNull(p, s.aSeen)
	s.bSeenAfter = extendIfNonNull(p, s.bSeenAfter)
}

func (s *nfbyState) Failpath() *HistoryNode { return s.bSeenAfter }

func (s *nfbyState) Clone() StateSet {
	cp := *s
	return &cp
}

func (s *nfbyState) MergeWith(other StateSet) {
	o := other.(*nfbyState)
	s.aNotSeen = yieldShorter(s.aNotSeen, o.aNotSeen)
	s.aSeen = yieldShorter(s.aSeen, o.aSeen)
	s.bSeenAfter = yieldShorter(s.bSeenAfter, o.bSeenAfter)
}

func (s *nfbyState) IsSubset(other StateSet) bool {
	o := other.(*nfbyState)
	if s.aNotSeen != nil && o.aNotSeen == nil {
		return false
	}
	if s.aSeen != nil && o.aSeen == nil {
		return false
	}
	if s.bSeenAfter != nil && o.bSeenAfter == nil {
		return false
	}
	return true
}

func (s *nfbyState) String() string {
	return fmt.Sprintf("NFby(%s,%s): notSeen=%v seen=%v failed=%v", s.a, s.b, s.aNotSeen != nil, s.aSeen != nil, s.bSeenAfter != nil)
}

package fsmcheck

import (
	"fmt"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/partition"
)

// afbyState tracks "a AlwaysFollowedBy b": same ok/waiting idiom as
// nfbyState, adapted rather than ported, since the original source in
// this pack only carries the NFby tracing set. ok covers "no a pending"
// (either a has not been seen yet, or the most recent a was already
// matched by a b); waiting covers "a seen, no b since". A violation is
// only confirmed by reaching TERMINAL while still waiting — an open
// obligation mid-trace can still be satisfied later.
type afbyState struct {
	a, b event.Type

	ok       *HistoryNode
	waiting  *HistoryNode
	violated *HistoryNode // failure state
}

func (s *afbyState) InitialEventTest(t event.Type, h *HistoryNode) {
	if t == s.a {
		s.waiting = h
	} else {
		s.ok = h
	}
}

func (s *afbyState) TransitionEventTest(t event.Type) {
	if t == s.b {
		s.ok = yieldShorter(s.ok, s.waiting)
		s.waiting = nil
	}
	if t == s.a {
		s.waiting = yieldShorter(s.waiting, s.ok)
		s.ok = nil
	}
	if t.Kind() == event.Terminal && s.waiting != nil {
		s.violated = yieldShorter(s.violated, s.waiting)
	}
}

func (s *afbyState) TransitionHistoryExtend(p partition.ID) {
	s.ok = extendIfNonNull(p, s.ok)
	s.waiting = extendIfNonNull(p, s.waiting)
	s.violated = extendIfNonNull(p, s.violated)
}

func (s *afbyState) Failpath() *HistoryNode { return s.violated }

func (s *afbyState) Clone() StateSet {
	cp := *s
	return &cp
}

func (s *afbyState) MergeWith(other StateSet) {
	o := other.(*afbyState)
	s.ok = yieldShorter(s.ok, o.ok)
	s.waiting = yieldShorter(s.waiting, o.waiting)
	s.violated = yieldShorter(s.violated, o.violated)
}

func (s *afbyState) IsSubset(other StateSet) bool {
	o := other.(*afbyState)
	if s.ok != nil && o.ok == nil {
		return false
	}
	if s.waiting != nil && o.waiting == nil {
		return false
	}
	if s.violated != nil && o.violated == nil {
		return false
	}
	return true
}

func (s *afbyState) String() string {
	return fmt.Sprintf("AFby(%s,%s): ok=%v waiting=%v failed=%v", s.a, s.b, s.ok != nil, s.waiting != nil, s.violated != nil)
}

package fsmcheck

import (
	"log/slog"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/partition"
)

// StateSet is one invariant's tracing automaton (spec.md §4.5): a small
// set of named substates, each annotated with the shortest HistoryNode
// that reached it. Driven one partition at a time by TransitionEventTest
// (decide which substates the new event moves history into) followed by
// TransitionHistoryExtend (advance every still-live substate's history),
// mirroring the two-phase drive in NFbyTracingSet.java.
type StateSet interface {
	// InitialEventTest seeds the automaton's state at the INITIAL
	// sentinel partition, whose event type never participates in a or b
	// so this only ever routes into the "nothing seen yet" substates.
	InitialEventTest(t event.Type, h *HistoryNode)
	// TransitionEventTest re-routes existing (not yet extended) histories
	// between substates based on the event type just observed.
	TransitionEventTest(t event.Type)
	// TransitionHistoryExtend advances every live substate's history by
	// one step, to partition p.
	TransitionHistoryExtend(p partition.ID)
	// Failpath returns the shortest history proving a violation, or nil
	// if none has been observed yet.
	Failpath() *HistoryNode
	// MergeWith folds other's substates into this one, keeping the
	// shorter history wherever both are live. Used where the partition
	// graph's paths rejoin.
	MergeWith(other StateSet)
	// IsSubset reports whether every substate live in this set is also
	// live in other — used to detect a worklist fixpoint.
	IsSubset(other StateSet) bool
	// Clone returns an independent copy.
	Clone() StateSet
}

func newStateSet(inv invariant.BinaryInvariant) StateSet {
	switch inv.Kind {
	case invariant.AlwaysFollowedBy:
		return &afbyState{a: inv.First, b: inv.Second}
	case invariant.AlwaysPrecedes:
		return &apState{a: inv.First, b: inv.Second}
	case invariant.NeverFollowedBy:
		return &nfbyState{a: inv.First, b: inv.Second}
	default:
		panic("fsmcheck: unknown invariant kind")
	}
}

// Check walks inv's automaton over g along inv.Relation, starting at
// g.Initial, as a worklist fixpoint over the (possibly non-chain, once
// refinement/coarsening has run) partition graph: every edge re-routes
// and extends the source partition's state, merging into the target's
// existing state and requeuing it only if that changes the target's
// reachable substates (spec.md §4.5 "Checking algorithm").
//
// Every live path in a partition graph built from Build reaches
// Terminal, and every violation substate is absorbing once entered, so
// reading the converged Terminal state's Failpath after the worklist
// drains is equivalent to checking every partition individually.
func Check(logger *slog.Logger, g *partition.Graph, inv invariant.BinaryInvariant) (bool, []partition.ID, *HistoryNode) {
	if logger == nil {
		logger = slog.Default()
	}

	init := newStateSet(inv)
	init.InitialEventTest(g.Partition(g.Initial).Type, newHistoryNode(g.Initial))

	states := map[partition.ID]StateSet{g.Initial: init}
	queue := []partition.ID{g.Initial}
	queued := map[partition.ID]bool{g.Initial: true}

	steps := 0
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		queued[p] = false
		cur := states[p]

		for _, q := range g.Successors(p, inv.Relation) {
			steps++
			next := cur.Clone()
			next.TransitionEventTest(g.Partition(q).Type)
			next.TransitionHistoryExtend(q)

			existing, ok := states[q]
			if !ok {
				states[q] = next
				queue = append(queue, q)
				queued[q] = true
				continue
			}

			merged := existing.Clone()
			merged.MergeWith(next)
			if merged.IsSubset(existing) {
				continue
			}
			states[q] = merged
			if !queued[q] {
				queue = append(queue, q)
				queued[q] = true
			}
		}
	}

	term, ok := states[g.Terminal]
	var fp *HistoryNode
	if ok {
		fp = term.Failpath()
	}

	logger.Debug("fsm check finished",
		"invariant", inv.String(),
		"worklist_steps", steps,
		"partitions_reached", len(states),
		"violated", fp != nil,
	)

	if fp == nil {
		return false, nil, nil
	}
	return true, fp.Path(), fp
}

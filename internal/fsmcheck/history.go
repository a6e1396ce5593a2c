// Package fsmcheck checks a mined BinaryInvariant against a partition
// graph by walking a small per-invariant-kind finite state machine over
// it, tracking the shortest history that could witness a violation
// (spec.md §4.5, grounded on
// original_source/synoptic/.../fsmcheck/NFbyTracingSet.java).
package fsmcheck

import "github.com/fsminfer/fsminfer/internal/partition"

// HistoryNode is a persistent, shared-tail linked list of partition IDs:
// the path taken to reach a particular automaton state. Persistent so
// that extending one path never invalidates another sharing a prefix
// (spec.md §3 "HistoryNode"), matching the original's HistoryNode class.
type HistoryNode struct {
	Partition partition.ID
	Prev      *HistoryNode
	Len       int
}

// newHistoryNode starts a fresh length-1 history at p.
func newHistoryNode(p partition.ID) *HistoryNode {
	return &HistoryNode{Partition: p, Len: 1}
}

// extendIfNonNull appends p to h, or returns nil unchanged if h is nil —
// the idiom every per-kind state set uses to advance its tracked
// histories one partition at a time.
func extendIfNonNull(p partition.ID, h *HistoryNode) *HistoryNode {
	if h == nil {
		return nil
	}
	return &HistoryNode{Partition: p, Prev: h, Len: h.Len + 1}
}

// yieldShorter returns whichever of a, b is shorter, favoring the
// non-nil one if only one is set. Ties (equal length) are broken by
// lexicographically smallest partition-ID sequence, so that merges are
// deterministic regardless of worklist processing order (spec.md §4.5
// "merge_with ... ties broken deterministically").
func yieldShorter(a, b *HistoryNode) *HistoryNode {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Len < b.Len {
		return a
	}
	if b.Len < a.Len {
		return b
	}
	if lexLess(b.Path(), a.Path()) {
		return b
	}
	return a
}

func lexLess(x, y []partition.ID) bool {
	for i := 0; i < len(x) && i < len(y); i++ {
		if x[i] != y[i] {
			return x[i] < y[i]
		}
	}
	return len(x) < len(y)
}

// Path returns the partitions on this history, in traversal order
// (INITIAL first).
func (h *HistoryNode) Path() []partition.ID {
	if h == nil {
		return nil
	}
	path := make([]partition.ID, h.Len)
	for n := h; n != nil; n = n.Prev {
		path[n.Len-1] = n.Partition
	}
	return path
}

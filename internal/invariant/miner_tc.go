package invariant

import (
	"log/slog"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// MineTransitiveClosure is the reference miner of spec.md §4.2: per trace,
// build an adjacency matrix over event instances, transitively close it,
// then derive AFby/AP/NFby by the same set-membership tests the
// chain-walking miner uses. Independent code path from MineChain, kept
// for cross-validation (spec.md §8 property 6: the two miners must agree
// on any finite chain trace graph).
//
// For a totally-ordered chain this closure is just "earlier instance
// reaches every later instance" — building the matrix explicitly (rather
// than comparing positions directly) is what makes this a genuine
// transitive-closure implementation rather than a second copy of the
// counting miner.
func MineTransitiveClosure(logger *slog.Logger, g *tracegraph.TraceGraph, rel tracegraph.Relation) *Set {
	if logger == nil {
		logger = slog.Default()
	}

	result := NewSet()
	types := make(map[event.Type]bool)

	var facts []traceFacts

	for _, tr := range g.Node(g.Initial).Out(rel) {
		instances := collectInstances(g, rel, tr.Target)
		n := len(instances)
		reach := make([][]bool, n)
		for i := range reach {
			reach[i] = make([]bool, n)
		}
		// Direct chain adjacency.
		for i := 0; i+1 < n; i++ {
			reach[i][i+1] = true
		}
		// Floyd-Warshall transitive closure.
		for k := 0; k < n; k++ {
			for i := 0; i < n; i++ {
				if !reach[i][k] {
					continue
				}
				for j := 0; j < n; j++ {
					if reach[k][j] {
						reach[i][j] = true
					}
				}
			}
		}

		typeOf := make([]event.Type, n)
		byType := make(map[event.Type][]int)
		for i, id := range instances {
			t := g.Node(id).EventType()
			typeOf[i] = t
			byType[t] = append(byType[t], i)
			types[t] = true
		}

		facts = append(facts, traceFacts{reach: reach, typeOf: typeOf, byType: byType})
	}

	if len(facts) == 0 {
		return result
	}

	for a := range types {
		for b := range types {
			if tcAFby(facts, a, b) {
				result.Add(New(AlwaysFollowedBy, a, b, rel))
			}
			if tcAP(facts, a, b) {
				result.Add(New(AlwaysPrecedes, a, b, rel))
			}
			if tcNFby(facts, a, b) {
				result.Add(New(NeverFollowedBy, a, b, rel))
			}
		}
	}

	logger.Info("transitive-closure miner finished",
		"traces", len(facts),
		"types", len(types),
		"invariants", result.Len(),
	)

	return result
}

// traceFacts caches one trace's closed reachability matrix plus an index
// from event type to the instance positions of that type.
type traceFacts struct {
	reach  [][]bool
	typeOf []event.Type
	byType map[event.Type][]int
}

// collectInstances walks the domain-event portion of a trace (excluding
// sentinels) and returns their NodeIDs in time order.
func collectInstances(g *tracegraph.TraceGraph, rel tracegraph.Relation, first tracegraph.NodeID) []tracegraph.NodeID {
	var ids []tracegraph.NodeID
	id := first
	for {
		n := g.Node(id)
		if n.EventType().IsSentinel() {
			break
		}
		ids = append(ids, id)
		out := n.Out(rel)
		if len(out) == 0 {
			break
		}
		id = out[0].Target
	}
	return ids
}

// tcAFby: every instance of a reaches (strictly, via the closed
// adjacency) some instance of b.
func tcAFby(facts []traceFacts, a, b event.Type) bool {
	for _, f := range facts {
		for _, i := range f.byType[a] {
			if !anyReaches(f.reach, i, f.byType[b]) {
				return false
			}
		}
	}
	return true
}

// tcAP: every instance of b is reached from some instance of a.
func tcAP(facts []traceFacts, a, b event.Type) bool {
	for _, f := range facts {
		for _, j := range f.byType[b] {
			if !anyReachedFrom(f.reach, j, f.byType[a]) {
				return false
			}
		}
	}
	return true
}

// tcNFby: no instance of a reaches any instance of b.
func tcNFby(facts []traceFacts, a, b event.Type) bool {
	for _, f := range facts {
		for _, i := range f.byType[a] {
			if anyReaches(f.reach, i, f.byType[b]) {
				return false
			}
		}
	}
	return true
}

func anyReaches(reach [][]bool, from int, targets []int) bool {
	for _, j := range targets {
		if reach[from][j] {
			return true
		}
	}
	return false
}

func anyReachedFrom(reach [][]bool, to int, sources []int) bool {
	for _, i := range sources {
		if reach[i][to] {
			return true
		}
	}
	return false
}

package invariant

import (
	"log/slog"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// chainCounters holds the three per-trace tallies spec.md §4.2 walks in a
// single forward pass: occurrence counts, and the two follow/precede
// counters indexed [a][b].
type chainCounters struct {
	count      map[event.Type]int
	followedBy map[event.Type]map[event.Type]int
	precedes   map[event.Type]map[event.Type]int
}

func newChainCounters() *chainCounters {
	return &chainCounters{
		count:      make(map[event.Type]int),
		followedBy: make(map[event.Type]map[event.Type]int),
		precedes:   make(map[event.Type]map[event.Type]int),
	}
}

func (c *chainCounters) followedByGet(a, b event.Type) int {
	if m, ok := c.followedBy[a]; ok {
		return m[b]
	}
	return 0
}

func (c *chainCounters) precedesGet(a, b event.Type) int {
	if m, ok := c.precedes[a]; ok {
		return m[b]
	}
	return 0
}

// walkTrace computes one trace's counters by a single forward walk along
// rel, starting at the node after INITIAL and stopping before TERMINAL
// (sentinels never participate as miner candidates, per spec.md §4.2
// "Sentinels: INITIAL participates only as predecessor; TERMINAL only as
// successor" — S6 requires AFby(a, TERMINAL) never be invented, which is
// simplest to guarantee by excluding sentinels from the candidate
// universe entirely).
func walkTrace(g *tracegraph.TraceGraph, rel tracegraph.Relation, firstID tracegraph.NodeID) *chainCounters {
	c := newChainCounters()
	seen := make(map[event.Type]bool)

	id := firstID
	for {
		n := g.Node(id)
		if n.EventType().IsSentinel() {
			break
		}
		x := n.EventType()

		// "b" role: record follow/precede counts for every a already seen,
		// using this event's role as a candidate "second". Must happen
		// before x joins seen/count so that a singleton x NFby x correctly
		// detects the *second* occurrence as "followed by itself".
		for a := range seen {
			if c.followedBy[a] == nil {
				c.followedBy[a] = make(map[event.Type]int)
			}
			c.followedBy[a][x] = c.count[a]

			if c.precedes[a] == nil {
				c.precedes[a] = make(map[event.Type]int)
			}
			c.precedes[a][x]++
		}

		// "a" role: x itself now joins the seen/count state for subsequent
		// events in this trace.
		c.count[x]++
		seen[x] = true

		out := n.Out(rel)
		if len(out) == 0 {
			break
		}
		id = out[0].Target
	}

	return c
}

// MineChain is the chain-walking invariant miner of spec.md §4.2: a single
// forward pass per trace, aggregated into AFby/AP/NFby decisions over
// every pair of event types that actually occur.
func MineChain(logger *slog.Logger, g *tracegraph.TraceGraph, rel tracegraph.Relation) *Set {
	if logger == nil {
		logger = slog.Default()
	}

	perTrace := make([]*chainCounters, 0)
	types := make(map[event.Type]bool)

	for _, tr := range g.Node(g.Initial).Out(rel) {
		c := walkTrace(g, rel, tr.Target)
		perTrace = append(perTrace, c)
		for t := range c.count {
			types[t] = true
		}
	}

	result := NewSet()
	if len(perTrace) == 0 {
		return result
	}

	for a := range types {
		for b := range types {
			if afbyHoldsEverywhere(perTrace, a, b) {
				result.Add(New(AlwaysFollowedBy, a, b, rel))
			}
			if apHoldsEverywhere(perTrace, a, b) {
				result.Add(New(AlwaysPrecedes, a, b, rel))
			}
			if nfbyHoldsEverywhere(perTrace, a, b) {
				result.Add(New(NeverFollowedBy, a, b, rel))
			}
		}
	}

	logger.Info("chain-walking miner finished",
		"traces", len(perTrace),
		"types", len(types),
		"invariants", result.Len(),
	)

	return result
}

// afbyHoldsEverywhere: AFby(a,b) iff in every trace count[a] ==
// followedBy[a][b] (spec.md §4.2 "Decision rules").
func afbyHoldsEverywhere(traces []*chainCounters, a, b event.Type) bool {
	for _, c := range traces {
		if c.count[a] != c.followedByGet(a, b) {
			return false
		}
	}
	return true
}

// apHoldsEverywhere: AP(a,b) iff in every trace precedes[a][b] ==
// count[b].
func apHoldsEverywhere(traces []*chainCounters, a, b event.Type) bool {
	for _, c := range traces {
		if c.precedesGet(a, b) != c.count[b] {
			return false
		}
	}
	return true
}

// nfbyHoldsEverywhere: NFby(a,b) iff in every trace followedBy[a][b] == 0.
func nfbyHoldsEverywhere(traces []*chainCounters, a, b event.Type) bool {
	for _, c := range traces {
		if c.followedByGet(a, b) != 0 {
			return false
		}
	}
	return true
}

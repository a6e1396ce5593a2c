package partition

import (
	"log/slog"
	"sort"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// Graph is the mutable quotient graph over a TraceGraph (spec.md §3
// "PartitionGraph"). It owns every Partition in an arena indexed by ID,
// and maintains the inverse map from NodeID to owning Partition so that
// Split/Merge can update both directions atomically (spec.md §9).
type Graph struct {
	tg   *tracegraph.TraceGraph
	rel  tracegraph.Relation
	byID map[ID]*Partition
	// owner maps every EventNode to the Partition that currently contains
	// it. Invariant: every node in tg belongs to exactly one partition
	// (spec.md §3 "PartitionGraph ... Invariant").
	owner   map[tracegraph.NodeID]ID
	byType  map[event.Type][]ID
	nextID  ID
	Initial ID
	Terminal ID
}

// TraceGraph returns the underlying trace graph this quotient graph was
// built from.
func (g *Graph) TraceGraph() *tracegraph.TraceGraph { return g.tg }

// Relation returns the relation this graph's edges (and split/merge
// re-derivation) are computed over.
func (g *Graph) Relation() tracegraph.Relation { return g.rel }

func (g *Graph) alloc(t event.Type, nodes []tracegraph.NodeID) *Partition {
	id := g.nextID
	g.nextID++
	p := &Partition{ID: id, Type: t, Nodes: nodes, edges: make(map[edgeKey]bool)}
	g.byID[id] = p
	for _, n := range nodes {
		g.owner[n] = id
	}
	g.byType[t] = append(g.byType[t], id)
	return p
}

// InitialFrom builds the maximally-refined initial partition graph: one
// partition per EventType, each containing every EventNode of that type
// (spec.md §4.4 "initial_from"). invariants is accepted for parity with
// the spec's signature and logged for diagnostics; the initial partition
// assignment itself does not depend on which invariants were mined — only
// the refinement loop (package bisim) does.
func InitialFrom(logger *slog.Logger, tg *tracegraph.TraceGraph, rel tracegraph.Relation, invariants *invariant.Set) *Graph {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Graph{
		tg:     tg,
		rel:    rel,
		byID:   make(map[ID]*Partition),
		owner:  make(map[tracegraph.NodeID]ID),
		byType: make(map[event.Type][]ID),
	}

	byType := make(map[event.Type][]tracegraph.NodeID)
	var order []event.Type
	for _, n := range tg.Nodes() {
		t := n.EventType()
		if _, ok := byType[t]; !ok {
			order = append(order, t)
		}
		byType[t] = append(byType[t], n.ID)
	}

	for _, t := range order {
		p := g.alloc(t, byType[t])
		if t.Kind() == event.Initial {
			g.Initial = p.ID
		}
		if t.Kind() == event.Terminal {
			g.Terminal = p.ID
		}
	}

	for id := range g.byID {
		g.RecomputeEdges(id)
	}

	count := 0
	if invariants != nil {
		count = invariants.Len()
	}
	logger.Info("initial partition graph built",
		"partitions", len(g.byID),
		"event_types", len(order),
		"mined_invariants", count,
	)

	return g
}

// Partition resolves an ID to its Partition.
func (g *Graph) Partition(id ID) *Partition { return g.byID[id] }

// PartitionOf returns the ID of the partition currently containing node.
func (g *Graph) PartitionOf(node tracegraph.NodeID) ID { return g.owner[node] }

// PartitionsOfType returns every partition ID currently holding the given
// EventType.
func (g *Graph) PartitionsOfType(t event.Type) []ID {
	return g.byType[t]
}

// All returns every partition ID in the graph, sorted for deterministic
// iteration (arena insertion order is already deterministic, but sorting
// makes that explicit and robust to future allocation-order changes).
func (g *Graph) All() []ID {
	ids := make([]ID, 0, len(g.byID))
	for id := range g.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Successors returns the distinct partitions reachable from p along rel.
func (g *Graph) Successors(p ID, rel tracegraph.Relation) []ID {
	return g.byID[p].Successors(rel)
}

// Predecessors returns every partition with an edge into p along rel.
// O(partitions); acceptable at this engine's scale (bounded by distinct
// event types after coarsening, and by EventNode count before it).
func (g *Graph) Predecessors(p ID, rel tracegraph.Relation) []ID {
	var preds []ID
	for _, id := range g.All() {
		if g.byID[id].HasEdge(rel, p) {
			preds = append(preds, id)
		}
	}
	return preds
}

// RecomputeEdges re-derives p's cached outgoing transitions from its
// member nodes' transitions in the underlying trace graph (spec.md §4.4
// "recompute_edges"): (target partition, relation) is present iff some
// member has an edge to a node owned by that target partition along that
// relation.
func (g *Graph) RecomputeEdges(p ID) {
	part := g.byID[p]
	part.edges = make(map[edgeKey]bool)
	for _, nodeID := range part.Nodes {
		node := g.tg.Node(nodeID)
		for _, rel := range node.Relations() {
			for _, tr := range node.Out(rel) {
				targetPart := g.owner[tr.Target]
				part.edges[edgeKey{rel: rel, to: targetPart}] = true
			}
		}
	}
}

// recomputeAllEdges refreshes every partition that might now point
// at a changed partition's new identity — i.e. every partition in the
// graph, since any of them might have had an edge into the old partition.
// Called after Split/Merge change partition identities.
func (g *Graph) recomputeAllEdges() {
	for id := range g.byID {
		g.RecomputeEdges(id)
	}
}

// Split replaces partition p with two new partitions holding exactly
// left and right (spec.md §4.4 "split"): both sets must be non-empty,
// disjoint, and their union must equal p's current member set, or an
// InconsistentSplitError is returned and the graph is left unchanged.
func (g *Graph) Split(p ID, left, right []tracegraph.NodeID) (ID, ID, error) {
	part, ok := g.byID[p]
	if !ok {
		return 0, 0, &InconsistentSplitError{Partition: p, Reason: "no such partition"}
	}
	if len(left) == 0 || len(right) == 0 {
		return 0, 0, &InconsistentSplitError{Partition: p, Reason: "both subsets must be non-empty"}
	}

	members := make(map[tracegraph.NodeID]bool, len(part.Nodes))
	for _, n := range part.Nodes {
		members[n] = true
	}

	seen := make(map[tracegraph.NodeID]bool, len(left)+len(right))
	for _, n := range left {
		if !members[n] {
			return 0, 0, &InconsistentSplitError{Partition: p, Reason: "left subset contains a node not in the source partition"}
		}
		if seen[n] {
			return 0, 0, &InconsistentSplitError{Partition: p, Reason: "left subset contains a duplicate node"}
		}
		seen[n] = true
	}
	for _, n := range right {
		if !members[n] {
			return 0, 0, &InconsistentSplitError{Partition: p, Reason: "right subset contains a node not in the source partition"}
		}
		if seen[n] {
			return 0, 0, &InconsistentSplitError{Partition: p, Reason: "right subset overlaps the left subset, or contains a duplicate node"}
		}
		seen[n] = true
	}
	if len(seen) != len(part.Nodes) {
		return 0, 0, &InconsistentSplitError{Partition: p, Reason: "left and right subsets do not cover every member of the source partition"}
	}

	t := part.Type
	delete(g.byID, p)
	removeID(g.byType, t, p)

	pl := g.alloc(t, append([]tracegraph.NodeID(nil), left...))
	pr := g.alloc(t, append([]tracegraph.NodeID(nil), right...))

	if p == g.Initial {
		// INITIAL is a singleton sentinel partition; splitting it is never
		// produced by the refinement loop, but keep the graph consistent
		// if it ever happens by re-pointing to whichever half kept the
		// actual initial node.
		for _, n := range left {
			if n == g.tg.Initial {
				g.Initial = pl.ID
			}
		}
		for _, n := range right {
			if n == g.tg.Initial {
				g.Initial = pr.ID
			}
		}
	}

	g.recomputeAllEdges()
	return pl.ID, pr.ID, nil
}

// Merge replaces p and q with one partition holding their combined
// members (spec.md §4.4 "merge"). Both must share an EventType.
func (g *Graph) Merge(p, q ID) (ID, error) {
	pp, ok := g.byID[p]
	if !ok {
		return 0, &InconsistentSplitError{Partition: p, Reason: "no such partition"}
	}
	qq, ok := g.byID[q]
	if !ok {
		return 0, &InconsistentSplitError{Partition: q, Reason: "no such partition"}
	}
	if pp.Type != qq.Type {
		return 0, &TypeMismatchError{Left: p, Right: q}
	}

	merged := make([]tracegraph.NodeID, 0, len(pp.Nodes)+len(qq.Nodes))
	merged = append(merged, pp.Nodes...)
	merged = append(merged, qq.Nodes...)

	t := pp.Type
	wasInitial := p == g.Initial || q == g.Initial
	wasTerminal := p == g.Terminal || q == g.Terminal

	delete(g.byID, p)
	delete(g.byID, q)
	removeID(g.byType, t, p)
	removeID(g.byType, t, q)

	m := g.alloc(t, merged)

	if wasInitial {
		g.Initial = m.ID
	}
	if wasTerminal {
		g.Terminal = m.ID
	}

	g.recomputeAllEdges()
	return m.ID, nil
}

func removeID(byType map[event.Type][]ID, t event.Type, id ID) {
	ids := byType[t]
	for i, existing := range ids {
		if existing == id {
			byType[t] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

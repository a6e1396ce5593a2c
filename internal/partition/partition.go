// Package partition implements the quotient graph over a trace graph:
// Partitions (equivalence classes of EventNodes sharing an EventType) and
// the PartitionGraph that owns them, with split/merge/recompute_edges as
// specified in spec.md §4.4.
package partition

import (
	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// ID indexes into PartitionGraph's partition arena. Per spec.md §9, the
// node⇄partition cyclic reference is expressed as indices into
// arena-allocated storage rather than bidirectional pointers: Partition
// holds a vector of NodeIDs, and PartitionGraph separately maps each
// NodeID back to its owning ID.
type ID int

// Edge is a cached outgoing transition of a partition: one entry per
// (target partition, relation) pair that at least one member node
// realizes (spec.md §3 "Partition ... carries a cached set of outgoing
// transitions").
type Edge struct {
	To  ID
	Rel tracegraph.Relation
}

// Partition is a non-empty set of EventNodes sharing one EventType
// (spec.md §3 "Partition").
type Partition struct {
	ID    ID
	Type  event.Type
	Nodes []tracegraph.NodeID

	// edges caches recomputeEdges' result: set of (relation,target) pairs
	// realized by at least one member node. Invalidated (recomputed) on
	// every split/merge touching this partition.
	edges map[edgeKey]bool
}

type edgeKey struct {
	rel tracegraph.Relation
	to  ID
}

// EventType satisfies invariant.Typed, so BinaryInvariant.Shorten works
// over partition-graph counter-example paths the same way it works over
// raw EventNode paths.
func (p *Partition) EventType() event.Type { return p.Type }

// Successors returns the distinct target partition IDs reachable from p
// along rel, in no particular guaranteed order beyond "whatever the
// underlying map yields" — callers needing determinism should sort by ID.
func (p *Partition) Successors(rel tracegraph.Relation) []ID {
	seen := make(map[ID]bool)
	var out []ID
	for k := range p.edges {
		if k.rel == rel && !seen[k.to] {
			seen[k.to] = true
			out = append(out, k.to)
		}
	}
	return out
}

// HasEdge reports whether p has at least one member transition to
// partition `to` along rel.
func (p *Partition) HasEdge(rel tracegraph.Relation, to ID) bool {
	return p.edges[edgeKey{rel: rel, to: to}]
}

// Size returns the number of member EventNodes.
func (p *Partition) Size() int { return len(p.Nodes) }

// Edges returns every cached outgoing (relation, target) pair, in no
// particular order.
func (p *Partition) Edges() []Edge {
	out := make([]Edge, 0, len(p.edges))
	for k := range p.edges {
		out = append(out, Edge{To: k.to, Rel: k.rel})
	}
	return out
}

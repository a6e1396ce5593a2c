package tracegraph

import "github.com/fsminfer/fsminfer/internal/event"

// Relation names an ordering between events. Every trace has exactly one
// "time" relation (the total order traces are recorded in); additional
// relation labels express auxiliary orderings (spec.md §3 "EventNode").
type Relation string

// TimeRelation is the default, always-present time relation label.
const TimeRelation Relation = "t"

// NodeID indexes into TraceGraph's node arena. The zero value never refers
// to a real node (the arena is 1-indexed) so a zero NodeID can stand in
// for "no node" without an extra bool.
type NodeID int

// Transition is a directed, immutable edge from one node to another along
// a Relation.
type Transition struct {
	Source NodeID
	Target NodeID
	Rel    Relation
}

// EventNode is one node of a TraceGraph: it owns an Event and, per
// relation label, an ordered list of outgoing Transitions (spec.md §3
// "EventNode"). Outgoing transitions are appended in discovery order and
// never reordered, so iteration is deterministic without an extra sort.
type EventNode struct {
	ID    NodeID
	Event event.Event
	out   map[Relation][]Transition
}

func newEventNode(id NodeID, ev event.Event) *EventNode {
	return &EventNode{ID: id, Event: ev, out: make(map[Relation][]Transition)}
}

// addEdge records a new outgoing transition. Callers are responsible for
// not introducing duplicates along the time relation (Build guarantees
// this for chain graphs).
func (n *EventNode) addEdge(target NodeID, rel Relation) {
	n.out[rel] = append(n.out[rel], Transition{Source: n.ID, Target: target, Rel: rel})
}

// Out returns the outgoing transitions for relation rel, in insertion
// order. The returned slice must not be mutated by callers.
func (n *EventNode) Out(rel Relation) []Transition {
	return n.out[rel]
}

// Relations returns every relation label this node has outgoing edges
// for. Order is unspecified; callers that need determinism should sort.
func (n *EventNode) Relations() []Relation {
	rels := make([]Relation, 0, len(n.out))
	for r := range n.out {
		rels = append(rels, r)
	}
	return rels
}

// EventType satisfies the invariant.Typed constraint so BinaryInvariant's
// generic Shorten can trim a path of EventNodes the same way it trims a
// path of Partitions.
func (n *EventNode) EventType() event.Type { return n.Event.Type }

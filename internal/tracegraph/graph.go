// Package tracegraph assembles per-trace directed graphs of event nodes,
// joined through synthetic INITIAL and TERMINAL sentinels shared across
// every trace (spec.md §4.1).
package tracegraph

import (
	"log/slog"

	"github.com/fsminfer/fsminfer/internal/event"
)

// Trace is one input trace: an ordered sequence of events sharing a time
// relation. AuxRelations optionally labels additional per-event
// orderings; each entry must have the same length as Events and supplies,
// for event i, the index (within this trace) of the event it is
// auxiliary-related to, or -1 for none. Most callers only use the time
// relation and leave AuxRelations nil.
type Trace struct {
	Events       []event.Event
	AuxRelations map[Relation][]int
}

// TraceGraph is the union of every input trace, stitched together through
// one shared INITIAL node (source of every trace's first real event) and
// one shared TERMINAL node (sink of every trace's last real event).
// Implements the "chain trace graph" flavor of spec.md §3: each trace is a
// simple path along the time relation.
type TraceGraph struct {
	nodes    []*EventNode // arena; nodes[0] is unused, NodeID 0 means "none"
	Initial  NodeID
	Terminal NodeID
	// traceOf maps a node back to the index of the trace it belongs to, for
	// diagnostics; sentinels map to -1.
	traceOf []int
}

// Nodes returns every node in the graph, including the two sentinels, in
// arena (creation) order.
func (g *TraceGraph) Nodes() []*EventNode {
	return g.nodes[1:]
}

// Node resolves a NodeID to its EventNode.
func (g *TraceGraph) Node(id NodeID) *EventNode {
	return g.nodes[id]
}

// TraceIndex returns which input trace a node came from, or -1 for a
// sentinel.
func (g *TraceGraph) TraceIndex(id NodeID) int {
	return g.traceOf[id]
}

func (g *TraceGraph) alloc(ev event.Event, traceIdx int) *EventNode {
	id := NodeID(len(g.nodes))
	n := newEventNode(id, ev)
	g.nodes = append(g.nodes, n)
	g.traceOf = append(g.traceOf, traceIdx)
	return n
}

// Build assembles a chain TraceGraph from traces: for each trace, link
// consecutive events with a time transition, prepend an edge from
// INITIAL to the first event, and append an edge from the last event to
// TERMINAL (spec.md §4.1 "Algorithm"). Any declared auxiliary relations
// are wired the same way, within the trace.
//
// Returns an InvalidStructureError if a trace's AuxRelations entry is
// malformed (out-of-range or self-referential index), since that would
// produce a graph this engine cannot treat as totally ordered.
func Build(logger *slog.Logger, traces []Trace) (*TraceGraph, error) {
	if logger == nil {
		logger = slog.Default()
	}

	g := &TraceGraph{nodes: make([]*EventNode, 1, 1+estimateNodes(traces))}
	g.traceOf = make([]int, 1, cap(g.nodes))
	g.nodes[0] = nil
	g.traceOf[0] = -1

	initial := g.alloc(event.New(event.InitialType(), event.Metadata{}), -1)
	terminal := g.alloc(event.New(event.TerminalType(), event.Metadata{}), -1)
	g.Initial = initial.ID
	g.Terminal = terminal.ID

	for ti, tr := range traces {
		ids := make([]NodeID, len(tr.Events))
		for i, ev := range tr.Events {
			n := g.alloc(ev, ti)
			ids[i] = n.ID
		}

		if len(ids) == 0 {
			// Degenerate trace: INITIAL connects straight to TERMINAL.
			initial.addEdge(terminal.ID, TimeRelation)
			continue
		}

		initial.addEdge(ids[0], TimeRelation)
		for i := 0; i+1 < len(ids); i++ {
			g.nodes[ids[i]].addEdge(ids[i+1], TimeRelation)
		}
		g.nodes[ids[len(ids)-1]].addEdge(terminal.ID, TimeRelation)

		for rel, targets := range tr.AuxRelations {
			if len(targets) != len(ids) {
				return nil, &InvalidStructureError{
					Node:   ids[0],
					Reason: "auxiliary relation length does not match trace length",
				}
			}
			for i, tgt := range targets {
				if tgt < 0 {
					continue
				}
				if tgt >= len(ids) || tgt == i {
					return nil, &InvalidStructureError{
						Node:   ids[i],
						Reason: "auxiliary relation target out of range or self-referential",
					}
				}
				g.nodes[ids[i]].addEdge(ids[tgt], rel)
			}
		}
	}

	logger.Info("trace graph built",
		"traces", len(traces),
		"nodes", len(g.nodes)-1,
	)

	if err := g.validateChain(); err != nil {
		return nil, err
	}

	return g, nil
}

// validateChain checks spec.md §4.1's invariants: every non-TERMINAL node
// has exactly one outgoing time transition (INITIAL has one per trace, so
// it is exempt from the "exactly one" rule but must have at least one
// unless there are zero traces).
func (g *TraceGraph) validateChain() error {
	for id := NodeID(1); id < NodeID(len(g.nodes)); id++ {
		n := g.nodes[id]
		if id == g.Terminal {
			if len(n.Out(TimeRelation)) != 0 {
				return &InvalidStructureError{Node: id, Reason: "TERMINAL has outgoing time transitions"}
			}
			continue
		}
		out := n.Out(TimeRelation)
		if id == g.Initial {
			continue // one per trace, checked implicitly by Build's construction
		}
		if len(out) != 1 {
			return &InvalidStructureError{
				Node:   id,
				Reason: "non-terminal node does not have exactly one outgoing time transition",
			}
		}
	}
	return nil
}

func estimateNodes(traces []Trace) int {
	n := 2
	for _, t := range traces {
		n += len(t.Events)
	}
	return n
}

package tracegraph

import "fmt"

// InvalidStructureError reports a chain-graph invariant violation: a node
// that is supposed to be totally ordered has more than one outgoing time
// transition (spec.md §7 "Invalid trace structure"). Fatal — surfaced to
// the caller with the offending node's identifier.
type InvalidStructureError struct {
	Node   NodeID
	Reason string
}

func (e *InvalidStructureError) Error() string {
	return fmt.Sprintf("tracegraph: invalid structure at node %d: %s", e.Node, e.Reason)
}

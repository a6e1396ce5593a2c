package event

// Metadata carries the opaque per-event fields a trace source attaches to
// an occurrence: the raw source line and an optional logical timestamp.
// The engine never interprets these beyond passing them through for
// diagnostics (spec.md §3 "Event ... carrying opaque per-event metadata").
type Metadata struct {
	SourceLine int
	Timestamp  string
	Raw        string
}

// Event is a single occurrence of a Type within one trace. Identity is
// positional: two Events with identical Type and Metadata are still
// distinct occurrences if they appear at different positions in a trace,
// so Event carries no identity of its own — EventNode (package
// tracegraph) is what gives an occurrence a stable identity inside the
// engine.
type Event struct {
	Type     Type
	Metadata Metadata
}

// New constructs an Event of the given type with metadata.
func New(t Type, md Metadata) Event {
	return Event{Type: t, Metadata: md}
}

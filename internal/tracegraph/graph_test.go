package tracegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsminfer/fsminfer/internal/event"
)

func trace(labels ...string) Trace {
	in := event.NewInterner()
	var evs []event.Event
	for _, l := range labels {
		evs = append(evs, event.New(in.Domain(l), event.Metadata{Raw: l}))
	}
	return Trace{Events: evs}
}

func TestBuild_SingleTrace_ChainsInOrder(t *testing.T) {
	g, err := Build(nil, []Trace{trace("a", "b", "c")})
	require.NoError(t, err)

	require.Len(t, g.Nodes(), 5) // INITIAL, a, b, c, TERMINAL

	initial := g.Node(g.Initial)
	out := initial.Out(TimeRelation)
	require.Len(t, out, 1)
	a := g.Node(out[0].Target)
	assert.Equal(t, "a", a.Event.Type.Label())

	b := g.Node(a.Out(TimeRelation)[0].Target)
	assert.Equal(t, "b", b.Event.Type.Label())

	c := g.Node(b.Out(TimeRelation)[0].Target)
	assert.Equal(t, "c", c.Event.Type.Label())

	require.Len(t, c.Out(TimeRelation), 1)
	assert.Equal(t, g.Terminal, c.Out(TimeRelation)[0].Target)
}

func TestBuild_MultipleTraces_ShareSentinels(t *testing.T) {
	g, err := Build(nil, []Trace{trace("a", "b"), trace("x", "y")})
	require.NoError(t, err)

	initialOut := g.Node(g.Initial).Out(TimeRelation)
	require.Len(t, initialOut, 2)

	var terminalIn int
	for id := NodeID(1); id < NodeID(len(g.Nodes())+1); id++ {
		if id == g.Initial || id == g.Terminal {
			continue
		}
		for _, tr := range g.Node(id).Out(TimeRelation) {
			if tr.Target == g.Terminal {
				terminalIn++
			}
		}
	}
	assert.Equal(t, 2, terminalIn)
}

func TestBuild_DegenerateTrace_LinksInitialToTerminal(t *testing.T) {
	g, err := Build(nil, []Trace{{}})
	require.NoError(t, err)

	out := g.Node(g.Initial).Out(TimeRelation)
	require.Len(t, out, 1)
	assert.Equal(t, g.Terminal, out[0].Target)
}

func TestBuild_AuxRelation_Wired(t *testing.T) {
	tr := trace("a", "b", "c")
	tr.AuxRelations = map[Relation][]int{
		"causal": {-1, 0, -1},
	}
	g, err := Build(nil, []Trace{tr})
	require.NoError(t, err)

	initialOut := g.Node(g.Initial).Out(TimeRelation)
	a := g.Node(initialOut[0].Target)
	b := g.Node(a.Out(TimeRelation)[0].Target)

	causal := b.Out("causal")
	require.Len(t, causal, 1)
	assert.Equal(t, a.ID, causal[0].Target)
}

func TestBuild_AuxRelation_BadLength_Errors(t *testing.T) {
	tr := trace("a", "b")
	tr.AuxRelations = map[Relation][]int{"causal": {-1}}
	_, err := Build(nil, []Trace{tr})
	require.Error(t, err)
	var structErr *InvalidStructureError
	require.ErrorAs(t, err, &structErr)
}

func TestBuild_AuxRelation_SelfReference_Errors(t *testing.T) {
	tr := trace("a", "b")
	tr.AuxRelations = map[Relation][]int{"causal": {0, 1}}
	_, err := Build(nil, []Trace{tr})
	require.Error(t, err)
}

func TestEventNode_EventType(t *testing.T) {
	g, err := Build(nil, []Trace{trace("a")})
	require.NoError(t, err)
	a := g.Node(g.Node(g.Initial).Out(TimeRelation)[0].Target)
	assert.Equal(t, "a", a.EventType().Label())
}

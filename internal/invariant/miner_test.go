package invariant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

func buildGraph(t *testing.T, traces [][]string) *tracegraph.TraceGraph {
	t.Helper()
	in := event.NewInterner()
	var trs []tracegraph.Trace
	for _, labels := range traces {
		var evs []event.Event
		for _, l := range labels {
			evs = append(evs, event.New(in.Domain(l), event.Metadata{}))
		}
		trs = append(trs, tracegraph.Trace{Events: evs})
	}
	g, err := tracegraph.Build(nil, trs)
	require.NoError(t, err)
	return g
}

func TestMineChain_SimpleAFbyAPNFby(t *testing.T) {
	g := buildGraph(t, [][]string{{"a", "b"}, {"a", "b"}})
	s := MineChain(nil, g, tracegraph.TimeRelation)

	a := event.NewType("a")
	b := event.NewType("b")
	assert.True(t, s.Contains(New(AlwaysFollowedBy, a, b, tracegraph.TimeRelation)))
	assert.True(t, s.Contains(New(AlwaysPrecedes, a, b, tracegraph.TimeRelation)))
	assert.False(t, s.Contains(New(NeverFollowedBy, a, b, tracegraph.TimeRelation)))
}

func TestMineChain_NFby_NoAfterOccurrence(t *testing.T) {
	g := buildGraph(t, [][]string{{"a", "c"}, {"b", "a", "c"}})
	s := MineChain(nil, g, tracegraph.TimeRelation)

	a := event.NewType("a")
	b := event.NewType("b") // occurs, but never after an a
	assert.True(t, s.Contains(New(NeverFollowedBy, a, b, tracegraph.TimeRelation)))
}

func TestMineChain_SingletonSelfNFby(t *testing.T) {
	// "x" occurs once in every trace: x is never followed by a second x.
	g := buildGraph(t, [][]string{{"x", "y"}, {"x", "y"}})
	s := MineChain(nil, g, tracegraph.TimeRelation)

	x := event.NewType("x")
	assert.True(t, s.Contains(New(NeverFollowedBy, x, x, tracegraph.TimeRelation)))
}

func TestMineChain_EmptyGraph(t *testing.T) {
	g := buildGraph(t, nil)
	s := MineChain(nil, g, tracegraph.TimeRelation)
	assert.Equal(t, 0, s.Len())
}

func TestMineChainAndTransitiveClosure_Agree(t *testing.T) {
	cases := [][][]string{
		{{"a", "b"}, {"a", "b"}},
		{{"a", "b", "c"}, {"a", "c"}},
		{{"x", "y"}, {"y", "x"}},
		{{"a"}, {"a", "b"}, {"b"}},
		{{"login", "query", "query", "logout"}, {"login", "logout"}},
	}
	for _, traces := range cases {
		g := buildGraph(t, traces)
		chain := MineChain(nil, g, tracegraph.TimeRelation)
		tc := MineTransitiveClosure(nil, g, tracegraph.TimeRelation)
		assert.True(t, chain.Equal(tc), "chain=%v tc=%v", chain.String(), tc.String())
	}
}

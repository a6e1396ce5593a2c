package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/invariant"
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

func TestInitialFrom_OnePartitionPerType(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "b"}, {"a", "b"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())

	// INITIAL, TERMINAL, a, b => 4 partitions.
	assert.Len(t, pg.All(), 4)

	aParts := pg.PartitionsOfType(event.NewType("a"))
	require.Len(t, aParts, 1)
	assert.Equal(t, 2, pg.Partition(aParts[0]).Size())
}

func TestInitialFrom_EdgesReflectMemberTransitions(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "b"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())

	aParts := pg.PartitionsOfType(event.NewType("a"))
	bParts := pg.PartitionsOfType(event.NewType("b"))
	require.Len(t, aParts, 1)
	require.Len(t, bParts, 1)

	succ := pg.Successors(aParts[0], tracegraph.TimeRelation)
	assert.Contains(t, succ, bParts[0])

	pred := pg.Predecessors(bParts[0], tracegraph.TimeRelation)
	assert.Contains(t, pred, aParts[0])
}

func TestSplit_PartitionsNonOverlappingSubsets(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "x"}, {"a", "y"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())

	aParts := pg.PartitionsOfType(event.NewType("a"))
	require.Len(t, aParts, 1)
	aID := aParts[0]
	nodes := pg.Partition(aID).Nodes
	require.Len(t, nodes, 2)

	left := []tracegraph.NodeID{nodes[0]}
	right := []tracegraph.NodeID{nodes[1]}
	l, r, err := pg.Split(aID, left, right)
	require.NoError(t, err)

	assert.Equal(t, 1, pg.Partition(l).Size())
	assert.Equal(t, 1, pg.Partition(r).Size())
	assert.Nil(t, pg.Partition(aID)) // old ID retired
}

func TestSplit_RejectsOverlap(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "x"}, {"a", "y"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())
	aID := pg.PartitionsOfType(event.NewType("a"))[0]
	nodes := pg.Partition(aID).Nodes

	_, _, err := pg.Split(aID, nodes, nodes)
	require.Error(t, err)
	var splitErr *InconsistentSplitError
	require.ErrorAs(t, err, &splitErr)
}

func TestSplit_RejectsIncompleteCover(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "x"}, {"a", "y"}, {"a", "z"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())
	aID := pg.PartitionsOfType(event.NewType("a"))[0]
	nodes := pg.Partition(aID).Nodes
	require.Len(t, nodes, 3)

	_, _, err := pg.Split(aID, nodes[:1], nodes[1:2])
	require.Error(t, err)
}

func TestSplit_RejectsEmptySubset(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "x"}, {"a", "y"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())
	aID := pg.PartitionsOfType(event.NewType("a"))[0]
	nodes := pg.Partition(aID).Nodes

	_, _, err := pg.Split(aID, nil, nodes)
	require.Error(t, err)
}

func TestMerge_CombinesSameTypePartitions(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "x"}, {"a", "y"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())
	aID := pg.PartitionsOfType(event.NewType("a"))[0]
	nodes := pg.Partition(aID).Nodes
	left, right, err := pg.Split(aID, nodes[:1], nodes[1:])
	require.NoError(t, err)

	merged, err := pg.Merge(left, right)
	require.NoError(t, err)
	assert.Equal(t, 2, pg.Partition(merged).Size())
}

func TestMerge_RejectsTypeMismatch(t *testing.T) {
	tg := buildGraph(t, [][]string{{"a", "b"}})
	pg := InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())
	aID := pg.PartitionsOfType(event.NewType("a"))[0]
	bID := pg.PartitionsOfType(event.NewType("b"))[0]

	_, err := pg.Merge(aID, bID)
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

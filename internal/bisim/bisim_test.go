package bisim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsminfer/fsminfer/internal/event"
	"github.com/fsminfer/fsminfer/internal/fsmcheck"
	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/partition"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

func buildPartitionGraph(t *testing.T, traces [][]string) (*tracegraph.TraceGraph, *partition.Graph) {
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
	tg, err := tracegraph.Build(nil, trs)
	require.NoError(t, err)
	pg := partition.InitialFrom(nil, tg, tracegraph.TimeRelation, invariant.NewSet())
	return tg, pg
}

func allHold(t *testing.T, pg *partition.Graph, invariants *invariant.Set) {
	t.Helper()
	for _, inv := range invariants.All() {
		violated, _, _ := fsmcheck.Check(nil, pg, inv)
		assert.Falsef(t, violated, "invariant %s still violated after refinement", inv.String())
	}
}

// TestRefine_SpuriousPathGetsSplit is grounded on spec.md S4: a repeated
// event type within a trace (here "a" occurs twice per trace) forces the
// initial partition graph to merge both occurrences into one partition,
// which introduces a transition no real trace has (first "a" appearing to
// flow directly into the second trace's tail). Refine must split that
// partition until every mined invariant holds again.
func TestRefine_SpuriousPathGetsSplit(t *testing.T) {
	traces := [][]string{
		{"a", "x", "a", "c"},
		{"a", "y", "a", "d"},
	}
	tg, pg := buildPartitionGraph(t, traces)
	invariants := invariant.MineChain(nil, tg, tracegraph.TimeRelation)

	initialCount := len(pg.All())

	err := Refine(nil, pg, invariants, RefineConfig{OnUnrefinable: DropUnrefinable})
	require.NoError(t, err)

	assert.Greater(t, len(pg.All()), initialCount, "refinement should have split the merged \"a\" partition")
	allHold(t, pg, invariants)
}

// TestRefine_NoSpuriousPath_NoOp covers the case where the initial
// partition graph introduces no spurious transitions (spec.md S1-style
// traces), so Refine should converge without any split.
func TestRefine_NoSpuriousPath_NoOp(t *testing.T) {
	traces := [][]string{
		{"a", "b"},
		{"a", "c", "b"},
	}
	tg, pg := buildPartitionGraph(t, traces)
	invariants := invariant.MineChain(nil, tg, tracegraph.TimeRelation)
	initialCount := len(pg.All())

	err := Refine(nil, pg, invariants, RefineConfig{OnUnrefinable: DropUnrefinable})
	require.NoError(t, err)

	assert.Equal(t, initialCount, len(pg.All()))
	allHold(t, pg, invariants)
}

// TestCoarsen_MergesBisimilarSiblingPartitions is grounded on spec.md S5:
// two partitions of the same EventType that are structurally
// indistinguishable (same successors under every relation) should
// coalesce into one.
func TestCoarsen_MergesBisimilarSiblingPartitions(t *testing.T) {
	_, pg := buildPartitionGraph(t, [][]string{{"a", "b", "z"}, {"a", "b", "z"}})

	bID := pg.PartitionsOfType(event.NewType("b"))[0]
	nodes := pg.Partition(bID).Nodes
	require.Len(t, nodes, 2)

	b1, b2, err := pg.Split(bID, []tracegraph.NodeID{nodes[0]}, []tracegraph.NodeID{nodes[1]})
	require.NoError(t, err)
	require.NotEqual(t, b1, b2)

	beforeCoarsen := len(pg.All())

	Coarsen(nil, pg, invariant.NewSet())

	bPartsAfter := pg.PartitionsOfType(event.NewType("b"))
	assert.Len(t, bPartsAfter, 1, "the two bisimilar b-partitions should have merged back into one")
	assert.Less(t, len(pg.All()), beforeCoarsen)
}

// TestCoarsen_MergeRevertRestoresPartitionCount checks the revert step
// Coarsen applies after a trial merge that fails its invariant check:
// splitting the merged partition back into the original node sets restores
// the pre-merge partition count. It calls Merge and Split directly; it does
// not run Coarsen or fsmcheck.Check.
func TestCoarsen_MergeRevertRestoresPartitionCount(t *testing.T) {
	_, pg := buildPartitionGraph(t, [][]string{{"a", "b", "z"}, {"a", "b", "z"}})

	bID := pg.PartitionsOfType(event.NewType("b"))[0]
	nodes := pg.Partition(bID).Nodes
	b1, b2, err := pg.Split(bID, []tracegraph.NodeID{nodes[0]}, []tracegraph.NodeID{nodes[1]})
	require.NoError(t, err)

	beforeMerge := len(pg.All())
	merged, err := pg.Merge(b1, b2)
	require.NoError(t, err)
	// Manually revert, mirroring what Coarsen does internally, and confirm
	// the graph returns to its pre-merge partition count.
	left := append([]tracegraph.NodeID(nil), nodes[:1]...)
	right := append([]tracegraph.NodeID(nil), nodes[1:]...)
	_, _, err = pg.Split(merged, left, right)
	require.NoError(t, err)
	assert.Equal(t, beforeMerge, len(pg.All()))
}

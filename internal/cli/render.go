package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/orchestrator"
	"github.com/fsminfer/fsminfer/internal/partition"
)

func viewInvariants(s *invariant.Set) []InvariantView {
	all := s.All()
	out := make([]InvariantView, 0, len(all))
	for _, inv := range all {
		out = append(out, InvariantView{
			Kind:     inv.Kind.String(),
			First:    inv.First.String(),
			Second:   inv.Second.String(),
			Relation: string(inv.Relation),
			Text:     inv.String(),
		})
	}
	return out
}

// RenderInvariants outputs an invariant set on its own, for the mine
// command.
func RenderInvariants(f *OutputFormatter, s *invariant.Set) error {
	if f.Format == "json" {
		return f.Success(Response{Invariants: viewInvariants(s)})
	}
	fmt.Fprintf(f.Writer, "%d invariant(s) mined\n", s.Len())
	if s.Len() > 0 {
		fmt.Fprintln(f.Writer, s.String())
	}
	return nil
}

func viewPartitions(g *partition.Graph, showInitial, showTerminal bool) []PartitionView {
	ids := g.All()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]PartitionView, 0, len(ids))
	for _, id := range ids {
		p := g.Partition(id)
		if !showInitial && id == g.Initial {
			continue
		}
		if !showTerminal && id == g.Terminal {
			continue
		}
		edges := p.Edges()
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].Rel != edges[j].Rel {
				return edges[i].Rel < edges[j].Rel
			}
			return edges[i].To < edges[j].To
		})
		ev := make([]EdgeView, 0, len(edges))
		for _, e := range edges {
			ev = append(ev, EdgeView{To: int(e.To), Relation: string(e.Rel)})
		}
		out = append(out, PartitionView{
			ID:    int(id),
			Type:  p.Type.String(),
			Size:  p.Size(),
			Edges: ev,
		})
	}
	return out
}

// RenderResult outputs a full orchestrator.Result, respecting the
// ShowInitial/ShowTerminal display options.
func RenderResult(f *OutputFormatter, res *orchestrator.Result, showInitial, showTerminal bool) error {
	partitions := viewPartitions(res.PartitionGraph, showInitial, showTerminal)

	if f.Format == "json" {
		return f.Success(Response{
			RunID:      res.RunID,
			Partitions: partitions,
			Invariants: viewInvariants(res.Invariants),
			Dropped:    res.DroppedInvariants,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", res.RunID)
	fmt.Fprintf(&b, "%d partition(s), %d invariant(s)\n", len(partitions), res.Invariants.Len())
	for _, p := range partitions {
		fmt.Fprintf(&b, "  [%d] %s (%d node(s))\n", p.ID, p.Type, p.Size)
		for _, e := range p.Edges {
			fmt.Fprintf(&b, "      --%s--> [%d]\n", e.Relation, e.To)
		}
	}
	if len(res.DroppedInvariants) > 0 {
		fmt.Fprintf(&b, "dropped %d unrefinable invariant(s):\n", len(res.DroppedInvariants))
		for _, d := range res.DroppedInvariants {
			fmt.Fprintf(&b, "  %s\n", d)
		}
	}
	fmt.Fprint(f.Writer, b.String())
	return nil
}

// Package bisim implements the CEGAR refinement and k-equivalence
// coarsening loops that turn a maximally-split partition graph into the
// final, invariant-respecting model (spec.md §4.6).
package bisim

import (
	"log/slog"
	"sort"

	"github.com/fsminfer/fsminfer/internal/fsmcheck"
	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/partition"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// OnUnrefinable selects what happens when a violated invariant admits no
// refining split (spec.md §4.6 step 5).
type OnUnrefinable int

const (
	// DropUnrefinable removes the offending invariant from the set and
	// continues refining the rest — the default (SPEC_FULL.md §5).
	DropUnrefinable OnUnrefinable = iota
	// FailUnrefinable returns an UnrefinableError instead.
	FailUnrefinable
)

// RefineConfig configures Refine's behavior.
type RefineConfig struct {
	OnUnrefinable OnUnrefinable
}

// Refine runs the CEGAR splitting loop of spec.md §4.6 over g in place,
// checking invariants (in a deterministic, lexicographic-on-serialization
// order so reruns are reproducible) and splitting the latest refinable
// partition on each counter-example's path until every invariant in
// invariants holds, or has been dropped as unrefinable.
func Refine(logger *slog.Logger, g *partition.Graph, invariants *invariant.Set, cfg RefineConfig) error {
	if logger == nil {
		logger = slog.Default()
	}

	rounds := 0
	for {
		ordered := sortedInvariants(invariants)

		var (
			violated   bool
			failingInv invariant.BinaryInvariant
			path       []partition.ID
		)
		for _, inv := range ordered {
			ok, p, _ := fsmcheck.Check(logger, g, inv)
			if ok {
				violated = true
				failingInv = inv
				path = p
				break
			}
		}
		if !violated {
			logger.Info("refinement converged", "rounds", rounds, "partitions", len(g.All()))
			return nil
		}
		rounds++

		split := trySplit(g, failingInv.Relation, path)
		if !split {
			logger.Warn("invariant unrefinable along its counter-example",
				"invariant", failingInv.String(),
				"path_len", len(path),
			)
			switch cfg.OnUnrefinable {
			case FailUnrefinable:
				return &UnrefinableError{Invariant: failingInv.String()}
			default:
				invariants.Remove(failingInv)
			}
		}
	}
}

// trySplit implements spec.md §4.6 step 4: walking path from its
// second-to-last partition back toward the first, split the latest one
// whose members disagree about whether their next-edge successor stays
// on path. Returns false if no partition on the path admits such a
// split.
func trySplit(g *partition.Graph, rel tracegraph.Relation, path []partition.ID) bool {
	for i := len(path) - 2; i >= 0; i-- {
		p, next := path[i], path[i+1]
		onPath, off := splitByNextHop(g, rel, p, next)
		if len(onPath) == 0 || len(off) == 0 {
			continue
		}
		if _, _, err := g.Split(p, onPath, off); err == nil {
			return true
		}
	}
	return false
}

// splitByNextHop divides p's member nodes into those with at least one
// rel-transition into the next partition on the counter-example path,
// and those without.
func splitByNextHop(g *partition.Graph, rel tracegraph.Relation, p, next partition.ID) (onPath, off []tracegraph.NodeID) {
	part := g.Partition(p)
	tg := g.TraceGraph()
	for _, n := range part.Nodes {
		stays := false
		for _, tr := range tg.Node(n).Out(rel) {
			if g.PartitionOf(tr.Target) == next {
				stays = true
				break
			}
		}
		if stays {
			onPath = append(onPath, n)
		} else {
			off = append(off, n)
		}
	}
	return onPath, off
}

func sortedInvariants(s *invariant.Set) []invariant.BinaryInvariant {
	all := s.All()
	ordered := make([]invariant.BinaryInvariant, len(all))
	copy(ordered, all)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].String() < ordered[j].String()
	})
	return ordered
}

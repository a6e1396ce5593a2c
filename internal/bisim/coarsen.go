package bisim

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fsminfer/fsminfer/internal/fsmcheck"
	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/partition"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// Coarsen merges ∞-equivalent (bisimilar) partitions of the same
// EventType into the refined graph g in place, reverting any merge that
// would violate an invariant, until no further merge is both eligible
// and safe (spec.md §4.6 "Coarsening").
func Coarsen(logger *slog.Logger, g *partition.Graph, invariants *invariant.Set) {
	if logger == nil {
		logger = slog.Default()
	}

	merges := 0
	for {
		classOf := bisimClasses(g)
		groups := make(map[string][]partition.ID)
		for _, id := range g.All() {
			groups[classOf[id]] = append(groups[classOf[id]], id)
		}

		keys := make([]string, 0, len(groups))
		for k := range groups {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		progressed := false
		for _, k := range keys {
			ids := groups[k]
			if len(ids) < 2 {
				continue
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			p, q := ids[0], ids[1]

			left := append([]tracegraph.NodeID(nil), g.Partition(p).Nodes...)
			right := append([]tracegraph.NodeID(nil), g.Partition(q).Nodes...)

			merged, err := g.Merge(p, q)
			if err != nil {
				continue
			}

			if violatesAny(logger, g, invariants) {
				g.Split(merged, left, right)
				continue
			}

			merges++
			progressed = true
			break
		}

		if !progressed {
			logger.Info("coarsening converged", "merges", merges, "partitions", len(g.All()))
			return
		}
	}
}

func violatesAny(logger *slog.Logger, g *partition.Graph, invariants *invariant.Set) bool {
	for _, inv := range invariants.All() {
		if ok, _, _ := fsmcheck.Check(logger, g, inv); ok {
			return true
		}
	}
	return false
}

// bisimClasses computes each partition's ∞-equivalence class by
// iteratively refining an EventType-keyed partition of the partitions
// until a fixpoint: same algorithm as DFA/automaton minimization by
// signature refinement (spec.md §4.6 "largest k with same signature").
// Returns a deterministic string class key per partition, not bare
// integers, so the caller can group and sort without a side table.
func bisimClasses(g *partition.Graph) map[partition.ID]string {
	classOf := make(map[partition.ID]string, len(g.All()))
	for _, id := range g.All() {
		classOf[id] = "t:" + g.Partition(id).Type.String()
	}

	for {
		next := make(map[partition.ID]string, len(classOf))
		for _, id := range g.All() {
			next[id] = signature(g, id, classOf)
		}
		if sameEquivalence(classOf, next) {
			return next
		}
		classOf = next
	}
}

// signature summarizes p's EventType plus, for every relation label, how
// many distinct successor partitions fall into each current class —
// exactly the k-equivalence recursion of spec.md §4.6.
func signature(g *partition.Graph, id partition.ID, classOf map[partition.ID]string) string {
	part := g.Partition(id)

	type bucket struct {
		rel   tracegraph.Relation
		class string
	}
	counts := make(map[bucket]int)
	for _, e := range part.Edges() {
		counts[bucket{rel: e.Rel, class: classOf[e.To]}]++
	}

	keys := make([]bucket, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].rel != keys[j].rel {
			return keys[i].rel < keys[j].rel
		}
		return keys[i].class < keys[j].class
	})

	var b strings.Builder
	fmt.Fprintf(&b, "type=%s", part.Type)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s:%s=%d", k.rel, k.class, counts[k])
	}
	return b.String()
}

// sameEquivalence reports whether two class assignments induce the same
// equality relation over partitions (regardless of how the class labels
// themselves are spelled) — the correct fixpoint test for iterative
// signature refinement, where class counts only ever grow monotonically
// until they stop changing.
func sameEquivalence(a, b map[partition.ID]string) bool {
	aToB := make(map[string]string)
	for id, ac := range a {
		bc := b[id]
		if existing, ok := aToB[ac]; ok {
			if existing != bc {
				return false
			}
		} else {
			aToB[ac] = bc
		}
	}
	bToA := make(map[string]string)
	for id, bc := range b {
		ac := a[id]
		if existing, ok := bToA[bc]; ok {
			if existing != ac {
				return false
			}
		} else {
			bToA[bc] = ac
		}
	}
	return true
}

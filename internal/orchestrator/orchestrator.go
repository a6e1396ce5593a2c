// Package orchestrator sequences the engine's pipeline — build the
// trace graph, mine invariants, build the initial partition graph,
// refine, coarsen — the way the teacher's Engine.Run sequences event
// processing (spec.md §4 overview, "[MODULE: orchestrator]").
package orchestrator

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fsminfer/fsminfer/internal/bisim"
	"github.com/fsminfer/fsminfer/internal/config"
	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/partition"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// Result is the complete output of one run: the final partition graph,
// the invariant set it was checked against (minus any dropped as
// unrefinable), and the run's correlation ID (spec.md §6 "Output").
type Result struct {
	RunID             string
	TraceGraph        *tracegraph.TraceGraph
	Invariants        *invariant.Set
	PartitionGraph    *partition.Graph
	DroppedInvariants []string
}

// Run executes parse → mine → build → refine → coarsen → export.
// Parsing happens before Run is called (its input is already
// []tracegraph.Trace, produced by an internal/source collaborator); Run
// owns everything from trace-graph construction onward.
func Run(logger *slog.Logger, cfg *config.Config, traces []tracegraph.Trace) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	logger.Info("run starting", "traces", len(traces))

	tg, err := tracegraph.Build(logger, traces)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build trace graph: %w", err)
	}

	// mine.use_transitive_closure selects which miner's output becomes the
	// invariant set (spec.md §6 "choose TC miner vs chain-walking miner");
	// it does not merely request a cross-validation pass on the side.
	var invariants *invariant.Set
	if cfg.Mine.UseTransitiveClosure {
		invariants = invariant.MineTransitiveClosure(logger, tg, tracegraph.TimeRelation)
	} else {
		invariants = invariant.MineChain(logger, tg, tracegraph.TimeRelation)
	}

	pg := partition.InitialFrom(logger, tg, tracegraph.TimeRelation, invariants)

	before := append([]invariant.BinaryInvariant(nil), invariants.All()...)

	if cfg.Refine.Enabled {
		onUnref := bisim.DropUnrefinable
		if cfg.Refine.OnUnrefinable == "fail" {
			onUnref = bisim.FailUnrefinable
		}
		if err := bisim.Refine(logger, pg, invariants, bisim.RefineConfig{OnUnrefinable: onUnref}); err != nil {
			return nil, fmt.Errorf("orchestrator: refine: %w", err)
		}
	}

	var dropped []string
	for _, inv := range before {
		if !invariants.Contains(inv) {
			dropped = append(dropped, inv.String())
		}
	}

	if cfg.Coarsen.Enabled {
		bisim.Coarsen(logger, pg, invariants)
	}

	logger.Info("run finished",
		"partitions", len(pg.All()),
		"invariants", invariants.Len(),
		"dropped", len(dropped),
	)

	return &Result{
		RunID:             runID,
		TraceGraph:        tg,
		Invariants:        invariants,
		PartitionGraph:    pg,
		DroppedInvariants: dropped,
	}, nil
}

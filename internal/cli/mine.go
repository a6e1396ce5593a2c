package cli

import (
	"github.com/spf13/cobra"

	"github.com/fsminfer/fsminfer/internal/invariant"
	"github.com/fsminfer/fsminfer/internal/tracegraph"
)

// NewMineCommand creates the mine subcommand: parse traces, build a trace
// graph, mine the invariant set, and stop there (no partition graph).
func NewMineCommand(rootOpts *RootOptions) *cobra.Command {
	input := &InputOptions{}
	var useTC bool

	cmd := &cobra.Command{
		Use:           "mine",
		Short:         "Mine temporal invariants from event traces",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveTimeRelation(cmd); err != nil {
				return WrapExitError(ExitCommandError, "bad flags", err)
			}
			logger := newLogger(rootOpts, cmd)

			traces, err := LoadTraces(*input)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading traces", err)
			}

			tg, err := tracegraph.Build(logger, traces)
			if err != nil {
				return WrapExitError(ExitCommandError, "building trace graph", err)
			}

			// --use-tc-miner selects the transitive-closure miner's output
			// instead of the default chain-walking miner (spec.md §6
			// "mine.use_transitive_closure"), it does not merely request a
			// side cross-validation pass.
			var invariants *invariant.Set
			if useTC {
				invariants = invariant.MineTransitiveClosure(logger, tg, tracegraph.TimeRelation)
			} else {
				invariants = invariant.MineChain(logger, tg, tracegraph.TimeRelation)
			}

			f := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			return RenderInvariants(f, invariants)
		},
	}

	addInputFlags(cmd, input)
	cmd.Flags().BoolVar(&useTC, "use-tc-miner", false, "use the transitive-closure miner instead of chain-walking")

	return cmd
}

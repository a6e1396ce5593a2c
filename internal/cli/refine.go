package cli

import (
	"github.com/spf13/cobra"

	"github.com/fsminfer/fsminfer/internal/orchestrator"
)

// NewRefineCommand creates the refine subcommand: mine, build the initial
// partition graph, and run the CEGAR splitting loop, but never coarsen.
func NewRefineCommand(rootOpts *RootOptions) *cobra.Command {
	input := &InputOptions{}
	var useTC bool
	var onUnrefinable string
	var showInitial, showTerminal bool

	cmd := &cobra.Command{
		Use:           "refine",
		Short:         "Refine the initial partition graph against mined invariants",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveTimeRelation(cmd); err != nil {
				return WrapExitError(ExitCommandError, "bad flags", err)
			}

			cfg, err := LoadConfig(rootOpts.Config)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading config", err)
			}
			cfg.Mine.UseTransitiveClosure = useTC
			cfg.Refine.Enabled = true
			cfg.Refine.OnUnrefinable = onUnrefinable
			cfg.Coarsen.Enabled = false

			logger := newLogger(rootOpts, cmd)
			traces, err := LoadTraces(*input)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading traces", err)
			}

			res, err := orchestrator.Run(logger, cfg, traces)
			if err != nil {
				return WrapExitError(ExitFailure, "refine run failed", err)
			}

			f := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			return RenderResult(f, res, showInitial, showTerminal)
		},
	}

	addInputFlags(cmd, input)
	cmd.Flags().BoolVar(&useTC, "use-tc-miner", false, "use the transitive-closure miner instead of chain-walking")
	cmd.Flags().StringVar(&onUnrefinable, "on-unrefinable", "drop", "drop|fail when an invariant survives to partition 0 unsplit")
	cmd.Flags().BoolVar(&showInitial, "show-initial", true, "include the INITIAL partition in output")
	cmd.Flags().BoolVar(&showTerminal, "show-terminal", true, "include the TERMINAL partition in output")

	return cmd
}

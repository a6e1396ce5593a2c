package cli

import (
	"github.com/spf13/cobra"

	"github.com/fsminfer/fsminfer/internal/orchestrator"
)

// NewRunCommand creates the run subcommand: the full pipeline, honoring
// --no-refine/--no-coarsen to drop either stage (subject to config's
// refine/coarsen dependency check).
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	input := &InputOptions{}
	var useTC, noRefine, noCoarsen bool
	var onUnrefinable string
	var showInitial, showTerminal bool

	cmd := &cobra.Command{
		Use:           "run",
		Short:         "Run the full mine -> refine -> coarsen pipeline",
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
			if cmd.Flags().Changed("use-tc-miner") {
				cfg.Mine.UseTransitiveClosure = useTC
			}
			if noRefine {
				cfg.Refine.Enabled = false
			}
			if noCoarsen {
				cfg.Coarsen.Enabled = false
			}
			if cmd.Flags().Changed("on-unrefinable") {
				cfg.Refine.OnUnrefinable = onUnrefinable
			}
			if cfg.Coarsen.Enabled && !cfg.Refine.Enabled {
				return WrapExitError(ExitCommandError, "bad flags",
					&InvalidFlagComboError{Reason: "--no-refine cannot be combined with coarsening enabled"})
			}

			logger := newLogger(rootOpts, cmd)
			traces, err := LoadTraces(*input)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading traces", err)
			}

			res, err := orchestrator.Run(logger, cfg, traces)
			if err != nil {
				return WrapExitError(ExitFailure, "run failed", err)
			}

			f := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}
			if !cmd.Flags().Changed("show-initial") {
				showInitial = cfg.Output.ShowInitial
			}
			if !cmd.Flags().Changed("show-terminal") {
				showTerminal = cfg.Output.ShowTerminal
			}
			return RenderResult(f, res, showInitial, showTerminal)
		},
	}

	addInputFlags(cmd, input)
	cmd.Flags().BoolVar(&useTC, "use-tc-miner", false, "use the transitive-closure miner instead of chain-walking")
	cmd.Flags().BoolVar(&noRefine, "no-refine", false, "skip the refinement stage")
	cmd.Flags().BoolVar(&noCoarsen, "no-coarsen", false, "skip the coarsening stage")
	cmd.Flags().StringVar(&onUnrefinable, "on-unrefinable", "drop", "drop|fail when an invariant survives to partition 0 unsplit")
	cmd.Flags().BoolVar(&showInitial, "show-initial", true, "include the INITIAL partition in output")
	cmd.Flags().BoolVar(&showTerminal, "show-terminal", true, "include the TERMINAL partition in output")

	return cmd
}

// InvalidFlagComboError reports a --no-refine/--no-coarsen combination
// that would coarsen an unrefined graph.
type InvalidFlagComboError struct {
	Reason string
}

func (e *InvalidFlagComboError) Error() string { return e.Reason }

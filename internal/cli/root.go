package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds the flags every subcommand inherits.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
	Config  string // path to a config.Config YAML document
}

// ValidFormats lists the accepted --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the fsminfer command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fsminfer",
		Short: "fsminfer - offline trace inference engine",
		Long:  "Mines temporal invariants from event traces and builds a minimized finite-state model consistent with them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostic logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a run configuration YAML file")

	cmd.AddCommand(NewMineCommand(opts))
	cmd.AddCommand(NewRefineCommand(opts))
	cmd.AddCommand(NewCoarsenCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// addInputFlags registers the trace-input flag surface shared by mine,
// refine, coarsen, and run, grounded on the Java main.Main CLI's
// input/relation argument handling (SPEC_FULL.md §4).
func addInputFlags(cmd *cobra.Command, opts *InputOptions) {
	cmd.Flags().StringVar(&opts.Path, "input", "-", "trace input file (- for stdin)")
	cmd.Flags().StringVar(&opts.SQLiteDB, "db", "", "read traces from a SQLite database instead of --input")
	cmd.Flags().StringVar(&opts.EventPattern, "event-pattern", "", "regex with a named \"type\" capture group (default: first whitespace-delimited token)")
	cmd.Flags().StringVar(&opts.SeparatorRE, "separator", "", "regex marking a trace boundary (default: blank lines only)")
	cmd.Flags().StringArrayVar(&opts.Relations, "relation", nil, "declare an auxiliary relation to keep (repeatable); omit to keep all")
	cmd.Flags().String("time-relation", "t", "name of the time relation (fsminfer only supports \"t\")")
}

func resolveTimeRelation(cmd *cobra.Command) error {
	tr, _ := cmd.Flags().GetString("time-relation")
	if tr != "" && tr != "t" {
		return fmt.Errorf("--time-relation: only \"t\" is supported")
	}
	return nil
}

// newLogger builds the *slog.Logger a command passes down into the
// orchestrator, writing to the command's stderr so stdout stays reserved
// for --format json output.
func newLogger(opts *RootOptions, cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

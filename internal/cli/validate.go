package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fsminfer/fsminfer/internal/config"
)

// NewValidateCommand creates the validate subcommand: load and schema-check
// a configuration file without running the engine, the way the teacher's
// validate command checks specs without compiling them.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <config-file>",
		Short:         "Validate a run configuration file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			_, err := config.Load(args[0])
			if err != nil {
				var loadErr *config.LoadError
				code, msg := "E000", err.Error()
				if errors.As(err, &loadErr) {
					code, msg = loadErr.Code, loadErr.Message
				}
				if f.Format == "json" {
					_ = f.Success(Response{
						Status: "error",
						Valid:  BoolPtr(false),
						Error:  &RespError{Code: code, Message: msg},
					})
				} else {
					fmt.Fprintf(f.Writer, "invalid: [%s] %s\n", code, msg)
				}
				return NewExitError(ExitFailure, fmt.Sprintf("config invalid: %s", msg))
			}

			if f.Format == "json" {
				return f.Success(Response{Valid: BoolPtr(true)})
			}
			fmt.Fprintln(f.Writer, "config valid")
			return nil
		},
	}
	return cmd
}

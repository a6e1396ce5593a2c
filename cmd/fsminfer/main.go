// Command fsminfer mines temporal invariants from event traces and builds
// a minimized finite-state model consistent with them.
package main

import (
	"fmt"
	"os"

	"github.com/fsminfer/fsminfer/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	noColor   bool
}

var flags rootFlags

// newRootCmd creates the top-level "rillc" command with global flags and
// all subcommands registered.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rillc",
		Short: "Coherence checker for built-in capability implementations",
		Long: "rillc validates user-written implementations of the built-in\n" +
			"capabilities (destructors, bitwise copy, pointer widening and\n" +
			"dyn-dispatch conversion) against a session manifest.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .rillc)")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newVersionCmd())

	return root
}

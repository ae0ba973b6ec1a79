package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridable at link time.
var version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rillc version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rillc %s\n", version)
		},
	}
}

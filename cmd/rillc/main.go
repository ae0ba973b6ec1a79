// Package main provides rillc, the coherence checker for built-in
// capability implementations.
package main

import (
	"fmt"
	"os"
)

// Exit codes.
const (
	exitClean    = 0
	exitDiags    = 1
	exitFatal    = 2
	exitUsageErr = 3
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitUsageErr)
	}
}

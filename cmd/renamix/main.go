// Package main provides the CLI entry point for renamix.
package main

import (
	"fmt"
	"os"

	"renamix/cmd/renamix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}

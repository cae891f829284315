// Package main provides the entry point for the research CLI.
package main

import (
	"fmt"
	"os"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package main provides the CLI for the Styx navigation descriptor.
package main

import (
	"os"

	"github.com/styx11/styx/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

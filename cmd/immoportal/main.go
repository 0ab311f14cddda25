// Package main is the entry point for the immoportal server.
package main

import (
	"fmt"
	"os"

	"immoportal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// Package main provides the schemalint CLI.
package main

import (
	"os"

	"github.com/schemalint/schemalint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the lql command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/lql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

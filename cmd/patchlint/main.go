package main

import (
	"os"

	"github.com/patchtools/patchlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

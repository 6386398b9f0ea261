package main

import (
	"os"

	"github.com/metaed-lang/metaed/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

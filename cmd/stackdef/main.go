package main

import (
	"os"

	"github.com/objectstack-ai/stackdef/internal/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

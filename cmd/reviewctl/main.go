package main

import (
	"os"

	"github.com/agentic-dev/reviewctl/internal/cli"
	"github.com/agentic-dev/reviewctl/internal/logging"
)

// main is the entry point for the reviewctl CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

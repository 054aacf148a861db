// ABOUTME: Main entry point for the knowledge CLI
// ABOUTME: Sets up the Cobra root command and executes it
package main

import (
	"os"

	"github.com/harper/knowledge-agent/cmd/knowledge/commands"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

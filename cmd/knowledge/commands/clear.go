// ABOUTME: CLI command to clear a session's knowledge base
// ABOUTME: Removes every record for the session, other sessions are untouched
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClearCmd creates the clear command
func NewClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the session's knowledge base",
		Long: `Remove all ingested records for the session.

The session identifier itself remains usable; ingesting again starts
from an empty index. Other sessions are unaffected.`,
		RunE: runClear,
	}
}

func runClear(cmd *cobra.Command, args []string) error {
	service, store, err := newService(false)
	if err != nil {
		return fail(cmd, err)
	}
	defer func() { _ = store.Close() }()

	if err := service.Clear(sessionID); err != nil {
		return fail(cmd, err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Knowledge base cleared.")
	}
	return nil
}

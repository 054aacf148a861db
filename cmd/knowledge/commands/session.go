// ABOUTME: CLI command for session bookkeeping
// ABOUTME: Generates opaque session identifiers for isolated knowledge bases
package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSessionCmd creates the session command group
func NewSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage session identifiers",
		Long: `Manage session identifiers.

Every session owns an isolated knowledge base. Use 'session new' to
mint a fresh identifier and pass it to other commands via --session.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Generate a new session identifier",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), uuid.New().String())
		},
	})

	return cmd
}

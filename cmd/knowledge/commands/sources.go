// ABOUTME: CLI command to list ingested sources for a session
// ABOUTME: Prints sorted "name (type)" labels or a JSON array
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewSourcesCmd creates the sources command
func NewSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List ingested sources",
		Long: `List the sources ingested into the session's knowledge base.

Examples:
  knowledge sources
  knowledge --session research sources
  knowledge sources --format json`,
		RunE: runSources,
	}
}

func runSources(cmd *cobra.Command, args []string) error {
	service, store, err := newService(false)
	if err != nil {
		return fail(cmd, err)
	}
	defer func() { _ = store.Close() }()

	sources, err := service.ListSources(sessionID)
	if err != nil {
		return fail(cmd, err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(sources, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(sources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sources ingested yet.")
		return nil
	}

	for _, src := range sources {
		fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", src)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d source(s) in session %q\n", len(sources), sessionID)
	}
	return nil
}

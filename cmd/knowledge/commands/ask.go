// ABOUTME: CLI command to ask a question against the knowledge base
// ABOUTME: Prints the answer followed by its citation block
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var askTopK int

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the knowledge base",
		Long: `Ask a question against the session's knowledge base.

The question is embedded, the most similar chunks are retrieved, and a
chat model answers from that context with bracket citations.

Examples:
  knowledge ask "What does the paper conclude?"
  knowledge ask --top-k 8 "Summarize the main argument"
  knowledge ask --format json "What color is the sky?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 4, "Number of chunks to retrieve")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(askTopK, "top-k"); err != nil {
		return fail(cmd, err)
	}

	service, store, err := newService(true)
	if err != nil {
		return fail(cmd, err)
	}
	defer func() { _ = store.Close() }()

	answer, err := service.Answer(cmd.Context(), sessionID, args[0], askTopK)
	if err != nil {
		return fail(cmd, err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nSources:\n%s\n", answer.CitationBlock())
	}
	return nil
}

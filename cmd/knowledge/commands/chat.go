// ABOUTME: CLI command that opens the interactive chat view
// ABOUTME: Question-answer loop over the session's knowledge base
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/knowledge-agent/internal/tui"
)

var chatTopK int

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive question answering",
		Long: `Open an interactive chat view over the session's knowledge base.

Each question is answered from the most similar ingested chunks, with
citations listed under the answer. Press Esc or Ctrl+C to exit.`,
		RunE: runChat,
	}

	cmd.Flags().IntVar(&chatTopK, "top-k", 4, "Number of chunks to retrieve per question")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(chatTopK, "top-k"); err != nil {
		return fail(cmd, err)
	}

	service, store, err := newService(true)
	if err != nil {
		return fail(cmd, err)
	}
	defer func() { _ = store.Close() }()

	return tui.Run(service, sessionID, chatTopK)
}

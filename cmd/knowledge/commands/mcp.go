// ABOUTME: MCP command starts a Model Context Protocol server
// ABOUTME: Exposes the knowledge base tools to LLM agents via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/knowledge-agent/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start an MCP (Model Context Protocol) server on stdio.

Exposes ingest_text, ask_question, list_sources, and
clear_knowledge_base so LLM agents can manage knowledge bases.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by an agent host)
  knowledge mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "knowledge": {
  #       "command": "knowledge",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Println("Warning: OPENAI_API_KEY not set - ingestion and answering will fail")
	}

	service, store, err := newService(os.Getenv("OPENAI_API_KEY") != "")
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer func() { _ = store.Close() }()

	server := mcpserver.NewMCPServer(
		"Knowledge Agent",
		versionInfo.Version,
		mcpserver.WithRecovery(),
	)
	mcp.RegisterTools(server, service)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("Knowledge Agent MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

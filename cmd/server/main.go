// ABOUTME: Standalone MCP server binary with stdio transport
// ABOUTME: Initializes the pipeline and registers knowledge base tools
package main

import (
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/knowledge-agent/internal/chunker"
	"github.com/harper/knowledge-agent/internal/config"
	"github.com/harper/knowledge-agent/internal/core"
	"github.com/harper/knowledge-agent/internal/llm"
	"github.com/harper/knowledge-agent/internal/mcp"
	"github.com/harper/knowledge-agent/internal/storage"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set - ingestion and answering require it")
	}

	dbPath := storage.DefaultDBPath()
	if cfg.DataDir != "" {
		dbPath = filepath.Join(cfg.DataDir, "knowledge.db")
	}
	store, err := storage.NewStoreWithPath(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	splitter, err := chunker.New(cfg.ChunkTokens, cfg.OverlapTokens)
	if err != nil {
		log.Fatalf("Failed to configure chunker: %v", err)
	}

	client, err := llm.NewClientFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	service := core.NewService(splitter, client, client, store)

	server := mcpserver.NewMCPServer(
		"Knowledge Agent",
		"0.1.0",
		mcpserver.WithRecovery(),
	)
	mcp.RegisterTools(server, service)

	log.Println("Knowledge Agent MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

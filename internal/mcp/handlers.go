// ABOUTME: MCP tool handler implementations for the knowledge agent
// ABOUTME: Converts typed pipeline errors into marker-prefixed tool results
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/knowledge-agent/internal/core"
	"github.com/harper/knowledge-agent/internal/models"
)

// DefaultSession is used when a tool call omits session_id
const DefaultSession = "default"

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service *core.Service
}

// IngestText handles the ingest_text tool
func (h *Handlers) IngestText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceName, err := request.RequireString("source_name")
	if err != nil {
		return mcp.NewToolResultError("source_name argument is required and must be a string"), nil
	}
	rawType, err := request.RequireString("source_type")
	if err != nil {
		return mcp.NewToolResultError("source_type argument is required and must be a string"), nil
	}
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", DefaultSession)

	sourceType, err := models.ParseSourceType(rawType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("✗ Ingest failed: %v", err)), nil
	}

	count, err := h.service.Ingest(ctx, sessionID, sourceName, sourceType, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("✗ Ingest failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✓ Ingested %d chunks from %s (%s).", count, sourceName, sourceType)), nil
}

// AskQuestion handles the ask_question tool
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", DefaultSession)
	topK := request.GetInt("top_k", core.DefaultTopK)

	answer, err := h.service.Answer(ctx, sessionID, question, topK)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("✗ Question answering failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(answer.Text)
	sb.WriteString("\n\nSources:\n")
	sb.WriteString(answer.CitationBlock())

	return mcp.NewToolResultText(sb.String()), nil
}

// ListSources handles the list_sources tool
func (h *Handlers) ListSources(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", DefaultSession)

	sources, err := h.service.ListSources(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("✗ Listing sources failed: %v", err)), nil
	}

	if len(sources) == 0 {
		return mcp.NewToolResultText("No sources ingested yet."), nil
	}

	lines := make([]string, len(sources))
	for i, src := range sources {
		lines[i] = "- " + src
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// ClearKnowledgeBase handles the clear_knowledge_base tool
func (h *Handlers) ClearKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", DefaultSession)

	if err := h.service.Clear(sessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("✗ Failed to clear knowledge base: %v", err)), nil
	}

	return mcp.NewToolResultText("✓ Knowledge base cleared."), nil
}

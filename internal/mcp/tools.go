// ABOUTME: MCP tool definitions and registration for the knowledge agent
// ABOUTME: Exposes ingest_text, ask_question, list_sources, clear_knowledge_base
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/knowledge-agent/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, service *core.Service) *Handlers {
	handlers := &Handlers{service: service}

	// 1. ingest_text - Add extracted source text to a session's knowledge base
	server.AddTool(mcp.Tool{
		Name:        "ingest_text",
		Description: "Ingest extracted plain text into the session's knowledge base. The text is chunked, embedded, and stored for retrieval.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier (defaults to 'default')",
				},
				"source_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the source, e.g. a URL or file name",
				},
				"source_type": map[string]interface{}{
					"type":        "string",
					"description": "Source type: web, youtube, pdf, docx, or txt",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Extracted plain text to ingest",
				},
			},
			Required: []string{"source_name", "source_type", "text"},
		},
	}, handlers.IngestText)

	// 2. ask_question - Answer a question from the session's knowledge base
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question using the most similar ingested chunks, with bracket citations back to their sources.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier (defaults to 'default')",
				},
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to retrieve (default: 4)",
					"default":     core.DefaultTopK,
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 3. list_sources - List ingested sources for a session
	server.AddTool(mcp.Tool{
		Name:        "list_sources",
		Description: "List the sources ingested into the session's knowledge base as 'name (type)' labels.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier (defaults to 'default')",
				},
			},
		},
	}, handlers.ListSources)

	// 4. clear_knowledge_base - Remove all records for a session
	server.AddTool(mcp.Tool{
		Name:        "clear_knowledge_base",
		Description: "Clear the session's knowledge base. Other sessions are unaffected.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session identifier (defaults to 'default')",
				},
			},
		},
	}, handlers.ClearKnowledgeBase)

	return handlers
}

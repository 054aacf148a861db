// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Service construction, flag validation, and friendly error text
package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/knowledge-agent/internal/chunker"
	"github.com/harper/knowledge-agent/internal/config"
	"github.com/harper/knowledge-agent/internal/core"
	"github.com/harper/knowledge-agent/internal/llm"
	"github.com/harper/knowledge-agent/internal/models"
	"github.com/harper/knowledge-agent/internal/storage"
)

// newService builds the pipeline from config. When requireOpenAI is false
// the embedder and completer are left nil, which is enough for sources and
// clear. The caller must Close the returned store.
func newService(requireOpenAI bool) (*core.Service, *storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := storage.DefaultDBPath()
	if cfg.DataDir != "" {
		dbPath = filepath.Join(cfg.DataDir, "knowledge.db")
	}
	store, err := storage.NewStoreWithPath(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}

	splitter, err := chunker.New(cfg.ChunkTokens, cfg.OverlapTokens)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("configuring chunker: %w", err)
	}

	var client *llm.Client
	if requireOpenAI {
		if cfg.OpenAIKey == "" {
			_ = store.Close()
			return nil, nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		client, err = llm.NewClientFromConfig(cfg)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("initializing OpenAI client: %w", err)
		}
	}

	if client != nil {
		return core.NewService(splitter, client, client, store), store, nil
	}
	return core.NewService(splitter, nil, nil, store), store, nil
}

// validatePositiveInt rejects zero or negative flag values
func validatePositiveInt(value int, name string) error {
	if value <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", name, value)
	}
	return nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// userMessage maps typed pipeline errors to the text shown after "✗"
func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyInput):
		return "Nothing to ingest: the input is empty."
	case errors.Is(err, models.ErrNoChunksProduced):
		return "No chunks could be created from this source."
	case errors.Is(err, models.ErrUnsupportedSourceType):
		return err.Error()
	case errors.Is(err, models.ErrEmptyKnowledgeBase):
		return "No content has been ingested yet. Ingest a source first."
	case errors.Is(err, models.ErrEmbeddingService):
		return fmt.Sprintf("Embedding service failed: %v", err)
	case errors.Is(err, models.ErrAnswerService):
		return fmt.Sprintf("Chat service failed: %v", err)
	case errors.Is(err, models.ErrDimensionMismatch):
		return fmt.Sprintf("Index rejected the embeddings: %v", err)
	default:
		return err.Error()
	}
}

// fail prints a failure marker line and returns the error for the exit code
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", userMessage(err))
	return err
}

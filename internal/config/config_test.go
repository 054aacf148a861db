// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Covers defaults, overrides, and validation failures
package config

import (
	"strings"
	"testing"
	"time"
)

func clearKnowledgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY",
		"KNOWLEDGE_OPENAI_MODEL",
		"KNOWLEDGE_EMBEDDING_MODEL",
		"OPENAI_TIMEOUT",
		"KNOWLEDGE_CHUNK_TOKENS",
		"KNOWLEDGE_CHUNK_OVERLAP",
		"KNOWLEDGE_TOP_K",
		"KNOWLEDGE_DATA_DIR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearKnowledgeEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.ChunkTokens != 1000 {
		t.Errorf("ChunkTokens = %d, want 1000", cfg.ChunkTokens)
	}
	if cfg.OverlapTokens != 150 {
		t.Errorf("OverlapTokens = %d, want 150", cfg.OverlapTokens)
	}
	if cfg.TopK != 4 {
		t.Errorf("TopK = %d, want 4", cfg.TopK)
	}
	if cfg.OpenAIKey != "" {
		t.Errorf("OpenAIKey = %q, want empty", cfg.OpenAIKey)
	}
	if cfg.DataDir != "" {
		t.Errorf("DataDir = %q, want empty", cfg.DataDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearKnowledgeEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("KNOWLEDGE_OPENAI_MODEL", "gpt-4o")
	t.Setenv("KNOWLEDGE_EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("OPENAI_TIMEOUT", "90s")
	t.Setenv("KNOWLEDGE_CHUNK_TOKENS", "500")
	t.Setenv("KNOWLEDGE_CHUNK_OVERLAP", "50")
	t.Setenv("KNOWLEDGE_TOP_K", "8")
	t.Setenv("KNOWLEDGE_DATA_DIR", "/tmp/kb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q", cfg.OpenAIKey)
	}
	if cfg.ChatModel != "gpt-4o" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.ChunkTokens != 500 {
		t.Errorf("ChunkTokens = %d", cfg.ChunkTokens)
	}
	if cfg.OverlapTokens != 50 {
		t.Errorf("OverlapTokens = %d", cfg.OverlapTokens)
	}
	if cfg.TopK != 8 {
		t.Errorf("TopK = %d", cfg.TopK)
	}
	if cfg.DataDir != "/tmp/kb" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
}

func TestLoad_MalformedValuesFallBackToDefaults(t *testing.T) {
	clearKnowledgeEnv(t)
	t.Setenv("KNOWLEDGE_CHUNK_TOKENS", "not-a-number")
	t.Setenv("OPENAI_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkTokens != 1000 {
		t.Errorf("ChunkTokens = %d, want default 1000", cfg.ChunkTokens)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want default 30s", cfg.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero chunk tokens", func(c *Config) { c.ChunkTokens = 0 }, "KNOWLEDGE_CHUNK_TOKENS"},
		{"negative overlap", func(c *Config) { c.OverlapTokens = -1 }, "KNOWLEDGE_CHUNK_OVERLAP"},
		{"overlap >= chunk", func(c *Config) { c.ChunkTokens = 100; c.OverlapTokens = 100 }, "KNOWLEDGE_CHUNK_OVERLAP"},
		{"zero top k", func(c *Config) { c.TopK = 0 }, "KNOWLEDGE_TOP_K"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "OPENAI_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ChatModel:      "gpt-4o-mini",
				EmbeddingModel: "text-embedding-3-small",
				Timeout:        30 * time.Second,
				ChunkTokens:    1000,
				OverlapTokens:  150,
				TopK:           4,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	clearKnowledgeEnv(t)
	t.Setenv("KNOWLEDGE_CHUNK_TOKENS", "100")
	t.Setenv("KNOWLEDGE_CHUNK_OVERLAP", "200")

	if _, err := Load(); err == nil {
		t.Error("Load() with overlap > chunk size should fail validation")
	}
}

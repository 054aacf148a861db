// ABOUTME: Centralized configuration for the knowledge agent
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the knowledge agent
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration

	// Chunking settings
	ChunkTokens   int
	OverlapTokens int

	// Retrieval settings
	TopK int

	// Storage settings
	DataDir string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("KNOWLEDGE_OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("KNOWLEDGE_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		ChunkTokens:    getEnvInt("KNOWLEDGE_CHUNK_TOKENS", 1000),
		OverlapTokens:  getEnvInt("KNOWLEDGE_CHUNK_OVERLAP", 150),
		TopK:           getEnvInt("KNOWLEDGE_TOP_K", 4),
		DataDir:        os.Getenv("KNOWLEDGE_DATA_DIR"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkTokens <= 0 {
		return fmt.Errorf("KNOWLEDGE_CHUNK_TOKENS must be positive, got %d", c.ChunkTokens)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("KNOWLEDGE_CHUNK_OVERLAP must be non-negative, got %d", c.OverlapTokens)
	}
	if c.OverlapTokens >= c.ChunkTokens {
		return fmt.Errorf("KNOWLEDGE_CHUNK_OVERLAP (%d) must be smaller than KNOWLEDGE_CHUNK_TOKENS (%d)", c.OverlapTokens, c.ChunkTokens)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("KNOWLEDGE_TOP_K must be positive, got %d", c.TopK)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

// ABOUTME: OpenAI client for batched embeddings and grounded chat completions
// ABOUTME: Single attempt per call with a fixed timeout, failures map to typed errors
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/knowledge-agent/internal/config"
	"github.com/harper/knowledge-agent/internal/models"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultTimeout bounds each API round-trip
	DefaultTimeout = 30 * time.Second

	// answerTemperature keeps completions near-deterministic
	answerTemperature = 0.2
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string // overridden in tests, empty means api.openai.com
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
}

// Client wraps the OpenAI API for embeddings and chat completions
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
}

// NewClientFromConfig creates a client honoring the application
// configuration: API key, models, and timeout
func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
	})
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		client:         openai.NewClientWithConfig(apiConfig),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        timeout,
	}, nil
}

// EmbedBatch embeds all texts in one request. Output vectors correspond
// positionally to the inputs. An empty input returns an empty slice without
// any network call. There are no partial results: any failure returns an
// error wrapping models.ErrEmbeddingService.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingService, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", models.ErrEmbeddingService, len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vector := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vector[j] = float64(v)
		}
		vectors[i] = vector
	}

	return vectors, nil
}

// Complete sends one chat completion with a system and user message at low
// temperature and returns the model's text. Failures wrap models.ErrAnswerService.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrAnswerService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", models.ErrAnswerService)
	}

	return resp.Choices[0].Message.Content, nil
}

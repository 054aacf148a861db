// ABOUTME: Sliding token-window text splitter with overlap
// ABOUTME: Deterministic whitespace tokenization, same input always yields same chunks
package chunker

import (
	"fmt"
	"strings"

	"github.com/harper/knowledge-agent/internal/models"
)

const (
	// DefaultChunkTokens is the default window width in tokens
	DefaultChunkTokens = 1000
	// DefaultOverlapTokens is the default overlap between consecutive windows
	DefaultOverlapTokens = 150
)

// Splitter splits text into overlapping fixed-size token windows
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a Splitter. chunkSize must be positive and overlap non-negative.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split slides a window of chunkSize tokens over the text with step
// max(chunkSize-overlap, 1), so progress is guaranteed even when
// overlap >= chunkSize. The final partial window is included. Every
// non-whitespace token of the input appears in at least one chunk.
func (s *Splitter) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrEmptyInput
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, nil
	}

	step := s.chunkSize - s.overlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(tokens); start += step {
		end := start + s.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunk := strings.TrimSpace(decode(tokens[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(tokens) {
			break
		}
	}

	return chunks, nil
}

// tokenize splits text into whitespace-delimited word tokens
func tokenize(text string) []string {
	return strings.Fields(text)
}

// decode joins tokens back into text with single spaces
func decode(tokens []string) string {
	return strings.Join(tokens, " ")
}

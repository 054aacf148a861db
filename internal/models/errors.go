// ABOUTME: Typed error taxonomy for ingestion and retrieval
// ABOUTME: Sentinel errors matched with errors.Is at presentation boundaries
package models

import "errors"

var (
	// ErrEmptyInput means there was nothing to ingest or ask
	ErrEmptyInput = errors.New("empty input")

	// ErrNoChunksProduced means tokenization yielded no usable chunks
	ErrNoChunksProduced = errors.New("no chunks produced")

	// ErrDimensionMismatch means an embedding's width differs from the index
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingService wraps failures of the embedding API
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrAnswerService wraps failures of the chat completion API
	ErrAnswerService = errors.New("answer service error")

	// ErrEmptyKnowledgeBase means a question was asked before any ingestion
	ErrEmptyKnowledgeBase = errors.New("knowledge base is empty")

	// ErrUnsupportedSourceType means a file or tag outside the fixed vocabulary
	ErrUnsupportedSourceType = errors.New("unsupported source type")
)

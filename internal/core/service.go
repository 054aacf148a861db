// ABOUTME: Service orchestrates ingestion (chunk, embed, store) and answering
// ABOUTME: (embed, retrieve, prompt, complete) over per-session vector indexes
package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harper/knowledge-agent/internal/chunker"
	"github.com/harper/knowledge-agent/internal/models"
)

// DefaultTopK is the default number of chunks retrieved per question
const DefaultTopK = 4

const (
	systemPrompt   = "Answer using only provided context and cite sources."
	fallbackAnswer = "I couldn't find relevant information in the current knowledge base."
	emptyAnswer    = "No answer returned."
)

// Embedder converts texts into fixed-width vectors via an external service
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Completer produces a chat completion from a system and user message
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Index is a per-session persistent vector index
type Index interface {
	Add(sessionID string, records []models.Record) error
	Search(sessionID string, queryVector []float64, topK int) ([]models.SearchResult, error)
	Count(sessionID string) (int, error)
	ListMetadata(sessionID string) ([]models.Metadata, error)
	Clear(sessionID string) error
}

// Service is the retrieval pipeline core
type Service struct {
	splitter  *chunker.Splitter
	embedder  Embedder
	completer Completer
	index     Index

	// Ingestion is serialized per session so count-based record IDs
	// never collide under concurrent ingestions.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// NewService creates a Service from its collaborators
func NewService(splitter *chunker.Splitter, embedder Embedder, completer Completer, index Index) *Service {
	return &Service{
		splitter:     splitter,
		embedder:     embedder,
		completer:    completer,
		index:        index,
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sessionLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[sessionID] = lock
	}
	return lock
}

// Ingest chunks, embeds, and stores source text in one all-or-nothing batch.
// Record IDs continue from the session's current count; metadata carries the
// source name, source type, and the chunk's position within this ingestion.
// Returns the number of chunks stored.
func (s *Service) Ingest(ctx context.Context, sessionID, sourceName string, sourceType models.SourceType, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: loaded content is empty and cannot be ingested", models.ErrEmptyInput)
	}
	if s.embedder == nil {
		return 0, fmt.Errorf("%w: embedding client is not configured (set OPENAI_API_KEY)", models.ErrEmbeddingService)
	}

	chunks, err := s.splitter.Split(text)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: no chunks were created from this source", models.ErrNoChunksProduced)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d vectors for %d chunks", models.ErrEmbeddingService, len(vectors), len(chunks))
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	base, err := s.index.Count(sessionID)
	if err != nil {
		return 0, err
	}

	records := make([]models.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = models.Record{
			ID:      fmt.Sprintf("doc_%d", base+i),
			Content: chunk,
			Vector:  vectors[i],
			Meta: models.Metadata{
				Source:     sourceName,
				SourceType: sourceType,
				ChunkIndex: i,
			},
		}
	}

	if err := s.index.Add(sessionID, records); err != nil {
		return 0, err
	}

	return len(records), nil
}

// Answer retrieves the topK chunks most similar to the question and asks the
// chat model to answer from them with bracket citations. The citation list
// always reflects retrieval rank order, whether or not the model used every
// label. topK <= 0 falls back to DefaultTopK.
func (s *Service) Answer(ctx context.Context, sessionID, question string, topK int) (*models.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", models.ErrEmptyInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: embedding client is not configured (set OPENAI_API_KEY)", models.ErrEmbeddingService)
	}
	if s.completer == nil {
		return nil, fmt.Errorf("%w: chat client is not configured (set OPENAI_API_KEY)", models.ErrAnswerService)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	count, err := s.index.Count(sessionID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no content has been ingested yet", models.ErrEmptyKnowledgeBase)
	}

	queryVectors, err := s.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(queryVectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for the question", models.ErrEmbeddingService, len(queryVectors))
	}

	results, err := s.index.Search(sessionID, queryVectors[0], topK)
	if err != nil {
		return nil, err
	}

	// Defined terminal response, not an error
	if len(results) == 0 {
		return &models.Answer{Text: fallbackAnswer, Citations: []string{}}, nil
	}

	citations := make([]string, len(results))
	contextParts := make([]string, len(results))
	for i, result := range results {
		label := models.CitationLabel(i+1, result.Meta)
		citations[i] = label
		contextParts[i] = label + "\n" + result.Content
	}

	userPrompt := fmt.Sprintf(
		"You are a helpful assistant answering from provided context only. "+
			"If answer is missing, say you don't know. "+
			"Include bracket citations like [1], [2].\n\n"+
			"Question:\n%s\n\nContext:\n%s",
		question, strings.Join(contextParts, "\n\n"))

	answer, err := s.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		answer = emptyAnswer
	}

	return &models.Answer{Text: answer, Citations: citations}, nil
}

// ListSources returns the sorted unique "name (type)" labels of a session
func (s *Service) ListSources(sessionID string) ([]string, error) {
	metadatas, err := s.index.ListMetadata(sessionID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	labels := []string{}
	for _, meta := range metadatas {
		label := meta.Label()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	return labels, nil
}

// Clear empties a session's index. Idempotent.
func (s *Service) Clear(sessionID string) error {
	return s.index.Clear(sessionID)
}

// Count returns the number of records stored for a session
func (s *Service) Count(sessionID string) (int, error) {
	return s.index.Count(sessionID)
}

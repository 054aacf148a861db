// ABOUTME: Tests for the ingestion and answering pipeline
// ABOUTME: Uses deterministic fake embedders and completers over a real in-memory index
package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/harper/knowledge-agent/internal/chunker"
	"github.com/harper/knowledge-agent/internal/models"
	"github.com/harper/knowledge-agent/internal/storage"
)

// fakeEmbedder hashes each text into a small deterministic vector.
type fakeEmbedder struct {
	calls int
	err   error
	short bool // return one vector fewer than requested
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		var sum float64
		for _, r := range text {
			sum += float64(r)
		}
		vectors[i] = []float64{sum, float64(len(text)), 1}
	}
	if f.short && len(vectors) > 0 {
		vectors = vectors[:len(vectors)-1]
	}
	return vectors, nil
}

// fakeCompleter records the prompts and returns a canned answer.
type fakeCompleter struct {
	systemPrompt string
	userPrompt   string
	response     string
	err          error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.systemPrompt = systemPrompt
	f.userPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(t *testing.T, embedder Embedder, completer Completer) *Service {
	t.Helper()
	store, err := storage.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.New(1000, 150)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}

	return NewService(splitter, embedder, completer, store)
}

func TestIngest_SingleDocument(t *testing.T) {
	embedder := &fakeEmbedder{}
	service := newTestService(t, embedder, &fakeCompleter{response: "ok"})

	count, err := service.Ingest(context.Background(), "s1", "doc1", models.SourceTXT, "The sky is blue. Grass is green.")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Ingest() = %d chunks, want 1", count)
	}

	stored, err := service.Count("s1")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if stored != 1 {
		t.Errorf("Count() = %d, want 1", stored)
	}
}

func TestIngest_EmptyInput(t *testing.T) {
	embedder := &fakeEmbedder{}
	service := newTestService(t, embedder, &fakeCompleter{})

	for _, text := range []string{"", "   \n\t "} {
		_, err := service.Ingest(context.Background(), "s1", "doc1", models.SourceTXT, text)
		if !errors.Is(err, models.ErrEmptyInput) {
			t.Errorf("Ingest(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}

	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for empty input, want 0", embedder.calls)
	}
	count, _ := service.Count("s1")
	if count != 0 {
		t.Errorf("Count() = %d after rejected ingests, want 0", count)
	}
}

func TestIngest_EmbedderFailureStoresNothing(t *testing.T) {
	embedder := &fakeEmbedder{err: fmt.Errorf("%w: upstream down", models.ErrEmbeddingService)}
	service := newTestService(t, embedder, &fakeCompleter{})

	_, err := service.Ingest(context.Background(), "s1", "doc1", models.SourceTXT, "some text")
	if !errors.Is(err, models.ErrEmbeddingService) {
		t.Fatalf("Ingest() error = %v, want ErrEmbeddingService", err)
	}

	count, _ := service.Count("s1")
	if count != 0 {
		t.Errorf("Count() = %d after failed ingest, want 0", count)
	}
}

func TestIngest_VectorCountMismatch(t *testing.T) {
	embedder := &fakeEmbedder{short: true}
	service := newTestService(t, embedder, &fakeCompleter{})

	_, err := service.Ingest(context.Background(), "s1", "doc1", models.SourceTXT, "some text")
	if !errors.Is(err, models.ErrEmbeddingService) {
		t.Errorf("Ingest() error = %v, want ErrEmbeddingService", err)
	}
}

func TestIngest_SequentialIDs(t *testing.T) {
	embedder := &fakeEmbedder{}
	service := newTestService(t, embedder, &fakeCompleter{})
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "first document"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if _, err := service.Ingest(ctx, "s1", "doc2", models.SourceWeb, "second document"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	count, err := service.Count("s1")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}

func TestIngest_ConcurrentSameSession(t *testing.T) {
	embedder := &fakeEmbedder{}
	service := newTestService(t, embedder, &fakeCompleter{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Ingest(ctx, "shared", fmt.Sprintf("doc%d", i), models.SourceTXT, fmt.Sprintf("text number %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Ingest() error = %v", err)
		}
	}

	count, err := service.Count("shared")
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 10 {
		t.Errorf("Count() = %d after 10 concurrent ingests, want 10", count)
	}
}

func TestService_NilClientsReturnTypedErrors(t *testing.T) {
	// sources and clear run without an API key, so a service can exist
	// with no embedder or completer; ingest and answer must fail cleanly
	store, err := storage.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.New(1000, 150)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}

	service := NewService(splitter, nil, nil, store)
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "some text"); !errors.Is(err, models.ErrEmbeddingService) {
		t.Errorf("Ingest() with nil embedder error = %v, want ErrEmbeddingService", err)
	}

	if _, err := service.Answer(ctx, "s1", "question?", 4); !errors.Is(err, models.ErrEmbeddingService) {
		t.Errorf("Answer() with nil embedder error = %v, want ErrEmbeddingService", err)
	}

	withEmbedder := NewService(splitter, &fakeEmbedder{}, nil, store)
	if _, err := withEmbedder.Answer(ctx, "s1", "question?", 4); !errors.Is(err, models.ErrAnswerService) {
		t.Errorf("Answer() with nil completer error = %v, want ErrAnswerService", err)
	}

	// Clear and ListSources stay available without clients
	if err := service.Clear("s1"); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	if _, err := service.ListSources("s1"); err != nil {
		t.Errorf("ListSources() error = %v", err)
	}
}

func TestAnswer_CitesRetrievedSource(t *testing.T) {
	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{response: "The sky is blue [1]."}
	service := newTestService(t, embedder, completer)
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "The sky is blue. Grass is green."); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	answer, err := service.Answer(ctx, "s1", "What color is the sky?", 4)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if answer.Text != "The sky is blue [1]." {
		t.Errorf("Answer text = %q", answer.Text)
	}
	wantCitations := []string{"[1] doc1 (txt)"}
	if !reflect.DeepEqual(answer.Citations, wantCitations) {
		t.Errorf("Citations = %v, want %v", answer.Citations, wantCitations)
	}

	if completer.systemPrompt != "Answer using only provided context and cite sources." {
		t.Errorf("system prompt = %q", completer.systemPrompt)
	}
	if !strings.Contains(completer.userPrompt, "Question:\nWhat color is the sky?") {
		t.Errorf("user prompt missing question section: %q", completer.userPrompt)
	}
	if !strings.Contains(completer.userPrompt, "[1] doc1 (txt)\nThe sky is blue. Grass is green.") {
		t.Errorf("user prompt missing labeled context: %q", completer.userPrompt)
	}
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	service := newTestService(t, &fakeEmbedder{}, &fakeCompleter{})

	_, err := service.Answer(context.Background(), "s1", "   ", 4)
	if !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("Answer() error = %v, want ErrEmptyInput", err)
	}
}

func TestAnswer_EmptyKnowledgeBase(t *testing.T) {
	service := newTestService(t, &fakeEmbedder{}, &fakeCompleter{})

	_, err := service.Answer(context.Background(), "s1", "anything?", 4)
	if !errors.Is(err, models.ErrEmptyKnowledgeBase) {
		t.Errorf("Answer() error = %v, want ErrEmptyKnowledgeBase", err)
	}
}

func TestAnswer_DefaultTopK(t *testing.T) {
	embedder := &fakeEmbedder{}
	completer := &fakeCompleter{response: "answer"}
	service := newTestService(t, embedder, completer)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := service.Ingest(ctx, "s1", fmt.Sprintf("doc%d", i), models.SourceTXT, fmt.Sprintf("document body %d", i)); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	answer, err := service.Answer(ctx, "s1", "question?", 0)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if len(answer.Citations) != DefaultTopK {
		t.Errorf("got %d citations with topK=0, want %d", len(answer.Citations), DefaultTopK)
	}
}

// emptySearchIndex wraps a real index but returns no search results,
// exercising the fallback answer path.
type emptySearchIndex struct {
	Index
}

func (e *emptySearchIndex) Search(sessionID string, queryVector []float64, topK int) ([]models.SearchResult, error) {
	return []models.SearchResult{}, nil
}

func TestAnswer_NoResultsFallback(t *testing.T) {
	store, err := storage.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.New(1000, 150)
	if err != nil {
		t.Fatalf("chunker.New() error = %v", err)
	}

	completer := &fakeCompleter{response: "should not be called"}
	service := NewService(splitter, &fakeEmbedder{}, completer, &emptySearchIndex{Index: store})
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "some text"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	answer, err := service.Answer(ctx, "s1", "question?", 4)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Text != "I couldn't find relevant information in the current knowledge base." {
		t.Errorf("fallback text = %q", answer.Text)
	}
	if len(answer.Citations) != 0 {
		t.Errorf("fallback citations = %v, want empty", answer.Citations)
	}
	if completer.userPrompt != "" {
		t.Error("completer should not be called when retrieval is empty")
	}
}

func TestAnswer_CompleterFailure(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("%w: model unavailable", models.ErrAnswerService)}
	service := newTestService(t, &fakeEmbedder{}, completer)
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "some text"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	_, err := service.Answer(ctx, "s1", "question?", 4)
	if !errors.Is(err, models.ErrAnswerService) {
		t.Errorf("Answer() error = %v, want ErrAnswerService", err)
	}
}

func TestAnswer_EmptyCompletionText(t *testing.T) {
	completer := &fakeCompleter{response: ""}
	service := newTestService(t, &fakeEmbedder{}, completer)
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "some text"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	answer, err := service.Answer(ctx, "s1", "question?", 4)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Text != "No answer returned." {
		t.Errorf("Answer text = %q, want placeholder", answer.Text)
	}
	if len(answer.Citations) != 1 {
		t.Errorf("Citations = %v, want the retrieved source", answer.Citations)
	}
}

func TestListSources_SortedAndDeduped(t *testing.T) {
	service := newTestService(t, &fakeEmbedder{}, &fakeCompleter{})
	ctx := context.Background()

	ingests := []struct {
		name string
		typ  models.SourceType
	}{
		{"zebra.txt", models.SourceTXT},
		{"apple.txt", models.SourceTXT},
		{"apple.txt", models.SourceTXT}, // duplicate
		{"https://example.com", models.SourceWeb},
	}
	for _, in := range ingests {
		if _, err := service.Ingest(ctx, "s1", in.name, in.typ, "body for "+in.name); err != nil {
			t.Fatalf("Ingest() error = %v", err)
		}
	}

	labels, err := service.ListSources("s1")
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}

	want := []string{
		"apple.txt (txt)",
		"https://example.com (web)",
		"zebra.txt (txt)",
	}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("ListSources() = %v, want %v", labels, want)
	}
}

func TestListSources_Empty(t *testing.T) {
	service := newTestService(t, &fakeEmbedder{}, &fakeCompleter{})

	labels, err := service.ListSources("s1")
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("ListSources() = %v, want empty", labels)
	}
}

func TestClear_ThenAnswerFails(t *testing.T) {
	service := newTestService(t, &fakeEmbedder{}, &fakeCompleter{response: "x"})
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "s1", "doc1", models.SourceTXT, "some text"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if err := service.Clear("s1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	_, err := service.Answer(ctx, "s1", "question?", 4)
	if !errors.Is(err, models.ErrEmptyKnowledgeBase) {
		t.Errorf("Answer() after Clear error = %v, want ErrEmptyKnowledgeBase", err)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	service := newTestService(t, &fakeEmbedder{}, &fakeCompleter{response: "x"})
	ctx := context.Background()

	if _, err := service.Ingest(ctx, "alice", "doc1", models.SourceTXT, "alice's notes"); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	_, err := service.Answer(ctx, "bob", "question?", 4)
	if !errors.Is(err, models.ErrEmptyKnowledgeBase) {
		t.Errorf("Answer() in empty session error = %v, want ErrEmptyKnowledgeBase", err)
	}

	labels, err := service.ListSources("bob")
	if err != nil {
		t.Fatalf("ListSources() error = %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("ListSources(bob) = %v, want empty", labels)
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// QueryEmbedder embeds a single query string.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChunkSearcher performs nearest-neighbor lookup against the chunk store.
type ChunkSearcher interface {
	SearchNearest(ctx context.Context, embedding []float32, limit int) ([]domain.SearchResult, error)
}

// CompletionClient generates an answer from a system message and user prompt.
type CompletionClient interface {
	Complete(ctx context.Context, systemMessage, userMessage string) (string, error)
}

// DefaultSearchLimit is how many chunks a query retrieves when the caller
// does not say otherwise.
const DefaultSearchLimit = 3

const systemMessage = "You are a helpful AI assistant that provides accurate, " +
	"technical information about machine learning and AI."

const promptTemplate = `You are an AI assistant with access to technical publications about machine learning, AI, and data science.

Based on the following context from relevant publications, please answer the user's question. If the context doesn't contain enough information to fully answer the question, you can use your general knowledge but please indicate what information comes from the provided context vs. your general knowledge.

CONTEXT:
%s

QUESTION: %s

Please provide a comprehensive answer that:
1. Directly addresses the question
2. Cites specific information from the provided context when possible
3. Is well-structured and easy to understand
4. If using information from specific documents, mention which ones

ANSWER:`

// QueryEngine answers questions by retrieving relevant chunks and feeding
// them to the chat model together with the question.
type QueryEngine struct {
	embedder QueryEmbedder
	store    ChunkSearcher
	llm      CompletionClient
}

// NewQueryEngine creates a QueryEngine.
func NewQueryEngine(embedder QueryEmbedder, store ChunkSearcher, llm CompletionClient) *QueryEngine {
	return &QueryEngine{
		embedder: embedder,
		store:    store,
		llm:      llm,
	}
}

// Search embeds the query and returns up to limit chunks ordered by
// ascending distance.
func (e *QueryEngine) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, domain.EmbeddingError("failed to embed query", err)
	}

	return e.store.SearchNearest(ctx, embedding, limit)
}

// Query runs the full retrieval-augmented sequence: search, format the
// retrieved chunks into a context block, build the prompt, and generate the
// answer. Retrieval failures and generation failures carry distinct error
// codes; an empty retrieval result is not a failure, the model then answers
// from general knowledge.
func (e *QueryEngine) Query(ctx context.Context, question string, limit int) (*domain.Answer, error) {
	results, err := e.Search(ctx, question, limit)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(question, formatContext(results))

	text, err := e.llm.Complete(ctx, systemMessage, prompt)
	if err != nil {
		return nil, domain.GenerationError("failed to generate answer", err)
	}

	return &domain.Answer{Text: text, Sources: results}, nil
}

// formatContext renders retrieved chunks into the human-readable block
// embedded in the prompt: one paragraph per result with its relevance score,
// separated by a rule line.
func formatContext(results []domain.SearchResult) string {
	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf(
			"Document %d (Relevance: %.3f):\nTitle: %s\nAuthor: %s\nContent: %s\n%s",
			i+1,
			result.Relevance(),
			result.Metadata.Title,
			result.Metadata.Username,
			result.Content,
			strings.Repeat("-", 50),
		))
	}
	return strings.Join(parts, "\n")
}

func buildPrompt(question, contextBlock string) string {
	return fmt.Sprintf(promptTemplate, contextBlock, question)
}

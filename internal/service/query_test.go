package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// MockQueryEmbedder is a mock implementation of QueryEmbedder
type MockQueryEmbedder struct {
	mock.Mock
}

func (m *MockQueryEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockChunkSearcher is a mock implementation of ChunkSearcher
type MockChunkSearcher struct {
	mock.Mock
}

func (m *MockChunkSearcher) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]domain.SearchResult, error) {
	args := m.Called(ctx, embedding, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

// MockCompletionClient is a mock implementation of CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, systemMessage, userMessage string) (string, error) {
	args := m.Called(ctx, systemMessage, userMessage)
	return args.String(0), args.Error(1)
}

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Content:  "Auto-encoders compress inputs into a latent space.",
			Distance: 0.2,
			Metadata: domain.ChunkMetadata{
				PublicationID: "pub-1", Title: "Auto-encoders", Username: "alice",
				ChunkIndex: 0, TotalChunks: 2,
			},
		},
		{
			Content:  "Forecasting models exploit seasonality.",
			Distance: 0.4,
			Metadata: domain.ChunkMetadata{
				PublicationID: "pub-2", Title: "Time Series", Username: "bob",
				ChunkIndex: 1, TotalChunks: 3,
			},
		},
	}
}

func TestSearch_EmbedsQueryAndDelegates(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	store := &MockChunkSearcher{}
	engine := NewQueryEngine(embedder, store, &MockCompletionClient{})

	vec := []float32{0.1, 0.2}
	embedder.On("Embed", mock.Anything, "auto-encoders").Return(vec, nil)
	store.On("SearchNearest", mock.Anything, vec, 5).Return(sampleResults(), nil)

	results, err := engine.Search(context.Background(), "  auto-encoders  ", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	embedder.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestSearch_EmptyQuery(t *testing.T) {
	engine := NewQueryEngine(&MockQueryEmbedder{}, &MockChunkSearcher{}, &MockCompletionClient{})

	_, err := engine.Search(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestSearch_DefaultLimit(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	store := &MockChunkSearcher{}
	engine := NewQueryEngine(embedder, store, &MockCompletionClient{})

	embedder.On("Embed", mock.Anything, "q").Return([]float32{1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, DefaultSearchLimit).
		Return([]domain.SearchResult{}, nil)

	_, err := engine.Search(context.Background(), "q", 0)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSearch_EmbeddingFailure(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	engine := NewQueryEngine(embedder, &MockChunkSearcher{}, &MockCompletionClient{})

	embedder.On("Embed", mock.Anything, "q").Return(nil, errors.New("backend down"))

	_, err := engine.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeEmbedding))
}

func TestQuery_BuildsPromptFromResults(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	store := &MockChunkSearcher{}
	llm := &MockCompletionClient{}
	engine := NewQueryEngine(embedder, store, llm)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, 3).Return(sampleResults(), nil)

	var capturedPrompt string
	llm.On("Complete", mock.Anything, systemMessage, mock.Anything).
		Run(func(args mock.Arguments) { capturedPrompt = args.String(2) }).
		Return("grounded answer", nil)

	answer, err := engine.Query(context.Background(), "what are auto-encoders?", 3)
	require.NoError(t, err)

	assert.Equal(t, "grounded answer", answer.Text)
	assert.Len(t, answer.Sources, 2)

	assert.Contains(t, capturedPrompt, "QUESTION: what are auto-encoders?")
	assert.Contains(t, capturedPrompt, "Document 1 (Relevance: 0.800)")
	assert.Contains(t, capturedPrompt, "Document 2 (Relevance: 0.600)")
	assert.Contains(t, capturedPrompt, "Title: Auto-encoders")
	assert.Contains(t, capturedPrompt, "Author: alice")
	assert.Contains(t, capturedPrompt, "Auto-encoders compress inputs into a latent space.")
	assert.Contains(t, capturedPrompt, "--------------------------------------------------")
}

func TestQuery_EmptyIndexStillAnswers(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	store := &MockChunkSearcher{}
	llm := &MockCompletionClient{}
	engine := NewQueryEngine(embedder, store, llm)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, 3).
		Return([]domain.SearchResult{}, nil)
	llm.On("Complete", mock.Anything, systemMessage, mock.Anything).
		Return("answer from general knowledge", nil)

	answer, err := engine.Query(context.Background(), "unrelated nonsense question", 3)
	require.NoError(t, err)

	assert.NotEmpty(t, answer.Text)
	assert.Empty(t, answer.Sources)
}

func TestQuery_GenerationFailure(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	store := &MockChunkSearcher{}
	llm := &MockCompletionClient{}
	engine := NewQueryEngine(embedder, store, llm)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, 3).Return(sampleResults(), nil)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("model unavailable"))

	answer, err := engine.Query(context.Background(), "question", 3)

	assert.Nil(t, answer)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeGeneration))
	assert.False(t, domain.IsCode(err, domain.ErrCodeIndex))
}

func TestQuery_RetrievalFailureIsDistinct(t *testing.T) {
	embedder := &MockQueryEmbedder{}
	store := &MockChunkSearcher{}
	llm := &MockCompletionClient{}
	engine := NewQueryEngine(embedder, store, llm)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, 3).
		Return(nil, domain.IndexError("vector search failed", errors.New("connection refused")))

	_, err := engine.Query(context.Background(), "question", 3)

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeIndex))
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

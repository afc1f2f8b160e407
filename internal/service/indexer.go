package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// EmbeddingClient defines the interface for generating embeddings in batch.
// Vectors are returned in input order.
type EmbeddingClient interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkStore defines the repository interface for persisting embedded chunks.
type ChunkStore interface {
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error
}

const (
	defaultEmbedBatchSize = 64
	defaultEmbedWorkers   = 4
)

// IndexerOption customizes an Indexer.
type IndexerOption func(*Indexer)

// WithEmbedBatchSize sets how many chunk texts go into one embedding request.
func WithEmbedBatchSize(n int) IndexerOption {
	return func(s *Indexer) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithEmbedWorkers bounds how many embedding requests run concurrently.
func WithEmbedWorkers(n int) IndexerOption {
	return func(s *Indexer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Indexer turns publications into embedded chunks and persists them.
type Indexer struct {
	chunker   *Chunker
	embedder  EmbeddingClient
	store     ChunkStore
	batchSize int
	workers   int
}

// NewIndexer creates an Indexer.
func NewIndexer(chunker *Chunker, embedder EmbeddingClient, store ChunkStore, opts ...IndexerOption) *Indexer {
	s := &Indexer{
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		batchSize: defaultEmbedBatchSize,
		workers:   defaultEmbedWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add chunks each publication, embeds the chunk texts, and upserts the
// resulting records. It returns the total number of chunks written. Chunk ids
// are the publication id plus chunk index, so adding the same publication
// again overwrites its previous chunks.
func (s *Indexer) Add(ctx context.Context, documents []domain.Publication) (int, error) {
	var chunks []domain.Chunk
	for _, doc := range documents {
		texts := s.chunker.Split(doc.Content)
		for i, text := range texts {
			chunks = append(chunks, domain.Chunk{
				ID:      domain.ChunkID(doc.ID, i),
				Content: text,
				Metadata: domain.ChunkMetadata{
					PublicationID: doc.ID,
					Title:         doc.Title,
					Username:      doc.Username,
					Source:        doc.Source,
					ChunkIndex:    i,
					TotalChunks:   len(texts),
				},
			})
		}
	}

	if len(chunks) == 0 {
		return 0, nil
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	if err := s.store.UpsertChunks(ctx, chunks); err != nil {
		return 0, err
	}

	return len(chunks), nil
}

// embedChunks fills in the Embedding field of every chunk, batching requests
// and running up to s.workers batches at a time. Batch boundaries keep each
// vector aligned with its chunk regardless of completion order.
func (s *Indexer) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}

			embeddings, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return domain.EmbeddingError("failed to embed chunk batch", err)
			}

			for i := range batch {
				batch[i].Embedding = embeddings[i]
			}
			return nil
		})
	}

	return g.Wait()
}

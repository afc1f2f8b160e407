package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// ChunkRepository handles persistence of embedded publication chunks.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// UpsertChunks inserts embedded chunks, overwriting any previous record with
// the same composite id. Re-indexing a publication therefore replaces its
// chunks rather than duplicating them.
func (r *ChunkRepository) UpsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := r.pool.Exec(ctx,
			`INSERT INTO publication_chunks
				(id, publication_id, title, username, source, chunk_index, total_chunks, content, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO UPDATE SET
				publication_id = EXCLUDED.publication_id,
				title = EXCLUDED.title,
				username = EXCLUDED.username,
				source = EXCLUDED.source,
				chunk_index = EXCLUDED.chunk_index,
				total_chunks = EXCLUDED.total_chunks,
				content = EXCLUDED.content,
				embedding = EXCLUDED.embedding,
				created_at = EXCLUDED.created_at`,
			c.ID,
			c.Metadata.PublicationID,
			c.Metadata.Title,
			c.Metadata.Username,
			c.Metadata.Source,
			c.Metadata.ChunkIndex,
			c.Metadata.TotalChunks,
			c.Content,
			pgvector.NewVector(c.Embedding),
			createdAt,
		)
		if err != nil {
			return domain.IndexError("failed to upsert chunk "+c.ID, err)
		}
	}

	return nil
}

// SearchNearest returns up to limit chunks ordered by ascending cosine
// distance to the query embedding.
func (r *ChunkRepository) SearchNearest(ctx context.Context, embedding []float32, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.pool.Query(ctx,
		`SELECT content, publication_id, title, username, source, chunk_index, total_chunks,
		        embedding <=> $1 AS distance
		 FROM publication_chunks
		 ORDER BY distance
		 LIMIT $2`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, domain.IndexError("vector search failed", err)
	}
	defer rows.Close()

	results := make([]domain.SearchResult, 0, limit)
	for rows.Next() {
		var res domain.SearchResult
		if err := rows.Scan(
			&res.Content,
			&res.Metadata.PublicationID,
			&res.Metadata.Title,
			&res.Metadata.Username,
			&res.Metadata.Source,
			&res.Metadata.ChunkIndex,
			&res.Metadata.TotalChunks,
			&res.Distance,
		); err != nil {
			return nil, domain.IndexError("failed to scan search result", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.IndexError("vector search failed", err)
	}

	return results, nil
}

// CountChunks returns the number of indexed chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM publication_chunks`).Scan(&count); err != nil {
		return 0, domain.IndexError("failed to count chunks", err)
	}
	return count, nil
}

// CountPublications returns the number of distinct indexed publications.
func (r *ChunkRepository) CountPublications(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT publication_id) FROM publication_chunks`).Scan(&count); err != nil {
		return 0, domain.IndexError("failed to count publications", err)
	}
	return count, nil
}

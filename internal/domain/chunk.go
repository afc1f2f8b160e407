package domain

import (
	"fmt"
	"time"
)

// ChunkMetadata carries the provenance of an indexed chunk back to its
// publication.
type ChunkMetadata struct {
	PublicationID string `json:"publication_id"`
	Title         string `json:"title"`
	Username      string `json:"username"`
	Source        string `json:"source"`
	ChunkIndex    int    `json:"chunk_index"`
	TotalChunks   int    `json:"total_chunks"`
}

// Chunk is the atomic retrieval unit: a token-bounded slice of a
// publication's content together with its embedding. The composite ID is
// "<publication id>_<chunk index>", so re-indexing the same publication
// overwrites its previous chunks instead of duplicating them.
type Chunk struct {
	ID        string
	Metadata  ChunkMetadata
	Content   string
	Embedding []float32
	CreatedAt time.Time
}

// ChunkID builds the composite chunk identifier.
func ChunkID(publicationID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%d", publicationID, chunkIndex)
}

// SearchResult is a single nearest-neighbor match. Distance is the cosine
// distance reported by the store; lower means more similar.
type SearchResult struct {
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
	Distance float64       `json:"distance"`
}

// Relevance converts the distance into the 1-distance score shown to users.
func (r *SearchResult) Relevance() float64 {
	return 1 - r.Distance
}

// Answer is the outcome of a retrieval-augmented query: the generated text
// plus the chunks it was grounded on.
type Answer struct {
	Text    string         `json:"text"`
	Sources []SearchResult `json:"sources"`
}

package service

import (
	"strings"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// Encoding is the tokenizer surface the chunker needs: a stable
// encode/decode round trip over token ids.
type Encoding interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// ChunkConfig controls the sliding token window used for chunking.
type ChunkConfig struct {
	// Size is the window length in tokens.
	Size int
	// Overlap is how many tokens consecutive windows share.
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    512,
		Overlap: 50,
	}
}

// Chunker splits document text into overlapping token windows.
type Chunker struct {
	enc Encoding
	cfg ChunkConfig
}

// NewChunker validates the configuration and returns a Chunker. An overlap
// equal to or larger than the window size would keep the window from ever
// advancing, so it is rejected outright.
func NewChunker(enc Encoding, cfg ChunkConfig) (*Chunker, error) {
	if cfg.Size <= 0 {
		return nil, domain.ErrInvalidChunkSize
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return nil, domain.ErrOverlapTooLarge
	}
	return &Chunker{enc: enc, cfg: cfg}, nil
}

// Split produces the ordered chunk texts for a document body. Text that fits
// in a single window is returned whole; empty text yields no chunks.
func (c *Chunker) Split(text string) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}

	tokens := c.enc.Encode(clean)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) <= c.cfg.Size {
		return []string{clean}
	}

	step := c.cfg.Size - c.cfg.Overlap
	chunks := make([]string, 0, (len(tokens)-c.cfg.Overlap+step-1)/step)
	for start := 0; start < len(tokens); start += step {
		end := start + c.cfg.Size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.enc.Decode(tokens[start:end]))
		// The window that reaches the end is the last one; stepping
		// further would only produce suffixes of it.
		if end == len(tokens) {
			break
		}
	}

	return chunks
}

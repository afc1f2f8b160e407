package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkID(t *testing.T) {
	assert.Equal(t, "pub-1_0", ChunkID("pub-1", 0))
	assert.Equal(t, "42_7", ChunkID("42", 7))
}

func TestSearchResult_Relevance(t *testing.T) {
	r := SearchResult{Distance: 0.25}
	assert.InDelta(t, 0.75, r.Relevance(), 1e-9)

	exact := SearchResult{Distance: 0}
	assert.InDelta(t, 1.0, exact.Relevance(), 1e-9)
}

func TestPublication_HasSubstantialContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"short", "too short", false},
		{"exactly 100 chars", makeContent(100), false},
		{"101 chars", makeContent(101), true},
		// Multibyte text is measured in characters, not bytes; 40 CJK
		// characters are 120 bytes but still well below the threshold.
		{"40 multibyte chars", strings.Repeat("漢", 40), false},
		{"100 multibyte chars", strings.Repeat("漢", 100), false},
		{"101 multibyte chars", strings.Repeat("漢", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Publication{Content: tt.content}
			assert.Equal(t, tt.want, p.HasSubstantialContent())
		})
	}
}

func TestPublication_WordCount(t *testing.T) {
	p := Publication{Content: "  one two\tthree\nfour  "}
	assert.Equal(t, 4, p.WordCount())
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := EmbeddingError("failed to embed batch", cause)

	assert.Contains(t, err.Error(), ErrCodeEmbedding)
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestIsCode(t *testing.T) {
	gen := GenerationError("model unavailable", errors.New("503"))
	wrapped := fmt.Errorf("query failed: %w", gen)

	assert.True(t, IsCode(gen, ErrCodeGeneration))
	assert.True(t, IsCode(wrapped, ErrCodeGeneration))
	assert.False(t, IsCode(wrapped, ErrCodeLoad))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeGeneration))
	assert.False(t, IsCode(nil, ErrCodeGeneration))
}

func makeContent(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

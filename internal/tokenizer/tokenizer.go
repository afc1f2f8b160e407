// Package tokenizer adapts tiktoken for length-bounded chunk splitting.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the subword encoding used for chunking. It only has to
// round-trip stably; retrieval quality does not depend on it matching the
// embedding model's own tokenizer.
const DefaultEncoding = "cl100k_base"

// Tiktoken wraps a tiktoken encoding with the Encode/Decode surface the
// chunker consumes.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// New loads the named tiktoken encoding.
func New(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %q: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Encode converts text into token ids.
func (t *Tiktoken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode converts token ids back into text.
func (t *Tiktoken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// CountTokens returns the token length of text.
func (t *Tiktoken) CountTokens(text string) int {
	return len(t.Encode(text))
}

package loader

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

const (
	statsSampleSize   = 3
	statsPreviewChars = 100
)

// Stats summarizes a loaded publication set.
type Stats struct {
	Publications    int      `json:"publications"`
	TotalCharacters int      `json:"total_characters"`
	TotalWords      int      `json:"total_words"`
	Samples         []Sample `json:"samples,omitempty"`
}

// Sample is a short preview of one publication.
type Sample struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Preview  string `json:"preview"`
}

// CollectStats computes summary statistics over the loaded publications.
func CollectStats(documents []domain.Publication) Stats {
	stats := Stats{Publications: len(documents)}

	for _, doc := range documents {
		stats.TotalCharacters += utf8.RuneCountInString(doc.Content)
		stats.TotalWords += doc.WordCount()
	}

	for i, doc := range documents {
		if i >= statsSampleSize {
			break
		}
		preview := truncateRunes(doc.Content, statsPreviewChars)
		stats.Samples = append(stats.Samples, Sample{
			Title:    doc.Title,
			Username: doc.Username,
			Preview:  preview,
		})
	}

	return stats
}

// Print writes the statistics in the report format shown after loading.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "--- Publication Statistics ---\n")
	fmt.Fprintf(w, "Total publications: %d\n", s.Publications)
	fmt.Fprintf(w, "Total characters: %s\n", groupDigits(s.TotalCharacters))
	fmt.Fprintf(w, "Total words: %s\n", groupDigits(s.TotalWords))

	if len(s.Samples) == 0 {
		return
	}
	fmt.Fprintf(w, "\n--- Sample Publications ---\n")
	for i, sample := range s.Samples {
		fmt.Fprintf(w, "%d. %s (by %s)\n", i+1, sample.Title, sample.Username)
		fmt.Fprintf(w, "   Content preview: %s...\n\n", sample.Preview)
	}
}

// truncateRunes cuts text to at most max characters, never splitting a
// multibyte rune.
func truncateRunes(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}

// groupDigits inserts thousands separators into a non-negative integer.
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

// Package shell implements the interactive question loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// QueryService is the part of the query engine the shell uses.
type QueryService interface {
	Query(ctx context.Context, question string, limit int) (*domain.Answer, error)
}

const (
	answerWidth   = 80
	separatorRule = "============================================================"
)

// Shell reads questions in a loop and prints grounded answers with their
// sources. A failing turn is reported and the loop continues; only EOF or an
// exit word ends the session.
type Shell struct {
	engine QueryService
	in     io.Reader
	out    io.Writer
	limit  int
}

// New creates a Shell reading questions from in and writing to out.
func New(engine QueryService, in io.Reader, out io.Writer, limit int) *Shell {
	if limit <= 0 {
		limit = 3
	}
	return &Shell{engine: engine, in: in, out: out, limit: limit}
}

// Run executes the read-answer loop until an exit word or EOF.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Ready! Ask questions about the publications.")
	fmt.Fprintln(s.out, "Type 'quit' to exit.")
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(s.out, "Your question: ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isExitWord(question) {
			fmt.Fprintln(s.out, "Goodbye!")
			break
		}

		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, separatorRule)

		answer, err := s.engine.Query(ctx, question, s.limit)
		if err != nil {
			s.printTurnError(err)
			continue
		}

		s.printAnswer(answer)
	}

	return scanner.Err()
}

func isExitWord(input string) bool {
	switch strings.ToLower(input) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// printTurnError words the failure by where it happened so the user knows
// whether retrieval or generation is down.
func (s *Shell) printTurnError(err error) {
	switch {
	case domain.IsCode(err, domain.ErrCodeEmbedding), domain.IsCode(err, domain.ErrCodeIndex):
		fmt.Fprintf(s.out, "Search failed: %v\n", err)
	case domain.IsCode(err, domain.ErrCodeGeneration):
		fmt.Fprintf(s.out, "Answer generation failed: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	fmt.Fprintln(s.out, "Please try again with a different question.")
	fmt.Fprintln(s.out)
}

func (s *Shell) printAnswer(answer *domain.Answer) {
	fmt.Fprintf(s.out, "\nSources used (%d documents):\n", len(answer.Sources))
	for i, source := range answer.Sources {
		fmt.Fprintf(s.out, "   %d. %s\n", i+1, source.Metadata.Title)
		fmt.Fprintf(s.out, "      by %s (relevance: %.3f)\n", source.Metadata.Username, source.Relevance())
	}

	fmt.Fprintln(s.out, "\nAnswer:")
	fmt.Fprintln(s.out, wrapText(answer.Text, answerWidth))
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, separatorRule)
	fmt.Fprintln(s.out)
}

// wrapText word-wraps each paragraph to the given width.
func wrapText(text string, width int) string {
	paragraphs := strings.Split(text, "\n")
	wrapped := make([]string, len(paragraphs))

	for i, paragraph := range paragraphs {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		var b strings.Builder
		lineLen := 0
		for _, word := range words {
			if lineLen > 0 && lineLen+1+len(word) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else if lineLen > 0 {
				b.WriteByte(' ')
				lineLen++
			}
			b.WriteString(word)
			lineLen += len(word)
		}
		wrapped[i] = b.String()
	}

	return strings.Join(wrapped, "\n")
}

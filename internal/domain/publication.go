package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// MinContentLength is the minimum number of characters a publication
	// body must have to be worth indexing. Shorter records are dropped at
	// load time.
	MinContentLength = 100

	// DefaultTitle is used when a publication record has no title field.
	DefaultTitle = "Untitled"

	// SourceJSON marks publications loaded from a local JSON file.
	SourceJSON = "json"
	// SourceS3 marks publications loaded from an S3 object.
	SourceS3 = "s3"
)

// Publication is a normalized publication record. It is created by the
// loader and never mutated afterwards; once chunked and indexed it can be
// discarded.
type Publication struct {
	ID       string
	Title    string
	Username string
	Content  string
	Source   string
}

// HasSubstantialContent reports whether the publication body is long enough
// to index. The threshold counts characters, not bytes, so multibyte text is
// measured the same as ASCII.
func (p *Publication) HasSubstantialContent() bool {
	return utf8.RuneCountInString(p.Content) > MinContentLength
}

// WordCount returns the number of whitespace-separated words in the body.
func (p *Publication) WordCount() int {
	return len(strings.Fields(p.Content))
}

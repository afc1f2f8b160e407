package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publications.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func longText(n int) string {
	return strings.Repeat("x", n)
}

func TestLoad_FiltersShortContent(t *testing.T) {
	path := writeTempJSON(t, `[
		{"id": "a", "title": "Kept", "username": "alice", "publication_description": "`+longText(150)+`"},
		{"id": "b", "title": "Dropped", "username": "bob", "publication_description": "short"},
		{"id": "c", "title": "Boundary", "username": "carol", "publication_description": "`+longText(100)+`"}
	]`)

	docs, err := New().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "Kept", docs[0].Title)
	assert.Equal(t, "alice", docs[0].Username)
	assert.Equal(t, domain.SourceJSON, docs[0].Source)
	assert.Len(t, docs[0].Content, 150)
}

func TestLoad_FiltersByCharacterCount(t *testing.T) {
	// 40 CJK characters are 120 bytes; the >100 filter counts characters,
	// so the record is dropped. 120 characters of the same text are kept.
	path := writeTempJSON(t, `[
		{"id": "short-cjk", "title": "Dropped", "publication_description": "`+strings.Repeat("漢", 40)+`"},
		{"id": "long-cjk", "title": "Kept", "publication_description": "`+strings.Repeat("漢", 120)+`"}
	]`)

	docs, err := New().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "long-cjk", docs[0].ID)
}

func TestLoad_DefaultsForMissingFields(t *testing.T) {
	path := writeTempJSON(t, `[
		{"publication_description": "`+longText(120)+`"}
	]`)

	docs, err := New().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, domain.DefaultTitle, docs[0].Title)
	assert.Equal(t, "", docs[0].Username)
	assert.Equal(t, "", docs[0].ID)
}

func TestLoad_NumericID(t *testing.T) {
	path := writeTempJSON(t, `[
		{"id": 12345, "title": "Numeric", "publication_description": "`+longText(120)+`"}
	]`)

	docs, err := New().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "12345", docs[0].ID)
}

func TestLoad_MissingFile(t *testing.T) {
	docs, err := New().Load(context.Background(), "/nonexistent/publications.json")

	assert.Nil(t, docs)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeLoad))
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeTempJSON(t, `{"not": "an array"`)

	docs, err := New().Load(context.Background(), path)

	assert.Nil(t, docs)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeLoad))
}

func TestLoad_EmptyArray(t *testing.T) {
	path := writeTempJSON(t, `[]`)

	docs, err := New().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

type fakeFetcher struct {
	bucket string
	key    string
	data   []byte
	err    error
}

func (f *fakeFetcher) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	f.bucket = bucket
	f.key = key
	return f.data, f.err
}

func TestLoad_S3Source(t *testing.T) {
	fetcher := &fakeFetcher{
		data: []byte(`[{"id": "s3-doc", "title": "Remote", "publication_description": "` + longText(130) + `"}]`),
	}

	docs, err := NewWithFetcher(fetcher).Load(context.Background(), "s3://exports/project_1.json")
	require.NoError(t, err)

	assert.Equal(t, "exports", fetcher.bucket)
	assert.Equal(t, "project_1.json", fetcher.key)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.SourceS3, docs[0].Source)
}

func TestLoad_S3WithoutFetcher(t *testing.T) {
	_, err := New().Load(context.Background(), "s3://exports/project_1.json")

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeLoad))
}

func TestLoad_S3FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("access denied")}

	_, err := NewWithFetcher(fetcher).Load(context.Background(), "s3://exports/missing.json")

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeLoad))
	assert.Contains(t, err.Error(), "access denied")
}

func TestCollectStats(t *testing.T) {
	docs := []domain.Publication{
		{Title: "First", Username: "alice", Content: "one two three"},
		{Title: "Second", Username: "bob", Content: "four five"},
		{Title: "Third", Username: "carol", Content: "six"},
		{Title: "Fourth", Username: "dave", Content: "seven"},
	}

	stats := CollectStats(docs)

	assert.Equal(t, 4, stats.Publications)
	assert.Equal(t, len("one two three")+len("four five")+len("six")+len("seven"), stats.TotalCharacters)
	assert.Equal(t, 7, stats.TotalWords)
	require.Len(t, stats.Samples, 3)
	assert.Equal(t, "First", stats.Samples[0].Title)
	assert.Equal(t, "carol", stats.Samples[2].Username)
}

func TestCollectStats_MultibyteContent(t *testing.T) {
	docs := []domain.Publication{
		{Title: "CJK", Username: "fumiko", Content: strings.Repeat("漢", 150)},
	}

	stats := CollectStats(docs)

	assert.Equal(t, 150, stats.TotalCharacters)
	require.Len(t, stats.Samples, 1)

	preview := stats.Samples[0].Preview
	assert.Equal(t, strings.Repeat("漢", 100), preview)
	assert.True(t, utf8.ValidString(preview))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "abcde", truncateRunes("abcdefg", 5))
	assert.Equal(t, "日本語", truncateRunes("日本語のテキスト", 3))
	assert.Equal(t, "", truncateRunes("", 5))
}

func TestStats_Print(t *testing.T) {
	stats := Stats{
		Publications:    2,
		TotalCharacters: 1234567,
		TotalWords:      89012,
		Samples:         []Sample{{Title: "Only", Username: "eve", Preview: "preview text"}},
	}

	var buf bytes.Buffer
	stats.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Total publications: 2")
	assert.Contains(t, out, "Total characters: 1,234,567")
	assert.Contains(t, out, "Total words: 89,012")
	assert.Contains(t, out, "1. Only (by eve)")
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "0", groupDigits(0))
	assert.Equal(t, "999", groupDigits(999))
	assert.Equal(t, "1,000", groupDigits(1000))
	assert.Equal(t, "12,345,678", groupDigits(12345678))
}

// Package loader reads publication records from JSON sources and filters
// them down to the documents worth indexing.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/varshinikasireddy/pubrag/internal/domain"
)

// ObjectFetcher retrieves the raw bytes of a remote object. It is satisfied
// by the S3 storage client.
type ObjectFetcher interface {
	FetchObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader turns publication JSON files into normalized Publication records.
type Loader struct {
	fetcher ObjectFetcher
}

// New creates a Loader that reads local files only.
func New() *Loader {
	return &Loader{}
}

// NewWithFetcher creates a Loader that additionally resolves s3://bucket/key
// paths through the given fetcher.
func NewWithFetcher(fetcher ObjectFetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// rawPublication mirrors the upstream export format. Only
// publication_description is required in practice; everything else has a
// defaulting rule.
type rawPublication struct {
	ID          flexibleID `json:"id"`
	Title       string     `json:"title"`
	Username    string     `json:"username"`
	Description string     `json:"publication_description"`
}

// flexibleID accepts both string and numeric ids from the export.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexibleID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// Load reads the publications at path, which is either a local file or an
// s3://bucket/key URL, and returns the records with substantial content.
// Records shorter than the minimum content length are silently dropped.
// Failures are returned as LOAD_ERROR domain errors; callers that want the
// original "log and continue with nothing" behavior can do so while still
// being able to tell a load failure from an empty result.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.Publication, error) {
	data, source, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}

	var raw []rawPublication
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.LoadError(fmt.Sprintf("failed to parse %s", path), err)
	}

	documents := make([]domain.Publication, 0, len(raw))
	for _, r := range raw {
		title := r.Title
		if title == "" {
			title = domain.DefaultTitle
		}

		doc := domain.Publication{
			ID:       string(r.ID),
			Title:    title,
			Username: r.Username,
			Content:  r.Description,
			Source:   source,
		}
		if doc.HasSubstantialContent() {
			documents = append(documents, doc)
		}
	}

	return documents, nil
}

func (l *Loader) read(ctx context.Context, path string) ([]byte, string, error) {
	if bucket, key, ok := parseS3Path(path); ok {
		if l.fetcher == nil {
			return nil, "", domain.LoadError("s3 source requires S3 configuration", nil)
		}
		data, err := l.fetcher.FetchObject(ctx, bucket, key)
		if err != nil {
			return nil, "", domain.LoadError(fmt.Sprintf("failed to fetch %s", path), err)
		}
		return data, domain.SourceS3, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", domain.LoadError(fmt.Sprintf("failed to read %s", path), err)
	}
	return data, domain.SourceJSON, nil
}

func parseS3Path(path string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(path, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

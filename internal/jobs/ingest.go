package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/varshinikasireddy/pubrag/internal/domain"
	"github.com/varshinikasireddy/pubrag/internal/telemetry"
)

const processedDirName = "processed"

// PublicationLoader reads publication export files.
type PublicationLoader interface {
	Load(ctx context.Context, path string) ([]domain.Publication, error)
}

// PublicationIndexer chunks, embeds and stores publications.
type PublicationIndexer interface {
	Add(ctx context.Context, documents []domain.Publication) (int, error)
}

// IngestProcessor watches a directory for publication export files and
// indexes every *.json file it finds. Successfully indexed files are moved
// to a processed/ subdirectory so a pass never sees the same file twice.
type IngestProcessor struct {
	dir     string
	loader  PublicationLoader
	indexer PublicationIndexer
}

// NewIngestProcessor creates an IngestProcessor for the given directory.
func NewIngestProcessor(dir string, loader PublicationLoader, indexer PublicationIndexer) *IngestProcessor {
	return &IngestProcessor{
		dir:     dir,
		loader:  loader,
		indexer: indexer,
	}
}

// ProcessJobs implements the JobProcessor interface
func (p *IngestProcessor) ProcessJobs(ctx context.Context) error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("failed to read watch directory %s: %w", p.dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			files = append(files, entry.Name())
		}
	}

	if len(files) == 0 {
		return nil
	}

	log.Printf("Ingesting %d publication files from %s", len(files), p.dir)

	for _, name := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := p.processFile(ctx, name); err != nil {
			log.Printf("Error ingesting %s: %v", name, err)
			telemetry.CaptureError(ctx, err)
		}
	}

	return nil
}

func (p *IngestProcessor) processFile(ctx context.Context, name string) error {
	path := filepath.Join(p.dir, name)

	pubs, err := p.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}

	count, err := p.indexer.Add(ctx, pubs)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", name, err)
	}

	log.Printf("Indexed %d chunks from %s (%d publications)", count, name, len(pubs))

	if err := p.markProcessed(path); err != nil {
		return fmt.Errorf("failed to archive %s: %w", name, err)
	}
	return nil
}

func (p *IngestProcessor) markProcessed(path string) error {
	dest := filepath.Join(p.dir, processedDirName)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dest, filepath.Base(path)))
}

// Package cli implements the pubrag subcommands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	oai "github.com/sashabaranov/go-openai"

	"github.com/varshinikasireddy/pubrag/internal/config"
	"github.com/varshinikasireddy/pubrag/internal/llm"
	"github.com/varshinikasireddy/pubrag/internal/loader"
	"github.com/varshinikasireddy/pubrag/internal/openai"
	"github.com/varshinikasireddy/pubrag/internal/repository"
	"github.com/varshinikasireddy/pubrag/internal/service"
	"github.com/varshinikasireddy/pubrag/internal/storage"
	"github.com/varshinikasireddy/pubrag/internal/tokenizer"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/varshinikasireddy/pubrag/internal/database"
)

// newLoader builds a publication loader, with S3 support when credentials
// are configured.
func newLoader(ctx context.Context, cfg *config.Config) (*loader.Loader, error) {
	if !cfg.HasS3() {
		return loader.New(), nil
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		UsePathStyle:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return loader.NewWithFetcher(s3Client), nil
}

func newChunker(cfg *config.Config) (*service.Chunker, error) {
	enc, err := tokenizer.New(tokenizer.DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return service.NewChunker(enc, service.ChunkConfig{
		Size:    cfg.ChunkSize,
		Overlap: cfg.ChunkOverlap,
	})
}

func newEmbedder(cfg *config.Config) (*openai.Client, error) {
	if !cfg.HasOpenAI() {
		return nil, fmt.Errorf("PUBRAG_OPENAI_API_KEY is required for embeddings")
	}
	return openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      oai.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	}), nil
}

func newChatClient(cfg *config.Config) (*llm.Client, error) {
	if !cfg.HasGroq() {
		return nil, fmt.Errorf("PUBRAG_GROQ_API_KEY is required for answer generation")
	}
	return llm.NewClient(llm.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.ChatModel,
	})
}

func newIndexer(cfg *config.Config, pool *pgxpool.Pool) (*service.Indexer, error) {
	chunker, err := newChunker(cfg)
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewIndexer(chunker, embedder, repository.NewChunkRepository(pool)), nil
}

func newQueryEngine(cfg *config.Config, pool *pgxpool.Pool) (*service.QueryEngine, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	chat, err := newChatClient(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewQueryEngine(embedder, repository.NewChunkRepository(pool), chat), nil
}

func connectPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("PUBRAG_DATABASE_URL is required for this command")
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// runMigrations applies pending schema migrations from the migrations
// directory next to the binary's working directory.
func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else {
		log.Printf("migrations: at version %d", version)
	}

	return nil
}

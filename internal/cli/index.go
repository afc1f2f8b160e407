package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/varshinikasireddy/pubrag/internal/config"
	"github.com/varshinikasireddy/pubrag/internal/domain"
	"github.com/varshinikasireddy/pubrag/internal/loader"
)

// IndexCmd returns the index command
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file-or-s3-url>",
		Short: "Load, chunk, embed and store publications",
		Long:  "Load a publications JSON export, chunk and embed its content, and upsert the chunks into the vector store",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndex,
	}

	cmd.Flags().Int("chunk-size", 0, "Tokens per chunk (overrides PUBRAG_CHUNK_SIZE)")
	cmd.Flags().Int("overlap", -1, "Token overlap between chunks (overrides PUBRAG_CHUNK_OVERLAP)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if chunkSize, _ := cmd.Flags().GetInt("chunk-size"); chunkSize > 0 {
		cfg.ChunkSize = chunkSize
	}
	if overlap, _ := cmd.Flags().GetInt("overlap"); overlap >= 0 {
		cfg.ChunkOverlap = overlap
	}

	pool, err := connectPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	docLoader, err := newLoader(ctx, cfg)
	if err != nil {
		return err
	}

	pubs, err := docLoader.Load(ctx, args[0])
	if err != nil {
		if domain.IsCode(err, domain.ErrCodeLoad) {
			log.Printf("load failed, nothing to index: %v", err)
			pubs = nil
		} else {
			return err
		}
	}

	loader.CollectStats(pubs).Print(os.Stdout)

	if len(pubs) == 0 {
		fmt.Println("No publications to index.")
		return nil
	}

	indexer, err := newIndexer(cfg, pool)
	if err != nil {
		return err
	}

	count, err := indexer.Add(ctx, pubs)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d chunks from %d publications.\n", count, len(pubs))
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varshinikasireddy/pubrag/internal/config"
	"github.com/varshinikasireddy/pubrag/internal/loader"
	"github.com/varshinikasireddy/pubrag/internal/repository"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file-or-s3-url]",
		Short: "Print publication statistics",
		Long:  "With a file argument, print statistics for the publications in that export; without one, print counts from the vector store",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(args) == 1 {
		docLoader, err := newLoader(ctx, cfg)
		if err != nil {
			return err
		}
		pubs, err := docLoader.Load(ctx, args[0])
		if err != nil {
			return err
		}
		loader.CollectStats(pubs).Print(os.Stdout)
		return nil
	}

	pool, err := connectPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := repository.NewChunkRepository(pool)
	chunks, err := repo.CountChunks(ctx)
	if err != nil {
		return err
	}
	pubs, err := repo.CountPublications(ctx)
	if err != nil {
		return err
	}

	fmt.Println("--- Index Statistics ---")
	fmt.Printf("Publications: %d\n", pubs)
	fmt.Printf("Chunks:       %d\n", chunks)
	return nil
}

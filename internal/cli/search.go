package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varshinikasireddy/pubrag/internal/config"
	"github.com/varshinikasireddy/pubrag/internal/repository"
	"github.com/varshinikasireddy/pubrag/internal/service"
)

// SearchCmd returns the search command
func SearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over indexed chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (default SEARCH_LIMIT)")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if limit <= 0 {
		limit = cfg.SearchLimit
	}

	pool, err := connectPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	engine := service.NewQueryEngine(embedder, repository.NewChunkRepository(pool), nil)
	results, err := engine.Search(ctx, query, limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, res := range results {
		fmt.Printf("%d. %s\n", i+1, res.Metadata.Title)
		fmt.Printf("   by %s (relevance: %.3f)\n", res.Metadata.Username, res.Relevance())
		fmt.Printf("   %s\n", preview(res.Content, 200))
		fmt.Println(strings.Repeat("-", 50))
	}
	return nil
}

func preview(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

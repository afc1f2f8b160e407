package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varshinikasireddy/pubrag/internal/config"
	"github.com/varshinikasireddy/pubrag/internal/shell"
)

// ChatCmd returns the chat command
func ChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive question answering over indexed publications",
		RunE:  runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := connectPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	engine, err := newQueryEngine(cfg, pool)
	if err != nil {
		return err
	}

	return shell.New(engine, os.Stdin, os.Stdout, cfg.SearchLimit).Run(ctx)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/varshinikasireddy/pubrag/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pubrag",
		Short: "Retrieval-augmented question answering over publication exports",
		Long:  "pubrag loads publication JSON exports, chunks and embeds their content into a vector store, and answers questions about them through semantic search and an LLM",
	}

	rootCmd.AddCommand(cli.IndexCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.SearchCmd())
	rootCmd.AddCommand(cli.ChatCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/varshinikasireddy/pubrag/internal/api/handlers"
	"github.com/varshinikasireddy/pubrag/internal/config"
	"github.com/varshinikasireddy/pubrag/internal/jobs"
	"github.com/varshinikasireddy/pubrag/internal/repository"
	"github.com/varshinikasireddy/pubrag/internal/server"
	"github.com/varshinikasireddy/pubrag/internal/telemetry"
)

const ingestPollInterval = 30 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the pubrag API server and, when a watch directory is configured, the ingest worker",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

// applyPortFlag prefers an explicitly set --port over the configured value,
// including when the flag repeats the default.
func applyPortFlag(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetString("port")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// 10% sampling outside development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	applyPortFlag(cmd, cfg)

	pool, err := connectPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Println("connected to database")

	if noMigrate, _ := cmd.Flags().GetBool("no-migrate"); !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	engine, err := newQueryEngine(cfg, pool)
	if err != nil {
		return err
	}
	repo := repository.NewChunkRepository(pool)

	var ingestWorker *jobs.Worker
	if cfg.WatchDir != "" {
		docLoader, err := newLoader(ctx, cfg)
		if err != nil {
			return err
		}
		indexer, err := newIndexer(cfg, pool)
		if err != nil {
			return err
		}
		processor := jobs.NewIngestProcessor(cfg.WatchDir, docLoader, indexer)
		ingestWorker = jobs.NewWorker(processor, ingestPollInterval)
		go ingestWorker.Start(ctx)
		log.Printf("ingest worker watching %s", cfg.WatchDir)
	}

	router := server.NewRouter(server.RouterConfig{
		RAGHandler: handlers.NewRAGHandler(engine, repo),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if ingestWorker != nil {
		ingestWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

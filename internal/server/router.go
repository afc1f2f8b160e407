package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/varshinikasireddy/pubrag/internal/api"
	"github.com/varshinikasireddy/pubrag/internal/api/handlers"
	"github.com/varshinikasireddy/pubrag/internal/api/middleware"
)

type RouterConfig struct {
	RAGHandler *handlers.RAGHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/stats", cfg.RAGHandler.Stats)
	r.Post("/search", cfg.RAGHandler.Search)
	r.Post("/query", cfg.RAGHandler.Query)

	return r
}

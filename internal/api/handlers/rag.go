package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/varshinikasireddy/pubrag/internal/api"
	"github.com/varshinikasireddy/pubrag/internal/domain"
)

type RAGService interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
	Query(ctx context.Context, question string, limit int) (*domain.Answer, error)
}

type StatsStore interface {
	CountChunks(ctx context.Context) (int64, error)
	CountPublications(ctx context.Context) (int64, error)
}

type RAGHandler struct {
	svc   RAGService
	store StatsStore
}

func NewRAGHandler(svc RAGService, store StatsStore) *RAGHandler {
	return &RAGHandler{svc: svc, store: store}
}

type SearchRequest struct {
	Query string `json:"query"`
	N     int    `json:"n"`
}

type SearchResultResponse struct {
	Content       string  `json:"content"`
	PublicationID string  `json:"publication_id"`
	Title         string  `json:"title"`
	Username      string  `json:"username"`
	ChunkIndex    int     `json:"chunk_index"`
	TotalChunks   int     `json:"total_chunks"`
	Relevance     float64 `json:"relevance"`
}

type SearchResponse struct {
	Results []SearchResultResponse `json:"results"`
}

func resultToResponse(r domain.SearchResult) SearchResultResponse {
	return SearchResultResponse{
		Content:       r.Content,
		PublicationID: r.Metadata.PublicationID,
		Title:         r.Metadata.Title,
		Username:      r.Metadata.Username,
		ChunkIndex:    r.Metadata.ChunkIndex,
		TotalChunks:   r.Metadata.TotalChunks,
		Relevance:     r.Relevance(),
	}
}

func (h *RAGHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.svc.Search(r.Context(), req.Query, req.N)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := SearchResponse{Results: make([]SearchResultResponse, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, resultToResponse(res))
	}
	api.Success(w, http.StatusOK, resp)
}

type QueryRequest struct {
	Question string `json:"question"`
	N        int    `json:"n"`
}

type QueryResponse struct {
	Answer  string                 `json:"answer"`
	Sources []SearchResultResponse `json:"sources"`
}

func (h *RAGHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		api.Error(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.svc.Query(r.Context(), req.Question, req.N)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := QueryResponse{
		Answer:  answer.Text,
		Sources: make([]SearchResultResponse, 0, len(answer.Sources)),
	}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, resultToResponse(src))
	}
	api.Success(w, http.StatusOK, resp)
}

type StatsResponse struct {
	Chunks       int64 `json:"chunks"`
	Publications int64 `json:"publications"`
}

func (h *RAGHandler) Stats(w http.ResponseWriter, r *http.Request) {
	chunks, err := h.store.CountChunks(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	pubs, err := h.store.CountPublications(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, StatsResponse{Chunks: chunks, Publications: pubs})
}

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markdave123-py/raget/internal/models"
	"github.com/markdave123-py/raget/internal/services"
)

type ChatHandler struct {
	query  *services.QueryService
	logger *slog.Logger
}

func NewChatHandler(query *services.QueryService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{query: query, logger: logger}
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatSource struct {
	ChunkID string `json:"chunk_id"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
}

type chatResponse struct {
	Answer  string       `json:"answer"`
	Sources []chatSource `json:"sources"`
}

func (h *ChatHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Query)
	if question == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	answer, used, err := h.query.Answer(r.Context(), question)
	if err != nil {
		h.logger.Error("answering query failed", "err", err)
		http.Error(w, "could not answer query", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResponse{
		Answer:  answer,
		Sources: chunkSources(used),
	})
}

func chunkSources(chunks []models.DocumentChunk) []chatSource {
	out := make([]chatSource, 0, len(chunks))
	for _, ch := range chunks {
		out = append(out, chatSource{ChunkID: ch.ChunkID, Source: ch.Source, Page: ch.Page})
	}
	return out
}

package http

import (
	"encoding/json"
	"net/http"

	"ai-quiz-service/internal/app"
	"go.uber.org/zap"
)

// HistoryHandler serves the stored history as JSON, optionally filtered by ?search=.
type HistoryHandler struct {
	history app.HistoryRepository
	logger  *zap.Logger
}

func NewHistoryHandler(history app.HistoryRepository, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{history: history, logger: logger}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	results, err := h.history.List(r.Context())
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err))
		http.Error(w, "history is unavailable", http.StatusInternalServerError)
		return
	}
	results = app.FilterHistory(results, r.URL.Query().Get("search"))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		h.logger.Warn("write history response failed", zap.Error(err))
	}
}

package handlers

import (
	"net/http"

	"github.com/wonny/oracle/internal/pipeline"
	"github.com/wonny/oracle/internal/sentiment"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/pkg/logger"
)

// NewsHandler serves the news corpus, sentiment bias, and market pulse.
type NewsHandler struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	logger   *logger.Logger
}

// NewNewsHandler creates a news handler.
func NewNewsHandler(p *pipeline.Pipeline, st store.Store, log *logger.Logger) *NewsHandler {
	return &NewsHandler{pipeline: p, store: st, logger: log}
}

// GetNews returns the latest stored news report with its derived bias.
// GET /api/news
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	report, err := h.store.LoadNews(r.Context())
	if err == store.ErrNotFound {
		respondError(w, http.StatusNotFound, "No news fetched yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load news")
		respondError(w, http.StatusInternalServerError, "Failed to load news")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sentiment_bias": sentiment.Score(report),
		"report":         report,
	})
}

// RefreshNews fetches a fresh corpus and persists it.
// POST /api/news/refresh
func (h *NewsHandler) RefreshNews(w http.ResponseWriter, r *http.Request) {
	report, err := h.pipeline.RefreshNews(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("News refresh failed")
		respondError(w, http.StatusInternalServerError, "News refresh failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":          report.ItemCount(),
		"sentiment_bias": sentiment.Score(report),
		"errors":         report.Errors,
	})
}

// GetPulse returns a live snapshot of headline indices.
// GET /api/pulse
func (h *NewsHandler) GetPulse(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pipeline.Pulse(r.Context()))
}

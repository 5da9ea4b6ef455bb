// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/pipeline"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/pkg/logger"
)

// ScanHandler serves scan results and triggers runs.
type ScanHandler struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	logger   *logger.Logger

	// Serializes triggered runs; concurrent runs against the same
	// portfolio are a race.
	runMu sync.Mutex
}

// NewScanHandler creates a scan handler.
func NewScanHandler(p *pipeline.Pipeline, st store.Store, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		pipeline: p,
		store:    st,
		logger:   log,
	}
}

// GetResults returns the latest scan snapshot.
// GET /api/scan/results
func (h *ScanHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.LoadSnapshot(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load scan snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to load scan results")
		return
	}
	if results == nil {
		results = []contracts.ScanResult{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// TriggerRun runs the full pipeline synchronously. A run already in flight
// returns 409 instead of queuing a second writer.
// POST /api/scan/run
func (h *ScanHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if !h.runMu.TryLock() {
		respondError(w, http.StatusConflict, "A scan is already running")
		return
	}
	defer h.runMu.Unlock()

	report, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Triggered scan failed")
		respondError(w, http.StatusInternalServerError, "Scan failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// GetHistory returns the rolling run history.
// GET /api/scan/history
func (h *ScanHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.LoadHistory(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load scan history")
		respondError(w, http.StatusInternalServerError, "Failed to load scan history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(history),
		"history": history,
	})
}

// GetPredictionLog returns the model thresholds in use.
// GET /api/scan/model
func (h *ScanHandler) GetPredictionLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.store.LoadPredictionLog(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load prediction log")
		respondError(w, http.StatusInternalServerError, "Failed to load prediction log")
		return
	}
	respondJSON(w, http.StatusOK, log)
}

// Analyze scores one symbol ad hoc, without portfolio side effects.
// GET /api/analyze/{symbol}
func (h *ScanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Symbol is required")
		return
	}

	analysis, err := h.pipeline.Analyze(r.Context(), symbol)
	if err != nil {
		h.logger.WithField("symbol", symbol).WithError(err).Error("Ad-hoc analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, analysis)
}

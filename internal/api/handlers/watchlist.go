package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/oracle/internal/marketdata"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/pkg/logger"
)

// WatchlistHandler manages the persisted watchlist.
type WatchlistHandler struct {
	store  store.Store
	logger *logger.Logger
}

// NewWatchlistHandler creates a watchlist handler.
func NewWatchlistHandler(st store.Store, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{store: st, logger: log}
}

// GetWatchlist returns the current watchlist.
// GET /api/watchlist
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.LoadWatchlist(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(symbols),
		"symbols": symbols,
	})
}

// AddSymbol appends one symbol to the watchlist.
// POST /api/watchlist
func (h *WatchlistHandler) AddSymbol(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Symbol) == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	symbol := marketdata.NormalizeSymbol(strings.ToUpper(strings.TrimSpace(req.Symbol)))

	symbols, err := h.store.LoadWatchlist(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}
	for _, s := range symbols {
		if s == symbol {
			respondError(w, http.StatusConflict, "Symbol already on watchlist")
			return
		}
	}

	symbols = append(symbols, symbol)
	if err := h.store.SaveWatchlist(r.Context(), symbols); err != nil {
		h.logger.WithError(err).Error("Failed to save watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to save watchlist")
		return
	}

	h.logger.WithField("symbol", symbol).Info("Symbol added to watchlist")
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"symbol":  symbol,
		"symbols": symbols,
	})
}

// RemoveSymbol deletes one symbol from the watchlist.
// DELETE /api/watchlist/{symbol}
func (h *WatchlistHandler) RemoveSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := marketdata.NormalizeSymbol(strings.ToUpper(mux.Vars(r)["symbol"]))

	symbols, err := h.store.LoadWatchlist(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}

	kept := make([]string, 0, len(symbols))
	found := false
	for _, s := range symbols {
		if s == symbol {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		respondError(w, http.StatusNotFound, "Symbol not on watchlist")
		return
	}

	if err := h.store.SaveWatchlist(r.Context(), kept); err != nil {
		h.logger.WithError(err).Error("Failed to save watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to save watchlist")
		return
	}

	h.logger.WithField("symbol", symbol).Info("Symbol removed from watchlist")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": kept,
	})
}

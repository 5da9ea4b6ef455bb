package handlers

import (
	"net/http"
	"strings"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/pkg/logger"
)

// PortfolioHandler serves the simulated portfolio and its trade ledger.
type PortfolioHandler struct {
	store  store.Store
	logger *logger.Logger
}

// NewPortfolioHandler creates a portfolio handler.
func NewPortfolioHandler(st store.Store, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{store: st, logger: log}
}

// GetPortfolio returns the current portfolio state.
// GET /api/portfolio
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.LoadPortfolio(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load portfolio")
		respondError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GetTrades returns the trade history, optionally filtered by type.
// GET /api/portfolio/trades?type=BUY|SELL
func (h *PortfolioHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.LoadPortfolio(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load portfolio")
		respondError(w, http.StatusInternalServerError, "Failed to load trades")
		return
	}

	trades := p.TradeHistory
	if t := strings.ToUpper(r.URL.Query().Get("type")); t != "" {
		action := contracts.Action(t)
		if action != contracts.ActionBuy && action != contracts.ActionSell {
			respondError(w, http.StatusBadRequest, "type must be BUY or SELL")
			return
		}
		trades = p.Trades(action)
	}
	if trades == nil {
		trades = []contracts.Trade{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(trades),
		"trades": trades,
	})
}

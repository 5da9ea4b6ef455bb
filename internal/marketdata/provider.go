// Package marketdata retrieves price history, quotes and fundamentals from
// Yahoo Finance. It is the only package that talks to the market data vendor.
package marketdata

import (
	"context"
	"time"
)

// Bar is a single daily OHLC observation.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Quote is the latest market snapshot for a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	MarketState   string  `json:"market_state"`
}

// FundamentalData carries the raw fundamental metrics for one symbol. Fields
// are pointers because each metric can fail independently at the vendor.
type FundamentalData struct {
	Symbol           string   `json:"symbol"`
	PE               *float64 `json:"pe,omitempty"`
	SectorPE         *float64 `json:"sector_pe,omitempty"`
	ROEPct           *float64 `json:"roe_pct,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	DividendYieldPct *float64 `json:"dividend_yield_pct,omitempty"`
}

// Provider is the market data dependency consumed by the scanner and the
// fundamentals scorer.
type Provider interface {
	// History returns daily bars, oldest first, covering roughly the last
	// `days` calendar days.
	History(ctx context.Context, symbol string, days int) ([]Bar, error)

	// Quote returns the latest market snapshot.
	Quote(ctx context.Context, symbol string) (*Quote, error)

	// Fundamentals returns the raw fundamental metrics; individual fields
	// may be nil.
	Fundamentals(ctx context.Context, symbol string) (*FundamentalData, error)
}

// Closes extracts the close series from bars, preserving order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// NormalizeSymbol maps user input to a Yahoo symbol. Bare numeric codes are
// BSE scrip codes and become "<code>.BO".
func NormalizeSymbol(symbol string) string {
	if symbol == "" {
		return symbol
	}
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return symbol
		}
	}
	return symbol + ".BO"
}

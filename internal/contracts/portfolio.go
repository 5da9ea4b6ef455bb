package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a single open position. Owned exclusively by Portfolio; at most
// one holding per symbol, no partial lots.
type Holding struct {
	Symbol     string          `json:"symbol"`
	Qty        int64           `json:"qty"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	DateBought time.Time       `json:"date_bought"`
}

// Trade is one entry in the append-only trade ledger. Profit is set on SELL
// trades only.
type Trade struct {
	Date   time.Time        `json:"date"`
	Type   Action           `json:"type"`
	Symbol string           `json:"symbol"`
	Qty    int64            `json:"qty"`
	Price  decimal.Decimal  `json:"price"`
	Profit *decimal.Decimal `json:"profit,omitempty"`
}

// Portfolio is the persisted paper-trading ledger. Loaded at run start,
// mutated in place through the run, persisted atomically at run end.
type Portfolio struct {
	Cash            decimal.Decimal     `json:"cash"`
	Invested        decimal.Decimal     `json:"invested"`
	TotalValue      decimal.Decimal     `json:"total_value"`
	TotalProfitLoss decimal.Decimal     `json:"total_profit_loss"`
	Holdings        map[string]*Holding `json:"holdings"`
	TradeHistory    []Trade             `json:"trade_history"`
}

// NewPortfolio returns an empty portfolio seeded with starting cash.
func NewPortfolio(startingCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		Cash:         startingCash,
		Invested:     decimal.Zero,
		TotalValue:   startingCash,
		Holdings:     make(map[string]*Holding),
		TradeHistory: []Trade{},
	}
}

// IsHeld reports whether the symbol currently has an open position.
func (p *Portfolio) IsHeld(symbol string) bool {
	_, ok := p.Holdings[symbol]
	return ok
}

// HoldingCount returns the number of open positions.
func (p *Portfolio) HoldingCount() int {
	return len(p.Holdings)
}

// Trades returns the trades of the given type, newest last.
func (p *Portfolio) Trades(action Action) []Trade {
	var out []Trade
	for _, t := range p.TradeHistory {
		if t.Type == action {
			out = append(out, t)
		}
	}
	return out
}

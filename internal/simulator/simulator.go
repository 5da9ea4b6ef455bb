// Package simulator applies one scan batch to the persisted paper-trading
// portfolio: exits first, then entries, then revaluation.
package simulator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/strategy"
	"github.com/wonny/oracle/pkg/logger"
)

// Simulator mutates a Portfolio in place from a scan batch. It is a
// single-writer, single-pass operation: never run it concurrently, and
// persist immediately after one invocation per run, since replaying the
// same batch would double-apply trades.
type Simulator struct {
	cfg    *strategy.Config
	logger *logger.Logger
}

// New creates a Simulator.
func New(cfg *strategy.Config, log *logger.Logger) *Simulator {
	return &Simulator{cfg: cfg, logger: log}
}

// BatchOutcome summarizes the trades one batch produced.
type BatchOutcome struct {
	Opened []string
	Closed []string
}

// ApplyBatch runs exits, entries, and revaluation for one full-watchlist
// batch. Never invoke it for ad-hoc single-symbol queries.
func (s *Simulator) ApplyBatch(p *contracts.Portfolio, results []contracts.ScanResult, now time.Time) BatchOutcome {
	prices := make(map[string]decimal.Decimal, len(results))
	bySymbol := make(map[string]contracts.ScanResult, len(results))
	for _, r := range results {
		prices[r.Symbol] = decimal.NewFromFloat(r.Price)
		bySymbol[r.Symbol] = r
	}

	outcome := BatchOutcome{}
	closed := s.applyExits(p, bySymbol, prices, now)
	for _, symbol := range closed {
		outcome.Closed = append(outcome.Closed, symbol)
	}

	// A symbol sold this batch stays out until the next run.
	closedSet := make(map[string]struct{}, len(closed))
	for _, symbol := range closed {
		closedSet[symbol] = struct{}{}
	}
	outcome.Opened = s.applyEntries(p, results, closedSet, now)

	s.revalue(p, prices)
	return outcome
}

// applyExits closes holdings whose signal or price breaches an exit rule.
// A holding with no result in the current batch is left untouched.
func (s *Simulator) applyExits(p *contracts.Portfolio, bySymbol map[string]contracts.ScanResult, prices map[string]decimal.Decimal, now time.Time) []string {
	symbols := make([]string, 0, len(p.Holdings))
	for symbol := range p.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	stopFactor := decimal.NewFromFloat(s.cfg.Exit.StopLossFactor)
	takeFactor := decimal.NewFromFloat(s.cfg.Exit.TakeProfitFactor)

	var closed []string
	for _, symbol := range symbols {
		result, ok := bySymbol[symbol]
		if !ok {
			continue
		}
		holding := p.Holdings[symbol]
		price := prices[symbol]

		stop := holding.AvgPrice.Mul(stopFactor)
		take := holding.AvgPrice.Mul(takeFactor)

		sell := result.Action == contracts.ActionSell ||
			price.LessThan(stop) ||
			price.GreaterThan(take)
		if !sell {
			continue
		}

		qty := decimal.NewFromInt(holding.Qty)
		proceeds := qty.Mul(price)
		profit := proceeds.Sub(qty.Mul(holding.AvgPrice))

		p.Cash = p.Cash.Add(proceeds)
		delete(p.Holdings, symbol)
		p.TradeHistory = append(p.TradeHistory, contracts.Trade{
			Date:   now,
			Type:   contracts.ActionSell,
			Symbol: symbol,
			Qty:    holding.Qty,
			Price:  price,
			Profit: &profit,
		})
		closed = append(closed, symbol)

		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"qty":    holding.Qty,
			"price":  price.String(),
			"profit": profit.String(),
		}).Info("Position closed")
	}
	return closed
}

// applyEntries opens positions for HIGH-priority BUY signals, in batch
// order. Entries run after all exits so freed cash is available, but a
// symbol closed this batch cannot be re-entered.
func (s *Simulator) applyEntries(p *contracts.Portfolio, results []contracts.ScanResult, closedSet map[string]struct{}, now time.Time) []string {
	fraction := decimal.NewFromFloat(s.cfg.Entry.AllocationFraction)
	minTicket := decimal.NewFromFloat(s.cfg.Entry.MinTicket)

	var opened []string
	for _, r := range results {
		if r.Action != contracts.ActionBuy || r.Priority != contracts.PriorityHigh {
			continue
		}
		if p.IsHeld(r.Symbol) {
			continue
		}
		if _, ok := closedSet[r.Symbol]; ok {
			continue
		}

		price := decimal.NewFromFloat(r.Price)
		if price.LessThanOrEqual(decimal.Zero) {
			continue
		}

		// Minimum-ticket filter is exclusive: allocation must exceed it.
		allocation := p.Cash.Mul(fraction)
		if !allocation.GreaterThan(minTicket) {
			continue
		}

		qty := allocation.Div(price).IntPart()
		if qty <= 0 {
			continue
		}

		cost := decimal.NewFromInt(qty).Mul(price)
		p.Cash = p.Cash.Sub(cost)
		p.Holdings[r.Symbol] = &contracts.Holding{
			Symbol:     r.Symbol,
			Qty:        qty,
			AvgPrice:   price,
			DateBought: now,
		}
		p.TradeHistory = append(p.TradeHistory, contracts.Trade{
			Date:   now,
			Type:   contracts.ActionBuy,
			Symbol: r.Symbol,
			Qty:    qty,
			Price:  price,
		})
		opened = append(opened, r.Symbol)

		s.logger.WithFields(map[string]interface{}{
			"symbol": r.Symbol,
			"qty":    qty,
			"price":  price.String(),
		}).Info("Position opened")
	}
	return opened
}

// revalue recomputes invested/total/PL. A holding whose symbol dropped out
// of the batch is valued at its average entry price.
func (s *Simulator) revalue(p *contracts.Portfolio, prices map[string]decimal.Decimal) {
	invested := decimal.Zero
	for symbol, holding := range p.Holdings {
		price, ok := prices[symbol]
		if !ok {
			price = holding.AvgPrice
		}
		invested = invested.Add(decimal.NewFromInt(holding.Qty).Mul(price))
	}

	p.Invested = invested
	p.TotalValue = p.Cash.Add(invested)
	p.TotalProfitLoss = p.TotalValue.Sub(decimal.NewFromFloat(s.cfg.Portfolio.StartingCash))
}

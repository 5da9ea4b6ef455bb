package simulator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/strategy"
	"github.com/wonny/oracle/pkg/logger"
)

func newSimulator() *Simulator {
	return New(strategy.Default(), logger.NewNop())
}

func buyResult(symbol string, price float64) contracts.ScanResult {
	return contracts.ScanResult{
		Symbol:   symbol,
		Price:    price,
		Action:   contracts.ActionBuy,
		Priority: contracts.PriorityHigh,
	}
}

func holdResult(symbol string, price float64) contracts.ScanResult {
	return contracts.ScanResult{
		Symbol:   symbol,
		Price:    price,
		Action:   contracts.ActionHold,
		Priority: contracts.PriorityLow,
	}
}

func sellResult(symbol string, price float64) contracts.ScanResult {
	return contracts.ScanResult{
		Symbol:   symbol,
		Price:    price,
		Action:   contracts.ActionSell,
		Priority: contracts.PriorityMedium,
	}
}

func withHolding(p *contracts.Portfolio, symbol string, qty int64, avgPrice float64) {
	p.Holdings[symbol] = &contracts.Holding{
		Symbol:   symbol,
		Qty:      qty,
		AvgPrice: decimal.NewFromFloat(avgPrice),
	}
}

func TestApplyBatchOpensHighPriorityBuy(t *testing.T) {
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{buyResult("TCS.NS", 100)}, time.Now())

	if len(outcome.Opened) != 1 || outcome.Opened[0] != "TCS.NS" {
		t.Fatalf("expected TCS.NS opened, got %v", outcome.Opened)
	}

	h := p.Holdings["TCS.NS"]
	if h == nil {
		t.Fatal("expected holding")
	}
	// allocation = 20000, qty = 200, cost = 20000
	if h.Qty != 200 {
		t.Errorf("expected qty 200, got %d", h.Qty)
	}
	if !p.Cash.Equal(decimal.NewFromInt(80000)) {
		t.Errorf("expected cash 80000, got %s", p.Cash)
	}
	if !p.Invested.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("expected invested 20000, got %s", p.Invested)
	}
	if !p.TotalValue.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected total 100000, got %s", p.TotalValue)
	}
	if !p.TotalProfitLoss.IsZero() {
		t.Errorf("expected zero P/L, got %s", p.TotalProfitLoss)
	}

	trades := p.Trades(contracts.ActionBuy)
	if len(trades) != 1 || trades[0].Symbol != "TCS.NS" || trades[0].Qty != 200 {
		t.Errorf("expected one BUY trade for 200 shares, got %+v", trades)
	}
}

func TestApplyBatchSkipsNonHighOrNonBuy(t *testing.T) {
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))

	mediumBuy := buyResult("A.NS", 100)
	mediumBuy.Priority = contracts.PriorityMedium

	sim.ApplyBatch(p, []contracts.ScanResult{mediumBuy, holdResult("B.NS", 50)}, time.Now())

	if p.HoldingCount() != 0 {
		t.Errorf("expected no holdings, got %d", p.HoldingCount())
	}
	if !p.Cash.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected untouched cash, got %s", p.Cash)
	}
}

func TestApplyBatchMinTicketBoundaryExclusive(t *testing.T) {
	// cash=10000 gives allocation exactly 2000, which must NOT open.
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(10000))

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{buyResult("A.NS", 100)}, time.Now())

	if len(outcome.Opened) != 0 {
		t.Fatalf("expected no entry at the boundary, got %v", outcome.Opened)
	}
	if p.HoldingCount() != 0 {
		t.Error("expected no holdings")
	}
}

func TestApplyBatchSkipsZeroQty(t *testing.T) {
	// allocation 2400 > 2000 but price above allocation floors qty to 0.
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(12000))

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{buyResult("A.NS", 5000)}, time.Now())

	if len(outcome.Opened) != 0 {
		t.Fatalf("expected no entry with zero qty, got %v", outcome.Opened)
	}
}

func TestApplyBatchClosesOnSellSignal(t *testing.T) {
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "A.NS", 100, 100)
	p.Cash = decimal.NewFromInt(90000)

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{sellResult("A.NS", 110)}, time.Now())

	if len(outcome.Closed) != 1 || outcome.Closed[0] != "A.NS" {
		t.Fatalf("expected A.NS closed, got %v", outcome.Closed)
	}
	if p.IsHeld("A.NS") {
		t.Error("holding must be removed")
	}
	// 90000 + 100*110
	if !p.Cash.Equal(decimal.NewFromInt(101000)) {
		t.Errorf("expected cash 101000, got %s", p.Cash)
	}

	trades := p.Trades(contracts.ActionSell)
	if len(trades) != 1 {
		t.Fatalf("expected one SELL trade, got %d", len(trades))
	}
	if trades[0].Profit == nil || !trades[0].Profit.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected realized profit 1000, got %v", trades[0].Profit)
	}
}

func TestApplyBatchStopLossOverridesAction(t *testing.T) {
	// Entry 100, price 84: breaches the 5% stop regardless of the signal.
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "A.NS", 10, 100)
	p.Cash = decimal.NewFromInt(99000)

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{holdResult("A.NS", 84)}, time.Now())

	if len(outcome.Closed) != 1 {
		t.Fatalf("expected stop-loss close, got %v", outcome.Closed)
	}
	trades := p.Trades(contracts.ActionSell)
	if trades[0].Profit == nil || !trades[0].Profit.Equal(decimal.NewFromInt(-160)) {
		t.Errorf("expected realized loss -160, got %v", trades[0].Profit)
	}
}

func TestApplyBatchTakeProfit(t *testing.T) {
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "A.NS", 10, 100)
	p.Cash = decimal.NewFromInt(99000)

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{holdResult("A.NS", 116)}, time.Now())

	if len(outcome.Closed) != 1 {
		t.Fatalf("expected take-profit close, got %v", outcome.Closed)
	}
}

func TestApplyBatchLeavesHoldingWithoutResult(t *testing.T) {
	// No forced liquidation when the symbol dropped out of the batch;
	// revaluation falls back to the entry price.
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "GONE.NS", 50, 200)
	p.Cash = decimal.NewFromInt(90000)

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{holdResult("OTHER.NS", 100)}, time.Now())

	if len(outcome.Closed) != 0 {
		t.Fatalf("expected no closes, got %v", outcome.Closed)
	}
	if !p.IsHeld("GONE.NS") {
		t.Error("holding must survive a missing result")
	}
	if !p.Invested.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected invested 10000 at entry price, got %s", p.Invested)
	}
}

func TestApplyBatchNoReentrySameBatch(t *testing.T) {
	// A symbol sold this batch cannot be re-entered even by a HIGH BUY.
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "A.NS", 100, 200)
	p.Cash = decimal.NewFromInt(80000)

	// Price 84 breaches the stop; the same result is also a HIGH BUY.
	breach := buyResult("A.NS", 84)

	outcome := sim.ApplyBatch(p, []contracts.ScanResult{breach}, time.Now())

	if len(outcome.Closed) != 1 {
		t.Fatalf("expected close, got %v", outcome.Closed)
	}
	if len(outcome.Opened) != 0 {
		t.Fatalf("expected no re-entry, got %v", outcome.Opened)
	}
	if p.IsHeld("A.NS") {
		t.Error("symbol must stay out for the rest of the batch")
	}
}

func TestApplyBatchNeverDuplicatesHolding(t *testing.T) {
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))

	batch := []contracts.ScanResult{buyResult("A.NS", 100)}
	sim.ApplyBatch(p, batch, time.Now())
	sim.ApplyBatch(p, batch, time.Now())

	if p.HoldingCount() != 1 {
		t.Fatalf("expected single holding, got %d", p.HoldingCount())
	}
	if len(p.Trades(contracts.ActionBuy)) != 1 {
		t.Error("held symbol must not be bought again")
	}
}

func TestApplyBatchCashConservation(t *testing.T) {
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "OLD.NS", 30, 150)
	p.Cash = decimal.NewFromInt(95500)

	cashBefore := p.Cash

	results := []contracts.ScanResult{
		sellResult("OLD.NS", 160),
		buyResult("NEW.NS", 250),
	}
	outcome := sim.ApplyBatch(p, results, time.Now())

	var proceeds, costs decimal.Decimal
	for _, tr := range p.TradeHistory {
		amount := decimal.NewFromInt(tr.Qty).Mul(tr.Price)
		switch tr.Type {
		case contracts.ActionSell:
			proceeds = proceeds.Add(amount)
		case contracts.ActionBuy:
			costs = costs.Add(amount)
		}
	}

	want := cashBefore.Add(proceeds).Sub(costs)
	if !p.Cash.Equal(want) {
		t.Errorf("cash conservation violated: got %s, want %s", p.Cash, want)
	}
	if len(outcome.Closed) != 1 || len(outcome.Opened) != 1 {
		t.Errorf("expected one close and one open, got %v / %v", outcome.Closed, outcome.Opened)
	}
}

func TestApplyBatchExitsFreeCashForEntries(t *testing.T) {
	// Entry allocation is computed from post-exit cash.
	sim := newSimulator()
	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	withHolding(p, "OLD.NS", 100, 500)
	p.Cash = decimal.NewFromInt(5000)

	results := []contracts.ScanResult{
		sellResult("OLD.NS", 500),
		buyResult("NEW.NS", 100),
	}
	outcome := sim.ApplyBatch(p, results, time.Now())

	if len(outcome.Opened) != 1 {
		t.Fatalf("expected entry funded by exit proceeds, got %v", outcome.Opened)
	}
	// cash after exit = 55000, allocation = 11000, qty = 110
	if p.Holdings["NEW.NS"].Qty != 110 {
		t.Errorf("expected qty 110, got %d", p.Holdings["NEW.NS"].Qty)
	}
}

// Package scan scores watchlist symbols into BUY/SELL/HOLD recommendations
// by blending technical, sentiment, and fundamental inputs.
package scan

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/indicators"
	"github.com/wonny/oracle/internal/marketdata"
	"github.com/wonny/oracle/internal/strategy"
	"github.com/wonny/oracle/pkg/logger"
)

// Extractor derives an indicator snapshot from a close series.
type Extractor interface {
	Extract(closes []float64) (*indicators.Snapshot, error)
}

// FundamentalScorer supplies the fundamental sub-record for a symbol.
type FundamentalScorer interface {
	Score(ctx context.Context, symbol string) contracts.FundamentalRecord
}

// Scanner scores one symbol at a time. Symbols are independent, so callers
// may fan Scan out concurrently.
type Scanner struct {
	provider     marketdata.Provider
	extractor    Extractor
	fundamentals FundamentalScorer
	cfg          *strategy.Config
	logger       *logger.Logger
}

// NewScanner wires a Scanner from its collaborators.
func NewScanner(provider marketdata.Provider, extractor Extractor, fundamentals FundamentalScorer, cfg *strategy.Config, log *logger.Logger) *Scanner {
	return &Scanner{
		provider:     provider,
		extractor:    extractor,
		fundamentals: fundamentals,
		cfg:          cfg,
		logger:       log,
	}
}

// Scan scores a single symbol. Failures never propagate as errors: the
// outcome carries a typed skip reason so the batch report can distinguish
// "no signal" from "data unavailable".
func (s *Scanner) Scan(ctx context.Context, symbol string, pred *contracts.PredictionLog, sentimentBias float64) contracts.SymbolOutcome {
	symbol = marketdata.NormalizeSymbol(symbol)

	bars, err := s.provider.History(ctx, symbol, s.cfg.History.LookbackDays)
	if err != nil {
		s.logger.WithField("symbol", symbol).WithError(err).Warn("History retrieval failed, skipping symbol")
		return skipped(symbol, contracts.SkipDataUnavailable, err.Error())
	}
	if len(bars) < s.cfg.History.MinBars {
		return skipped(symbol, contracts.SkipInsufficientHistory, "")
	}

	closes := marketdata.Closes(bars)
	snap, err := s.extractor.Extract(closes)
	if err != nil {
		if errors.Is(err, indicators.ErrInsufficientData) {
			return skipped(symbol, contracts.SkipInsufficientHistory, "")
		}
		s.logger.WithField("symbol", symbol).WithError(err).Warn("Indicator computation failed, skipping symbol")
		return skipped(symbol, contracts.SkipDataUnavailable, err.Error())
	}

	// Quote failure degrades to the last close, never skips the symbol.
	name := symbol
	price := closes[len(closes)-1]
	if quote, err := s.provider.Quote(ctx, symbol); err == nil {
		if quote.Name != "" {
			name = quote.Name
		}
		if quote.Price > 0 {
			price = quote.Price
		}
	} else {
		s.logger.WithField("symbol", symbol).WithError(err).Debug("Quote unavailable, using last close")
	}
	price = round2(price)

	fund := s.fundamentals.Score(ctx, symbol)
	result := s.score(symbol, name, price, snap, fund, pred, sentimentBias)

	return contracts.SymbolOutcome{Symbol: symbol, Result: result}
}

// ScanAll scores each watchlist symbol in order.
func (s *Scanner) ScanAll(ctx context.Context, watchlist []string, pred *contracts.PredictionLog, sentimentBias float64) []contracts.SymbolOutcome {
	outcomes := make([]contracts.SymbolOutcome, 0, len(watchlist))
	for _, symbol := range watchlist {
		outcomes = append(outcomes, s.Scan(ctx, symbol, pred, sentimentBias))
	}
	return outcomes
}

// score blends the sub-scores into the master score and derives action,
// priority, and target/stop projections.
func (s *Scanner) score(symbol, name string, price float64, snap *indicators.Snapshot, fund contracts.FundamentalRecord, pred *contracts.PredictionLog, sentimentBias float64) *contracts.ScanResult {
	sc := s.cfg.Scoring

	// Technical sub-score: RSI adjustments are mutually exclusive, the MACD
	// adjustment always applies.
	technical := 50.0
	switch {
	case snap.RSI < pred.BuyRSIThreshold:
		technical += 25
	case snap.RSI > pred.SellRSIThreshold:
		technical -= 25
	}
	if snap.MACD > snap.MACDSignal {
		technical += 10
	} else {
		technical -= 10
	}

	// Sentiment bias [-15, 15] scaled into the 0-100 register.
	sentimentContribution := 50 + sentimentBias*2

	master := round2(sc.TechnicalWeight*technical +
		sc.SentimentWeight*sentimentContribution +
		sc.FundamentalWeight*fund.Score)

	action := contracts.ActionHold
	switch {
	case master > sc.BuyCutoff:
		action = contracts.ActionBuy
	case master < sc.SellCutoff:
		action = contracts.ActionSell
	}

	priority := contracts.PriorityLow
	switch {
	case master >= sc.HighCutoff || master <= 100-sc.HighCutoff:
		priority = contracts.PriorityHigh
	case master >= sc.MediumCutoff || master <= 100-sc.MediumCutoff:
		priority = contracts.PriorityMedium
	}

	target, stop := s.project(action, price, snap)

	var profitPct, lossPct float64
	if action == contracts.ActionBuy {
		profitPct = (target - price) / price * 100
		lossPct = (price - stop) / price * 100
	} else {
		profitPct = (price - target) / price * 100
		lossPct = (stop - price) / price * 100
	}

	return &contracts.ScanResult{
		Symbol:             symbol,
		Name:               name,
		Price:              price,
		Action:             action,
		Priority:           priority,
		RSI:                round2(snap.RSI),
		Score:              master,
		Fundamentals:       fund,
		TargetPrice:        target,
		StopLoss:           stop,
		PotentialProfitPct: math.Max(0, round2(profitPct)),
		PotentialLossPct:   math.Max(0, round2(lossPct)),
		Timestamp:          time.Now(),
	}
}

// project derives the target/stop pair. BUY projects to the Bollinger band
// edges with a guard so the target always sits strictly above price;
// SELL/HOLD project the fixed factors, with the symmetric guard for SELL.
func (s *Scanner) project(action contracts.Action, price float64, snap *indicators.Snapshot) (target, stop float64) {
	tg := s.cfg.Targets

	if action == contracts.ActionBuy {
		target = round2(snap.BollingerUpper)
		stop = round2(snap.BollingerLower)
		if target <= price {
			target = round2(price * tg.SellStopFactor)
		}
		return target, stop
	}

	// Factor validation keeps sell_target_factor below 1, so the SELL/HOLD
	// target is strictly below price by construction.
	target = round2(price * tg.SellTargetFactor)
	stop = round2(price * tg.SellStopFactor)
	return target, stop
}

func skipped(symbol string, reason contracts.SkipReason, detail string) contracts.SymbolOutcome {
	return contracts.SymbolOutcome{Symbol: symbol, Skip: reason, Detail: detail}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

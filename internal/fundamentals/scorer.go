// Package fundamentals turns raw valuation metrics into a 0-100 tilt score.
// Fundamentals are a best-effort input: a failing provider yields the
// neutral record, never an error.
package fundamentals

import (
	"context"
	"strconv"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/marketdata"
	"github.com/wonny/oracle/pkg/logger"
)

// Scorer computes fundamental scores from a market-data provider.
type Scorer struct {
	provider marketdata.Provider
	sectorPE float64
	logger   *logger.Logger
}

// NewScorer creates a Scorer. sectorPE is the benchmark used when the
// provider has no sector figure for a symbol.
func NewScorer(provider marketdata.Provider, sectorPE float64, log *logger.Logger) *Scorer {
	return &Scorer{
		provider: provider,
		sectorPE: sectorPE,
		logger:   log,
	}
}

// Score fetches fundamentals for symbol and scores them. Any provider
// failure returns the neutral record.
func (s *Scorer) Score(ctx context.Context, symbol string) contracts.FundamentalRecord {
	data, err := s.provider.Fundamentals(ctx, symbol)
	if err != nil || data == nil {
		s.logger.WithField("symbol", symbol).WithError(err).
			Debug("fundamentals unavailable, using neutral record")
		return contracts.NeutralFundamentals()
	}
	return s.scoreData(data)
}

// scoreData applies the adjustment table. Fields the provider could not
// supply are skipped, leaving that adjustment at zero.
func (s *Scorer) scoreData(data *marketdata.FundamentalData) contracts.FundamentalRecord {
	score := 50.0

	sectorPE := s.sectorPE
	if data.SectorPE != nil {
		sectorPE = *data.SectorPE
	}

	// Valuation: cheap vs sector is rewarded, rich is penalized.
	if data.PE != nil && sectorPE > 0 {
		switch {
		case *data.PE < sectorPE:
			score += 15
		case *data.PE > sectorPE*1.5:
			score -= 10
		}
	}

	// Profitability.
	if data.ROEPct != nil {
		switch {
		case *data.ROEPct > 15:
			score += 15
		case *data.ROEPct < 5:
			score -= 10
		}
	}

	// Leverage.
	if data.DebtToEquity != nil {
		switch {
		case *data.DebtToEquity < 1.0:
			score += 10
		case *data.DebtToEquity > 2.0:
			score -= 15
		}
	}

	// Yield.
	if data.DividendYieldPct != nil && *data.DividendYieldPct > 2 {
		score += 10
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return contracts.FundamentalRecord{
		Score:        score,
		PE:           formatMetric(data.PE),
		SectorPE:     formatFixed(sectorPE),
		ROEPct:       formatMetric(data.ROEPct),
		DebtToEquity: formatMetric(data.DebtToEquity),
	}
}

func formatMetric(v *float64) string {
	if v == nil {
		return contracts.MetricUnavailable
	}
	return formatFixed(*v)
}

func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

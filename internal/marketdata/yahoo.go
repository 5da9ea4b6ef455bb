package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"

	"github.com/wonny/oracle/pkg/logger"
	"github.com/wonny/oracle/pkg/redis"
)

// YahooProvider implements Provider on top of Yahoo Finance, with optional
// Redis caching in front of every vendor call.
type YahooProvider struct {
	cache      *redis.Cache
	summaries  *SummaryClient
	sectorPE   float64
	logger     *logger.Logger
	quoteTTL   time.Duration
	historyTTL time.Duration
}

// YahooOptions configures the provider.
type YahooOptions struct {
	Cache      *redis.Cache
	Summaries  *SummaryClient
	SectorPE   float64 // benchmark PE used when the vendor has no sector figure
	QuoteTTL   time.Duration
	HistoryTTL time.Duration
}

// NewYahooProvider creates a Yahoo-backed provider.
func NewYahooProvider(opts YahooOptions, log *logger.Logger) *YahooProvider {
	quoteTTL := opts.QuoteTTL
	if quoteTTL == 0 {
		quoteTTL = redis.TTLShort
	}
	historyTTL := opts.HistoryTTL
	if historyTTL == 0 {
		historyTTL = redis.TTLLong
	}

	return &YahooProvider{
		cache:      opts.Cache,
		summaries:  opts.Summaries,
		sectorPE:   opts.SectorPE,
		logger:     log,
		quoteTTL:   quoteTTL,
		historyTTL: historyTTL,
	}
}

// History returns daily bars for the trailing window, oldest first.
func (p *YahooProvider) History(ctx context.Context, symbol string, days int) ([]Bar, error) {
	symbol = NormalizeSymbol(symbol)

	if p.cache != nil {
		var cached []Bar
		if found, _ := p.cache.Get(ctx, redis.HistoryKey(symbol, days), &cached); found {
			return cached, nil
		}
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	bars := make([]Bar, 0, days)
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, Bar{
			Date:   time.Unix(int64(b.Timestamp), 0),
			Open:   b.Open.InexactFloat64(),
			High:   b.High.InexactFloat64(),
			Low:    b.Low.InexactFloat64(),
			Close:  b.Close.InexactFloat64(),
			Volume: int64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart for %s: %w", symbol, err)
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, redis.HistoryKey(symbol, days), bars, p.historyTTL)
	}

	return bars, nil
}

// Quote returns the latest market snapshot for a symbol.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = NormalizeSymbol(symbol)

	if p.cache != nil {
		var cached Quote
		if found, _ := p.cache.Get(ctx, redis.QuoteKey(symbol), &cached); found {
			return &cached, nil
		}
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("yahoo quote for %s: no data", symbol)
	}

	name := q.ShortName
	if name == "" {
		name = symbol
	}

	result := &Quote{
		Symbol:        symbol,
		Name:          name,
		Price:         q.RegularMarketPrice,
		PreviousClose: q.RegularMarketPreviousClose,
		MarketState:   string(q.MarketState),
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, redis.QuoteKey(symbol), result, p.quoteTTL)
	}

	return result, nil
}

// Fundamentals returns the raw fundamental metrics for a symbol. The
// quoteSummary endpoint supplies ROE and debt/equity; quote-level EPS and
// book value fill the gaps when it does not.
func (p *YahooProvider) Fundamentals(ctx context.Context, symbol string) (*FundamentalData, error) {
	symbol = NormalizeSymbol(symbol)

	if p.cache != nil {
		var cached FundamentalData
		if found, _ := p.cache.Get(ctx, redis.FundamentalsKey(symbol), &cached); found {
			return &cached, nil
		}
	}

	data := &FundamentalData{Symbol: symbol}

	if p.sectorPE > 0 {
		sectorPE := p.sectorPE
		data.SectorPE = &sectorPE
	}

	// Quote-level valuation metrics
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo fundamentals for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("yahoo fundamentals for %s: no data", symbol)
	}

	if q.EpsTrailingTwelveMonths > 0 && q.RegularMarketPrice > 0 {
		pe := q.RegularMarketPrice / q.EpsTrailingTwelveMonths
		data.PE = &pe
	}
	if q.TrailingAnnualDividendYield > 0 {
		yield := q.TrailingAnnualDividendYield * 100
		data.DividendYieldPct = &yield
	}
	if q.BookValue > 0 && q.EpsTrailingTwelveMonths != 0 {
		roe := q.EpsTrailingTwelveMonths / q.BookValue * 100
		data.ROEPct = &roe
	}

	// The summary endpoint refines ROE and adds leverage; it fails
	// independently of the quote and is strictly best-effort.
	if p.summaries != nil {
		if summary, err := p.summaries.Get(ctx, symbol); err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).
				Debug("quote summary unavailable, using quote-level metrics")
		} else {
			if summary.ROEPct != nil {
				data.ROEPct = summary.ROEPct
			}
			if summary.DebtToEquity != nil {
				data.DebtToEquity = summary.DebtToEquity
			}
			if summary.PE != nil && data.PE == nil {
				data.PE = summary.PE
			}
			if summary.DividendYieldPct != nil && data.DividendYieldPct == nil {
				data.DividendYieldPct = summary.DividendYieldPct
			}
		}
	}

	if p.cache != nil {
		_ = p.cache.Set(ctx, redis.FundamentalsKey(symbol), data, redis.TTLDaily)
	}

	return data, nil
}

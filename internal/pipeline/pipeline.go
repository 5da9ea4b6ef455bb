// Package pipeline orchestrates one full run: news refresh, sentiment,
// scan, simulation, and persistence. It owns the ordering guarantees the
// simulator depends on.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/marketdata"
	"github.com/wonny/oracle/internal/sentiment"
	"github.com/wonny/oracle/internal/simulator"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/pkg/logger"
)

// SymbolScanner scores symbols into outcomes.
type SymbolScanner interface {
	Scan(ctx context.Context, symbol string, pred *contracts.PredictionLog, sentimentBias float64) contracts.SymbolOutcome
	ScanAll(ctx context.Context, watchlist []string, pred *contracts.PredictionLog, sentimentBias float64) []contracts.SymbolOutcome
}

// NewsFetcher retrieves the news corpus. Degraded categories are recorded
// inside the report, never returned as an error.
type NewsFetcher interface {
	Fetch(ctx context.Context) *contracts.NewsReport
}

// BatchApplier mutates the portfolio from one scan batch.
type BatchApplier interface {
	ApplyBatch(p *contracts.Portfolio, results []contracts.ScanResult, now time.Time) simulator.BatchOutcome
}

// Quoter supplies the quotes the market pulse reads.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (*marketdata.Quote, error)
}

// Pipeline wires the run steps together. Runs against the same store must
// be serialized by the caller (the scheduler guarantees this); concurrent
// Run invocations race on the persisted portfolio.
type Pipeline struct {
	store        store.Store
	scanner      SymbolScanner
	fetcher      NewsFetcher
	simulator    BatchApplier
	quoter       Quoter
	strategyHash string
	logger       *logger.Logger
	now          func() time.Time
}

// New creates a Pipeline.
func New(st store.Store, scanner SymbolScanner, fetcher NewsFetcher, sim BatchApplier, quoter Quoter, strategyHash string, log *logger.Logger) *Pipeline {
	return &Pipeline{
		store:        st,
		scanner:      scanner,
		fetcher:      fetcher,
		simulator:    sim,
		quoter:       quoter,
		strategyHash: strategyHash,
		logger:       log,
		now:          time.Now,
	}
}

// Run executes one full-watchlist batch. Persistence failures abort the
// run; everything else degrades per symbol or per provider.
func (p *Pipeline) Run(ctx context.Context) (*contracts.BatchReport, error) {
	started := p.now()

	report := &contracts.BatchReport{
		Date:         started,
		StrategyHash: p.strategyHash,
	}

	// News refresh is an explicit pipeline step; its failure mode is a
	// degraded report, visible in the batch report, not a silent skip.
	news := p.fetcher.Fetch(ctx)
	if err := p.store.SaveNews(ctx, news); err != nil {
		return nil, fmt.Errorf("failed to persist news: %w", err)
	}
	report.NewsError = joinCategoryErrors(news.Errors)
	report.SentimentBias = sentiment.Score(news)

	watchlist, err := p.store.LoadWatchlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	pred, err := p.store.LoadPredictionLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction log: %w", err)
	}
	portfolio, err := p.store.LoadPortfolio(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"symbols":        len(watchlist),
		"sentiment_bias": report.SentimentBias,
	}).Info("Scan batch started")

	report.Outcomes = p.scanner.ScanAll(ctx, watchlist, pred, report.SentimentBias)
	results := report.Results()

	if len(results) == 0 {
		// Zero scored symbols is still a completed run. Prior state is
		// left untouched so a transient outage cannot erase a snapshot.
		report.NoResults = true
		p.logger.Warn("Scan batch produced no results")
		return report, nil
	}

	outcome := p.simulator.ApplyBatch(portfolio, results, started)
	report.Opened = outcome.Opened
	report.Closed = outcome.Closed

	if err := p.store.SaveSnapshot(ctx, results); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	if err := p.store.SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to persist portfolio: %w", err)
	}
	// Thresholds pass through unchanged; mutation belongs to an external
	// learning process.
	if err := p.store.SavePredictionLog(ctx, pred); err != nil {
		return nil, fmt.Errorf("failed to persist prediction log: %w", err)
	}
	if err := p.store.AppendHistory(ctx, contracts.HistoryEntry{
		Date:          started,
		Predictions:   results,
		SentimentBias: report.SentimentBias,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist history: %w", err)
	}

	p.logger.WithFields(map[string]interface{}{
		"scored":  len(results),
		"skipped": report.SkippedCount(),
		"opened":  len(report.Opened),
		"closed":  len(report.Closed),
	}).Info("Scan batch completed")

	return report, nil
}

// AdhocAnalysis is the result of a single-symbol query.
type AdhocAnalysis struct {
	Outcome       contracts.SymbolOutcome `json:"outcome"`
	SentimentBias float64                 `json:"sentiment_bias"`
}

// Analyze scores one symbol using the stored news corpus. It is strictly
// read-only with respect to portfolio and trade state.
func (p *Pipeline) Analyze(ctx context.Context, symbol string) (*AdhocAnalysis, error) {
	news, err := p.store.LoadNews(ctx)
	if err != nil && err != store.ErrNotFound {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}
	bias := sentiment.Score(news)

	pred, err := p.store.LoadPredictionLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction log: %w", err)
	}

	return &AdhocAnalysis{
		Outcome:       p.scanner.Scan(ctx, symbol, pred, bias),
		SentimentBias: bias,
	}, nil
}

// RefreshNews fetches and persists the news corpus outside a full run,
// for the standalone news job.
func (p *Pipeline) RefreshNews(ctx context.Context) (*contracts.NewsReport, error) {
	news := p.fetcher.Fetch(ctx)
	if err := p.store.SaveNews(ctx, news); err != nil {
		return nil, fmt.Errorf("failed to persist news: %w", err)
	}
	p.logger.WithField("items", news.ItemCount()).Info("News refreshed")
	return news, nil
}

func joinCategoryErrors(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	categories := make([]string, 0, len(errs))
	for cat := range errs {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, cat := range categories {
		parts = append(parts, fmt.Sprintf("%s: %s", cat, errs[cat]))
	}
	return strings.Join(parts, "; ")
}

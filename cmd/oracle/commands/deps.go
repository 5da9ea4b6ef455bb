package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/oracle/internal/fundamentals"
	"github.com/wonny/oracle/internal/indicators"
	"github.com/wonny/oracle/internal/marketdata"
	"github.com/wonny/oracle/internal/pipeline"
	"github.com/wonny/oracle/internal/scan"
	"github.com/wonny/oracle/internal/sentiment"
	"github.com/wonny/oracle/internal/simulator"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/internal/strategy"
	"github.com/wonny/oracle/pkg/config"
	"github.com/wonny/oracle/pkg/database"
	"github.com/wonny/oracle/pkg/httputil"
	"github.com/wonny/oracle/pkg/logger"
	"github.com/wonny/oracle/pkg/redis"
)

// deps bundles the wired application graph shared by every command.
type deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Strategy *strategy.Config
	Store    store.Store
	Pipeline *pipeline.Pipeline

	cleanup []func()
}

// Close releases resources in reverse wiring order.
func (d *deps) Close() {
	for i := len(d.cleanup) - 1; i >= 0; i-- {
		d.cleanup[i]()
	}
}

// initDeps loads config and wires the full pipeline.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	d := &deps{Config: cfg, Logger: log}

	strat, err := strategy.LoadOrDefault(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}
	hash, err := strategy.Hash(strat)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}
	d.Strategy = strat

	// Redis is optional; when disabled the cache and shared rate limiter
	// become no-ops and the local token buckets take over.
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	d.cleanup = append(d.cleanup, func() { redisClient.Close() })

	marketCache := redis.NewCache(redisClient, "oracle")
	rateLimiter := redis.NewRateLimiter(redisClient, "oracle")

	summaryHTTP := httputil.NewWithTimeout(cfg, log, 15*time.Second).
		WithRateLimiter(rateLimiter, redis.YahooRateLimit).
		WithLocalRateLimit(5, 5)
	newsHTTP := httputil.NewWithTimeout(cfg, log, cfg.News.Timeout).
		WithRateLimiter(rateLimiter, redis.NewsRateLimit).
		WithLocalRateLimit(2, 2)

	provider := marketdata.NewYahooProvider(marketdata.YahooOptions{
		Cache:      marketCache,
		Summaries:  marketdata.NewSummaryClient(summaryHTTP, log),
		SectorPE:   strat.Fundamentals.SectorPEDefault,
		QuoteTTL:   cfg.Market.QuoteTTL,
		HistoryTTL: cfg.Market.HistoryTTL,
	}, log)

	st, err := initStore(cfg, strat, log, d)
	if err != nil {
		return nil, err
	}
	d.Store = st

	scorer := fundamentals.NewScorer(provider, strat.Fundamentals.SectorPEDefault, log)
	scanner := scan.NewScanner(provider, indicators.NewCalculator(), scorer, strat, log)
	sim := simulator.New(strat, log)
	fetcher := sentiment.NewFetcher(sentiment.FetcherOptions{
		Client:         newsHTTP,
		BaseURL:        cfg.News.BaseURL,
		MaxPerCategory: cfg.News.MaxPerCategory,
		Logger:         log,
	})

	d.Pipeline = pipeline.New(st, scanner, fetcher, sim, provider, hash, log)
	return d, nil
}

// initStore selects the persistence driver from config.
func initStore(cfg *config.Config, strat *strategy.Config, log *logger.Logger, d *deps) (store.Store, error) {
	startingCash := decimal.NewFromFloat(strat.Portfolio.StartingCash)

	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		d.cleanup = append(d.cleanup, db.Close)

		st, err := store.NewPostgresStore(context.Background(), db.Pool, startingCash, log)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		return st, nil
	default:
		st, err := store.NewFileStore(cfg.Store.DataDir, startingCash, log)
		if err != nil {
			return nil, fmt.Errorf("init file store: %w", err)
		}
		return st, nil
	}
}

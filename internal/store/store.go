// Package store persists the engine's durable state: portfolio, prediction
// log, scan snapshot, watchlist, news, and run history. Two drivers share
// one contract: JSON files for single-host deployments and Postgres for
// shared ones.
package store

import (
	"context"
	"errors"

	"github.com/wonny/oracle/internal/contracts"
)

// HistoryLimit is the number of runs the rolling scan history retains.
const HistoryLimit = 10

// ErrNotFound marks state that has never been persisted. Load methods
// translate it into the documented default; any other read error is a
// persistence failure and must abort the run.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract. Loads return the documented default
// when the record has never been saved; saves are atomic (temp-then-rename
// for the file driver, a transaction for Postgres), so a crashed run never
// leaves a half-written record behind.
type Store interface {
	// LoadPortfolio returns the persisted portfolio, or a fresh one seeded
	// with the configured starting cash.
	LoadPortfolio(ctx context.Context) (*contracts.Portfolio, error)
	SavePortfolio(ctx context.Context, p *contracts.Portfolio) error

	// LoadPredictionLog returns the persisted thresholds, or the documented
	// defaults (30/70, accuracy 50).
	LoadPredictionLog(ctx context.Context) (*contracts.PredictionLog, error)
	SavePredictionLog(ctx context.Context, log *contracts.PredictionLog) error

	// LoadSnapshot returns the latest scan snapshot; empty when no run has
	// completed yet.
	LoadSnapshot(ctx context.Context) ([]contracts.ScanResult, error)
	SaveSnapshot(ctx context.Context, results []contracts.ScanResult) error

	// LoadWatchlist returns the persisted watchlist, or the default NSE set.
	LoadWatchlist(ctx context.Context) ([]string, error)
	SaveWatchlist(ctx context.Context, symbols []string) error

	// LoadNews returns the latest news report, or ErrNotFound when none has
	// been fetched yet; callers treat that as a neutral corpus, not a failure.
	LoadNews(ctx context.Context) (*contracts.NewsReport, error)
	// SaveNews stores the report as the latest and appends it to the archive.
	SaveNews(ctx context.Context, report *contracts.NewsReport) error

	// LoadHistory returns the rolling run history, oldest first.
	LoadHistory(ctx context.Context) ([]contracts.HistoryEntry, error)
	// AppendHistory adds one run, evicting the oldest beyond HistoryLimit.
	AppendHistory(ctx context.Context, entry contracts.HistoryEntry) error

	Close()
}

// DefaultWatchlist is the NSE/BSE set scanned when the user has never saved
// a watchlist.
func DefaultWatchlist() []string {
	return []string{
		"RELIANCE.NS",
		"TCS.NS",
		"HDFCBANK.NS",
		"SBIN.NS",
		"MCX.NS",
		"SILVERBEES.NS",
	}
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/pkg/logger"
)

// PostgresStore persists state as JSONB documents keyed by name, plus an
// append-only news archive table. Saves run inside a transaction.
type PostgresStore struct {
	pool         *pgxpool.Pool
	startingCash decimal.Decimal
	logger       *logger.Logger
}

// NewPostgresStore creates the schema if needed and returns the store.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, startingCash decimal.Decimal, log *logger.Logger) (*PostgresStore, error) {
	s := &PostgresStore{
		pool:         pool,
		startingCash: startingCash,
		logger:       log,
	}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS oracle`,
		`CREATE TABLE IF NOT EXISTS oracle.state (
			name TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS oracle.news_archive (
			id BIGSERIAL PRIMARY KEY,
			fetched_at TIMESTAMPTZ NOT NULL,
			data JSONB NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) LoadPortfolio(ctx context.Context) (*contracts.Portfolio, error) {
	var p contracts.Portfolio
	if err := s.load(ctx, "portfolio", &p); err != nil {
		if err == ErrNotFound {
			return contracts.NewPortfolio(s.startingCash), nil
		}
		return nil, err
	}
	if p.Holdings == nil {
		p.Holdings = make(map[string]*contracts.Holding)
	}
	return &p, nil
}

func (s *PostgresStore) SavePortfolio(ctx context.Context, p *contracts.Portfolio) error {
	return s.save(ctx, "portfolio", p)
}

func (s *PostgresStore) LoadPredictionLog(ctx context.Context) (*contracts.PredictionLog, error) {
	var log contracts.PredictionLog
	if err := s.load(ctx, "prediction_log", &log); err != nil {
		if err == ErrNotFound {
			return contracts.DefaultPredictionLog(), nil
		}
		return nil, err
	}
	return &log, nil
}

func (s *PostgresStore) SavePredictionLog(ctx context.Context, log *contracts.PredictionLog) error {
	return s.save(ctx, "prediction_log", log)
}

func (s *PostgresStore) LoadSnapshot(ctx context.Context) ([]contracts.ScanResult, error) {
	var results []contracts.ScanResult
	if err := s.load(ctx, "latest_scan", &results); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, results []contracts.ScanResult) error {
	return s.save(ctx, "latest_scan", results)
}

func (s *PostgresStore) LoadWatchlist(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := s.load(ctx, "watchlist", &symbols); err != nil {
		if err == ErrNotFound {
			return DefaultWatchlist(), nil
		}
		return nil, err
	}
	if len(symbols) == 0 {
		return DefaultWatchlist(), nil
	}
	return symbols, nil
}

func (s *PostgresStore) SaveWatchlist(ctx context.Context, symbols []string) error {
	return s.save(ctx, "watchlist", symbols)
}

func (s *PostgresStore) LoadNews(ctx context.Context) (*contracts.NewsReport, error) {
	var report contracts.NewsReport
	if err := s.load(ctx, "latest_news", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SaveNews updates the latest report and archives it in one transaction.
func (s *PostgresStore) SaveNews(ctx context.Context, report *contracts.NewsReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode news report: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertQuery, "latest_news", data); err != nil {
		return fmt.Errorf("failed to save latest news: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO oracle.news_archive (fetched_at, data) VALUES ($1, $2)`,
		report.Timestamp, data,
	); err != nil {
		return fmt.Errorf("failed to archive news: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) LoadHistory(ctx context.Context) ([]contracts.HistoryEntry, error) {
	var history []contracts.HistoryEntry
	if err := s.load(ctx, "scan_history", &history); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return history, nil
}

// AppendHistory reads, trims, and rewrites the rolling history in one
// transaction so concurrent readers never see a partial list.
func (s *PostgresStore) AppendHistory(ctx context.Context, entry contracts.HistoryEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var history []contracts.HistoryEntry
	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT data FROM oracle.state WHERE name = $1 FOR UPDATE`, "scan_history",
	).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first run
	case err != nil:
		return fmt.Errorf("failed to read history: %w", err)
	default:
		if err := json.Unmarshal(raw, &history); err != nil {
			return fmt.Errorf("failed to decode history: %w", err)
		}
	}

	history = append(history, entry)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if _, err := tx.Exec(ctx, upsertQuery, "scan_history", data); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) Close() {}

const upsertQuery = `
	INSERT INTO oracle.state (name, data, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (name) DO UPDATE SET
		data = EXCLUDED.data,
		updated_at = EXCLUDED.updated_at
`

func (s *PostgresStore) load(ctx context.Context, name string, v interface{}) error {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM oracle.state WHERE name = $1`, name,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) save(ctx context.Context, name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if _, err := s.pool.Exec(ctx, upsertQuery, name, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	s.logger.WithField("record", name).Debug("State persisted")
	return nil
}

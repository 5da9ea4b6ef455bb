package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/pkg/logger"
)

const (
	portfolioFile  = "virtual_portfolio.json"
	predictionFile = "prediction_log.json"
	snapshotFile   = "latest_scan.json"
	watchlistFile  = "watchlist.json"
	newsFile       = "latest_news.json"
	historyFile    = "scan_history.json"
	newsArchiveDir = "news_archive"
)

// FileStore persists state as JSON documents under a data directory.
// Writes go to a temp file in the same directory and are renamed into
// place, so readers never observe a torn document.
type FileStore struct {
	dataDir      string
	startingCash decimal.Decimal
	logger       *logger.Logger
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dataDir string, startingCash decimal.Decimal, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, newsArchiveDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStore{
		dataDir:      dataDir,
		startingCash: startingCash,
		logger:       log,
	}, nil
}

func (s *FileStore) LoadPortfolio(ctx context.Context) (*contracts.Portfolio, error) {
	var p contracts.Portfolio
	if err := s.read(portfolioFile, &p); err != nil {
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

func (s *FileStore) SavePortfolio(ctx context.Context, p *contracts.Portfolio) error {
	return s.write(portfolioFile, p)
}

func (s *FileStore) LoadPredictionLog(ctx context.Context) (*contracts.PredictionLog, error) {
	var log contracts.PredictionLog
	if err := s.read(predictionFile, &log); err != nil {
		if err == ErrNotFound {
			return contracts.DefaultPredictionLog(), nil
		}
		return nil, err
	}
	return &log, nil
}

func (s *FileStore) SavePredictionLog(ctx context.Context, log *contracts.PredictionLog) error {
	return s.write(predictionFile, log)
}

func (s *FileStore) LoadSnapshot(ctx context.Context) ([]contracts.ScanResult, error) {
	var results []contracts.ScanResult
	if err := s.read(snapshotFile, &results); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

func (s *FileStore) SaveSnapshot(ctx context.Context, results []contracts.ScanResult) error {
	return s.write(snapshotFile, results)
}

func (s *FileStore) LoadWatchlist(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := s.read(watchlistFile, &symbols); err != nil {
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

func (s *FileStore) SaveWatchlist(ctx context.Context, symbols []string) error {
	return s.write(watchlistFile, symbols)
}

func (s *FileStore) LoadNews(ctx context.Context) (*contracts.NewsReport, error) {
	var report contracts.NewsReport
	if err := s.read(newsFile, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *FileStore) SaveNews(ctx context.Context, report *contracts.NewsReport) error {
	archive := filepath.Join(newsArchiveDir,
		fmt.Sprintf("news_%s.json", report.Timestamp.Format("20060102_150405")))
	if err := s.write(archive, report); err != nil {
		return err
	}
	return s.write(newsFile, report)
}

func (s *FileStore) LoadHistory(ctx context.Context) ([]contracts.HistoryEntry, error) {
	var history []contracts.HistoryEntry
	if err := s.read(historyFile, &history); err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return history, nil
}

func (s *FileStore) AppendHistory(ctx context.Context, entry contracts.HistoryEntry) error {
	history, err := s.LoadHistory(ctx)
	if err != nil {
		return err
	}
	history = append(history, entry)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	return s.write(historyFile, history)
}

func (s *FileStore) Close() {}

// read decodes one document. Absence maps to ErrNotFound; a present but
// unreadable document is a real persistence failure.
func (s *FileStore) read(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// write marshals v and atomically replaces the document.
func (s *FileStore) write(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(name)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	s.logger.WithField("file", name).Debug("State persisted")
	return nil
}

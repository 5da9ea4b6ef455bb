package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/pkg/logger"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), decimal.NewFromInt(100000), logger.NewNop())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

func TestLoadPortfolioDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.LoadPortfolio(ctx)
	if err != nil {
		t.Fatalf("LoadPortfolio failed: %v", err)
	}
	if !p.Cash.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("expected starting cash 100000, got %s", p.Cash)
	}
	if p.HoldingCount() != 0 {
		t.Errorf("expected empty holdings, got %d", p.HoldingCount())
	}
}

func TestPortfolioRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := contracts.NewPortfolio(decimal.NewFromInt(100000))
	p.Cash = decimal.NewFromFloat(81234.56)
	p.Holdings["TCS.NS"] = &contracts.Holding{
		Symbol:     "TCS.NS",
		Qty:        5,
		AvgPrice:   decimal.NewFromFloat(3753.09),
		DateBought: time.Date(2026, 8, 28, 16, 30, 0, 0, time.UTC),
	}

	if err := s.SavePortfolio(ctx, p); err != nil {
		t.Fatalf("SavePortfolio failed: %v", err)
	}

	loaded, err := s.LoadPortfolio(ctx)
	if err != nil {
		t.Fatalf("LoadPortfolio failed: %v", err)
	}
	if !loaded.Cash.Equal(p.Cash) {
		t.Errorf("expected cash %s, got %s", p.Cash, loaded.Cash)
	}
	h := loaded.Holdings["TCS.NS"]
	if h == nil {
		t.Fatal("expected holding to survive round trip")
	}
	if h.Qty != 5 || !h.AvgPrice.Equal(decimal.NewFromFloat(3753.09)) {
		t.Errorf("holding mismatch: %+v", h)
	}
}

func TestCorruptPortfolioIsFatal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(s.dataDir, portfolioFile)
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Corruption must surface, never silently become a fresh portfolio
	// that would then be persisted over real state.
	if _, err := s.LoadPortfolio(ctx); err == nil {
		t.Fatal("expected persistence failure for corrupt portfolio")
	}
}

func TestPredictionLogDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	log, err := s.LoadPredictionLog(ctx)
	if err != nil {
		t.Fatalf("LoadPredictionLog failed: %v", err)
	}
	if log.BuyRSIThreshold != 30 || log.SellRSIThreshold != 70 || log.AccuracyScore != 50 {
		t.Errorf("unexpected defaults: %+v", log)
	}

	log.BuyRSIThreshold = 28
	if err := s.SavePredictionLog(ctx, log); err != nil {
		t.Fatalf("SavePredictionLog failed: %v", err)
	}
	loaded, _ := s.LoadPredictionLog(ctx)
	if loaded.BuyRSIThreshold != 28 {
		t.Errorf("expected 28, got %.0f", loaded.BuyRSIThreshold)
	}
}

func TestWatchlistDefaultAndRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	symbols, err := s.LoadWatchlist(ctx)
	if err != nil {
		t.Fatalf("LoadWatchlist failed: %v", err)
	}
	if len(symbols) != 6 || symbols[0] != "RELIANCE.NS" {
		t.Errorf("unexpected default watchlist: %v", symbols)
	}

	custom := []string{"INFY.NS", "WIPRO.NS"}
	if err := s.SaveWatchlist(ctx, custom); err != nil {
		t.Fatalf("SaveWatchlist failed: %v", err)
	}
	loaded, _ := s.LoadWatchlist(ctx)
	if len(loaded) != 2 || loaded[0] != "INFY.NS" {
		t.Errorf("unexpected watchlist: %v", loaded)
	}
}

func TestSnapshotSupersedesPrior(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []contracts.ScanResult{{Symbol: "A.NS", Action: contracts.ActionHold}}
	second := []contracts.ScanResult{{Symbol: "B.NS", Action: contracts.ActionBuy}}

	if err := s.SaveSnapshot(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSnapshot(ctx, second); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Symbol != "B.NS" {
		t.Errorf("expected latest snapshot only, got %v", loaded)
	}
}

func TestNewsArchive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.LoadNews(ctx); err != ErrNotFound {
		t.Errorf("expected ErrNotFound before first fetch, got %v", err)
	}

	report := &contracts.NewsReport{
		Timestamp: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
		Categories: map[string][]contracts.NewsItem{
			"finance": {{Title: "Nifty hits record high"}},
		},
	}
	if err := s.SaveNews(ctx, report); err != nil {
		t.Fatalf("SaveNews failed: %v", err)
	}

	loaded, err := s.LoadNews(ctx)
	if err != nil {
		t.Fatalf("LoadNews failed: %v", err)
	}
	if loaded.ItemCount() != 1 {
		t.Errorf("expected 1 item, got %d", loaded.ItemCount())
	}

	entries, err := os.ReadDir(filepath.Join(s.dataDir, newsArchiveDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 archived report, got %d", len(entries))
	}
}

func TestHistoryRollingLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < HistoryLimit+3; i++ {
		entry := contracts.HistoryEntry{
			Date:          time.Date(2026, 8, 1+i, 16, 30, 0, 0, time.UTC),
			SentimentBias: float64(i),
		}
		if err := s.AppendHistory(ctx, entry); err != nil {
			t.Fatalf("AppendHistory failed: %v", err)
		}
	}

	history, err := s.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(history) != HistoryLimit {
		t.Fatalf("expected %d entries, got %d", HistoryLimit, len(history))
	}
	// Oldest entries evicted first.
	if history[0].SentimentBias != 3 {
		t.Errorf("expected oldest surviving bias 3, got %.0f", history[0].SentimentBias)
	}
	if history[len(history)-1].SentimentBias != float64(HistoryLimit+2) {
		t.Errorf("unexpected newest entry: %+v", history[len(history)-1])
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveWatchlist(ctx, []string{"TCS.NS"}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" && !e.IsDir() {
			t.Errorf("unexpected leftover file: %s", e.Name())
		}
	}
}

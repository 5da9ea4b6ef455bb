package strategy

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default strategy must validate: %v", err)
	}

	sum := cfg.Scoring.TechnicalWeight + cfg.Scoring.SentimentWeight + cfg.Scoring.FundamentalWeight
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("expected weights to sum to 1.0, got %.4f", sum)
	}
	if cfg.Portfolio.StartingCash != 100000 {
		t.Errorf("expected starting_cash=100000, got %.0f", cfg.Portfolio.StartingCash)
	}
	if cfg.Entry.AllocationFraction != 0.20 {
		t.Errorf("expected allocation_fraction=0.20, got %.2f", cfg.Entry.AllocationFraction)
	}
}

func TestLoadStrictYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy.yaml")

	yaml := `meta:
  strategy_id: nse_swing_test
  version: 2
scoring:
  technical_weight: 0.4
  sentiment_weight: 0.3
  fundamental_weight: 0.3
  buy_cutoff: 65
  sell_cutoff: 35
  high_cutoff: 75
  medium_cutoff: 60
entry:
  allocation_fraction: 0.2
  min_ticket: 2000
exit:
  stop_loss_factor: 0.95
  take_profit_factor: 1.15
targets:
  sell_target_factor: 0.95
  sell_stop_factor: 1.05
portfolio:
  starting_cash: 100000
history:
  min_bars: 30
  lookback_days: 365
fundamentals:
  sector_pe_default: 20
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, raw, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Meta.StrategyID != "nse_swing_test" {
		t.Errorf("expected strategy_id=nse_swing_test, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Meta.Version != 2 {
		t.Errorf("expected version=2, got %d", cfg.Meta.Version)
	}
	if len(raw) == 0 {
		t.Error("expected raw yaml bytes")
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy.yaml")

	yaml := `meta:
  strategy_id: bad
  version: 1
  typo_field: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty strategy id", func(c *Config) { c.Meta.StrategyID = "" }},
		{"weights not summing", func(c *Config) { c.Scoring.TechnicalWeight = 0.5 }},
		{"inverted cutoffs", func(c *Config) { c.Scoring.SellCutoff = 70 }},
		{"zero allocation", func(c *Config) { c.Entry.AllocationFraction = 0 }},
		{"stop above one", func(c *Config) { c.Exit.StopLossFactor = 1.2 }},
		{"take profit below one", func(c *Config) { c.Exit.TakeProfitFactor = 0.9 }},
		{"zero cash", func(c *Config) { c.Portfolio.StartingCash = 0 }},
		{"lookback below min bars", func(c *Config) { c.History.LookbackDays = 10 }},
		{"zero sector pe", func(c *Config) { c.Fundamentals.SectorPEDefault = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	cfg := Default()

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	cfg.Scoring.BuyCutoff = 66
	hash3, _ := Hash(cfg)
	if hash == hash3 {
		t.Error("expected hash to change with config")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Meta.StrategyID != Default().Meta.StrategyID {
		t.Errorf("expected default strategy, got %s", cfg.Meta.StrategyID)
	}
}

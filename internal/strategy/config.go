// Package strategy holds the tunable scoring and simulation parameters,
// loaded from a strict YAML file with documented defaults.
package strategy

// Config is the full strategy configuration.
// SSOT: every scoring weight and simulation threshold lives here.
type Config struct {
	Meta         Meta         `yaml:"meta" json:"meta"`
	Scoring      Scoring      `yaml:"scoring" json:"scoring"`
	Entry        Entry        `yaml:"entry" json:"entry"`
	Exit         Exit         `yaml:"exit" json:"exit"`
	Targets      Targets      `yaml:"targets" json:"targets"`
	Portfolio    Portfolio    `yaml:"portfolio" json:"portfolio"`
	History      History      `yaml:"history" json:"history"`
	Fundamentals Fundamentals `yaml:"fundamentals" json:"fundamentals"`
}

// Meta identifies the strategy for run reports.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    int    `yaml:"version" json:"version"`
}

// Scoring holds master-score weights and the action/priority cutoffs.
// Priority tiers are symmetric around 50: a score at or beyond high_cutoff
// (or its mirror, 100-high_cutoff) is HIGH, likewise for medium_cutoff.
type Scoring struct {
	TechnicalWeight   float64 `yaml:"technical_weight" json:"technical_weight"`
	SentimentWeight   float64 `yaml:"sentiment_weight" json:"sentiment_weight"`
	FundamentalWeight float64 `yaml:"fundamental_weight" json:"fundamental_weight"`

	BuyCutoff  float64 `yaml:"buy_cutoff" json:"buy_cutoff"`   // action BUY when score > cutoff
	SellCutoff float64 `yaml:"sell_cutoff" json:"sell_cutoff"` // action SELL when score < cutoff

	HighCutoff   float64 `yaml:"high_cutoff" json:"high_cutoff"`
	MediumCutoff float64 `yaml:"medium_cutoff" json:"medium_cutoff"`
}

// Entry holds the position-opening rule for the simulator.
type Entry struct {
	AllocationFraction float64 `yaml:"allocation_fraction" json:"allocation_fraction"` // share of cash per entry
	MinTicket          float64 `yaml:"min_ticket" json:"min_ticket"`                   // allocation must exceed this
}

// Exit holds the position-closing thresholds, relative to entry price.
type Exit struct {
	StopLossFactor   float64 `yaml:"stop_loss_factor" json:"stop_loss_factor"`     // close below entry*factor
	TakeProfitFactor float64 `yaml:"take_profit_factor" json:"take_profit_factor"` // close above entry*factor
}

// Targets holds the projected target/stop factors for non-BUY actions and
// the BUY guard fallback.
type Targets struct {
	SellTargetFactor float64 `yaml:"sell_target_factor" json:"sell_target_factor"`
	SellStopFactor   float64 `yaml:"sell_stop_factor" json:"sell_stop_factor"`
}

// Portfolio holds simulation capital settings.
type Portfolio struct {
	StartingCash float64 `yaml:"starting_cash" json:"starting_cash"`
}

// History holds price-series requirements.
type History struct {
	MinBars      int `yaml:"min_bars" json:"min_bars"`
	LookbackDays int `yaml:"lookback_days" json:"lookback_days"`
}

// Fundamentals holds fundamentals-scoring inputs with no per-symbol source.
type Fundamentals struct {
	SectorPEDefault float64 `yaml:"sector_pe_default" json:"sector_pe_default"`
}

// Default returns the built-in strategy, used whenever no strategy file is
// configured.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "nse_swing_v1",
			Version:    1,
		},
		Scoring: Scoring{
			TechnicalWeight:   0.40,
			SentimentWeight:   0.30,
			FundamentalWeight: 0.30,
			BuyCutoff:         65,
			SellCutoff:        35,
			HighCutoff:        75,
			MediumCutoff:      60,
		},
		Entry: Entry{
			AllocationFraction: 0.20,
			MinTicket:          2000,
		},
		Exit: Exit{
			StopLossFactor:   0.95,
			TakeProfitFactor: 1.15,
		},
		Targets: Targets{
			SellTargetFactor: 0.95,
			SellStopFactor:   1.05,
		},
		Portfolio: Portfolio{
			StartingCash: 100000,
		},
		History: History{
			MinBars:      30,
			LookbackDays: 365,
		},
		Fundamentals: Fundamentals{
			SectorPEDefault: 20,
		},
	}
}

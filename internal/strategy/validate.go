package strategy

import (
	"fmt"
	"math"
)

// ValidationError marks a hard constraint violation; the program must not
// run with an invalid strategy.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Version < 1 {
		return ValidationError{"meta.version", "must be >= 1"}
	}

	// === Scoring ===
	s := cfg.Scoring
	sum := s.TechnicalWeight + s.SentimentWeight + s.FundamentalWeight
	if math.Abs(sum-1.0) > 1e-6 {
		return ValidationError{"scoring", fmt.Sprintf("weights must sum to 1.0, got %.4f", sum)}
	}
	for field, w := range map[string]float64{
		"scoring.technical_weight":   s.TechnicalWeight,
		"scoring.sentiment_weight":   s.SentimentWeight,
		"scoring.fundamental_weight": s.FundamentalWeight,
	} {
		if w < 0 || w > 1 {
			return ValidationError{field, "must be in range [0, 1]"}
		}
	}
	if s.SellCutoff >= s.BuyCutoff {
		return ValidationError{"scoring", "sell_cutoff must be < buy_cutoff"}
	}
	if s.BuyCutoff <= 50 || s.BuyCutoff >= 100 {
		return ValidationError{"scoring.buy_cutoff", "must be in range (50, 100)"}
	}
	if s.SellCutoff <= 0 || s.SellCutoff >= 50 {
		return ValidationError{"scoring.sell_cutoff", "must be in range (0, 50)"}
	}
	if s.MediumCutoff >= s.HighCutoff {
		return ValidationError{"scoring", "medium_cutoff must be < high_cutoff"}
	}
	if s.MediumCutoff <= 50 || s.HighCutoff >= 100 {
		return ValidationError{"scoring", "priority cutoffs must be in range (50, 100)"}
	}

	// === Entry ===
	if cfg.Entry.AllocationFraction <= 0 || cfg.Entry.AllocationFraction > 1 {
		return ValidationError{"entry.allocation_fraction", "must be in range (0, 1]"}
	}
	if cfg.Entry.MinTicket < 0 {
		return ValidationError{"entry.min_ticket", "must be >= 0"}
	}

	// === Exit ===
	if cfg.Exit.StopLossFactor <= 0 || cfg.Exit.StopLossFactor >= 1 {
		return ValidationError{"exit.stop_loss_factor", "must be in range (0, 1)"}
	}
	if cfg.Exit.TakeProfitFactor <= 1 {
		return ValidationError{"exit.take_profit_factor", "must be > 1"}
	}

	// === Targets ===
	if cfg.Targets.SellTargetFactor <= 0 || cfg.Targets.SellTargetFactor >= 1 {
		return ValidationError{"targets.sell_target_factor", "must be in range (0, 1)"}
	}
	if cfg.Targets.SellStopFactor <= 1 {
		return ValidationError{"targets.sell_stop_factor", "must be > 1"}
	}

	// === Portfolio ===
	if cfg.Portfolio.StartingCash <= 0 {
		return ValidationError{"portfolio.starting_cash", "must be > 0"}
	}

	// === History ===
	if cfg.History.MinBars < 2 {
		return ValidationError{"history.min_bars", "must be >= 2"}
	}
	if cfg.History.LookbackDays < cfg.History.MinBars {
		return ValidationError{"history.lookback_days", "must be >= min_bars"}
	}

	// === Fundamentals ===
	if cfg.Fundamentals.SectorPEDefault <= 0 {
		return ValidationError{"fundamentals.sector_pe_default", "must be > 0"}
	}

	return nil
}

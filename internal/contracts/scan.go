package contracts

import "time"

// Action represents the recommendation for a symbol
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Priority represents the urgency tier of a recommendation
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ScanResult is a single symbol's scored recommendation for one run.
// Created fresh per run, never mutated; consumed by the simulator and then
// serialized as the current snapshot.
type ScanResult struct {
	Symbol             string            `json:"symbol"`
	Name               string            `json:"name"`
	Price              float64           `json:"price"`
	Action             Action            `json:"action"`
	Priority           Priority          `json:"priority"`
	RSI                float64           `json:"rsi"`
	Score              float64           `json:"score"`
	Fundamentals       FundamentalRecord `json:"fundamentals"`
	TargetPrice        float64           `json:"target_price"`
	StopLoss           float64           `json:"stop_loss"`
	PotentialProfitPct float64           `json:"potential_profit_pct"`
	PotentialLossPct   float64           `json:"potential_loss_pct"`
	Timestamp          time.Time         `json:"timestamp"`
}

// FundamentalRecord is the fundamental health sub-record carried on every
// ScanResult. Metric fields are display strings so a missing metric renders
// as "N/A" instead of a fake zero.
type FundamentalRecord struct {
	Score        float64 `json:"score"` // 0-100, clamped
	PE           string  `json:"pe"`
	SectorPE     string  `json:"sector_pe"`
	ROEPct       string  `json:"roe_pct"`
	DebtToEquity string  `json:"debt_to_equity"`
}

// MetricUnavailable is the placeholder for a metric the provider could not
// supply.
const MetricUnavailable = "N/A"

// NeutralFundamentals is the documented default record used whenever the
// fundamentals provider fails: a best-effort tilt must never become a hard
// dependency.
func NeutralFundamentals() FundamentalRecord {
	return FundamentalRecord{
		Score:        50,
		PE:           MetricUnavailable,
		SectorPE:     MetricUnavailable,
		ROEPct:       MetricUnavailable,
		DebtToEquity: MetricUnavailable,
	}
}

// PredictionLog carries the RSI thresholds and rolling accuracy metric across
// runs. The scorer reads it; mutation is reserved for an external learning
// process, so within this system it is persisted pass-through.
type PredictionLog struct {
	BuyRSIThreshold  float64 `json:"buy_rsi_threshold"`
	SellRSIThreshold float64 `json:"sell_rsi_threshold"`
	AccuracyScore    float64 `json:"accuracy_score"`
}

// DefaultPredictionLog returns the documented defaults used when no log has
// been persisted yet.
func DefaultPredictionLog() *PredictionLog {
	return &PredictionLog{
		BuyRSIThreshold:  30,
		SellRSIThreshold: 70,
		AccuracyScore:    50,
	}
}

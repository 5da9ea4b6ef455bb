package contracts

import "time"

// SkipReason classifies why a symbol produced no ScanResult. A skip is not an
// error: the batch continues without the symbol.
type SkipReason string

const (
	// SkipInsufficientHistory means fewer price bars than the scorer needs.
	SkipInsufficientHistory SkipReason = "insufficient_history"
	// SkipDataUnavailable means retrieval or indicator computation failed.
	SkipDataUnavailable SkipReason = "data_unavailable"
)

// SymbolOutcome is the typed per-symbol result of a scan: either a ScanResult
// or a skip reason, never both.
type SymbolOutcome struct {
	Symbol string      `json:"symbol"`
	Result *ScanResult `json:"result,omitempty"`
	Skip   SkipReason  `json:"skip,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

// Scored reports whether the symbol produced a result.
func (o SymbolOutcome) Scored() bool {
	return o.Result != nil
}

// BatchReport aggregates one full run so callers can distinguish "no signal"
// from "data unavailable".
type BatchReport struct {
	Date          time.Time       `json:"date"`
	SentimentBias float64         `json:"sentiment_bias"`
	Outcomes      []SymbolOutcome `json:"outcomes"`
	NewsError     string          `json:"news_error,omitempty"`

	// NoResults is set when zero symbols scored. The run still completed;
	// this is explicitly not a persistence failure.
	NoResults bool `json:"no_results"`

	// Simulator summary
	Opened []string `json:"opened,omitempty"`
	Closed []string `json:"closed,omitempty"`

	StrategyHash string `json:"strategy_hash,omitempty"`
}

// Results returns the successful scan results in outcome order.
func (r *BatchReport) Results() []ScanResult {
	out := make([]ScanResult, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Result != nil {
			out = append(out, *o.Result)
		}
	}
	return out
}

// SkippedCount returns the number of symbols that did not score.
func (r *BatchReport) SkippedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Scored() {
			n++
		}
	}
	return n
}

// HistoryEntry is one archived run in the rolling scan history.
type HistoryEntry struct {
	Date          time.Time    `json:"date"`
	Predictions   []ScanResult `json:"predictions"`
	SentimentBias float64      `json:"sentiment_bias"`
}

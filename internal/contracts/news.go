package contracts

import "time"

// NewsItem is a single retrieved news entry.
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// NewsReport is one run's aggregated news corpus, grouped by topic category.
// Errors records per-category fetch failures so a degraded refresh stays
// observable to the caller instead of being silently swallowed.
type NewsReport struct {
	Timestamp  time.Time             `json:"timestamp"`
	Categories map[string][]NewsItem `json:"categories"`
	Errors     map[string]string     `json:"errors,omitempty"`
}

// ItemCount returns the total number of items across all categories.
func (r *NewsReport) ItemCount() int {
	n := 0
	for _, items := range r.Categories {
		n += len(items)
	}
	return n
}

// PulseEntry is one index/commodity reading in the market pulse snapshot.
type PulseEntry struct {
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	Trend     string  `json:"trend"` // "Up" or "Down"
	Error     string  `json:"error,omitempty"`
}

// MarketPulse is a lightweight snapshot of headline indices and commodities.
type MarketPulse struct {
	Timestamp    time.Time             `json:"timestamp"`
	MarketStatus string                `json:"market_status"` // "Open" or "Closed"
	Data         map[string]PulseEntry `json:"data"`
}

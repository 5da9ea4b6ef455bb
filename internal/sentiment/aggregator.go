// Package sentiment fetches market news and condenses it into a single
// bias scalar in [-15, +15] applied to every symbol in a run.
package sentiment

import (
	"math"
	"strings"

	"github.com/wonny/oracle/internal/contracts"
)

const (
	biasDivisor = 3.0
	biasLimit   = 15.0
)

// Score condenses a news report into the bias scalar. A nil or empty
// report is neutral (0), never an error.
func Score(report *contracts.NewsReport) float64 {
	if report == nil || len(report.Categories) == 0 {
		return 0
	}

	var blob strings.Builder
	for _, items := range report.Categories {
		for _, item := range items {
			blob.WriteString(item.Title)
			blob.WriteString(" ")
			blob.WriteString(item.Snippet)
			blob.WriteString(" ")
		}
	}
	text := strings.ToLower(blob.String())
	if text == "" {
		return 0
	}

	raw := 0
	for _, word := range positiveKeywords {
		raw += strings.Count(text, word)
	}
	for _, word := range negativeKeywords {
		raw -= strings.Count(text, word)
	}

	bias := float64(raw) / biasDivisor
	if bias > biasLimit {
		bias = biasLimit
	}
	if bias < -biasLimit {
		bias = -biasLimit
	}
	return math.Round(bias*100) / 100
}

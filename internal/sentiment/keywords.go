package sentiment

// Fixed keyword sets for the bias calculation. Matching is substring-based
// over a lowercased text blob, so word variants ("surged", "profits")
// count as well.
var positiveKeywords = []string{
	"surge", "growth", "bullish", "profit", "high",
	"win", "recovery", "stable", "uptick", "positive",
}

var negativeKeywords = []string{
	"drop", "crash", "bearish", "loss", "war",
	"crisis", "decline", "inflation", "downturn", "negative",
}

// Package indicators derives the technical signals the scanner consumes from
// a close-price series: Wilder RSI, MACD with a true signal line, and
// Bollinger Bands.
package indicators

import (
	"errors"
	"math"
)

// MinBars is the minimum series length the calculator accepts. Below this the
// MACD signal line and Bollinger window are not meaningful.
const MinBars = 30

// ErrInsufficientData is returned when the series is shorter than MinBars.
var ErrInsufficientData = errors.New("indicators: insufficient price history")

// Snapshot holds the latest indicator values for one symbol.
type Snapshot struct {
	RSI float64

	MACD           float64
	MACDSignal     float64
	PrevMACD       float64
	PrevMACDSignal float64

	BollingerUpper  float64
	BollingerMiddle float64
	BollingerLower  float64
}

// BullishCross reports a MACD line crossing above its signal on the last bar.
func (s *Snapshot) BullishCross() bool {
	return s.MACD > s.MACDSignal && s.PrevMACD <= s.PrevMACDSignal
}

// BearishCross reports a MACD line crossing below its signal on the last bar.
func (s *Snapshot) BearishCross() bool {
	return s.MACD < s.MACDSignal && s.PrevMACD >= s.PrevMACDSignal
}

// Calculator computes indicator snapshots with fixed standard periods.
type Calculator struct {
	rsiPeriod    int
	macdFast     int
	macdSlow     int
	macdSignal   int
	bbPeriod     int
	bbMultiplier float64
}

// NewCalculator returns a calculator with the conventional periods:
// RSI(14), MACD(12,26,9), Bollinger(20, 2σ).
func NewCalculator() *Calculator {
	return &Calculator{
		rsiPeriod:    14,
		macdFast:     12,
		macdSlow:     26,
		macdSignal:   9,
		bbPeriod:     20,
		bbMultiplier: 2.0,
	}
}

// Extract computes a snapshot from an ordered close series (oldest first).
func (c *Calculator) Extract(closes []float64) (*Snapshot, error) {
	if len(closes) < MinBars {
		return nil, ErrInsufficientData
	}

	snap := &Snapshot{}
	snap.RSI = wilderRSI(closes, c.rsiPeriod)

	line, signal := macdSeries(closes, c.macdFast, c.macdSlow, c.macdSignal)
	n := len(line)
	snap.MACD = line[n-1]
	snap.MACDSignal = signal[n-1]
	snap.PrevMACD = line[n-2]
	snap.PrevMACDSignal = signal[n-2]

	mid, up, low := bollinger(closes, c.bbPeriod, c.bbMultiplier)
	snap.BollingerMiddle = mid
	snap.BollingerUpper = up
	snap.BollingerLower = low

	return snap, nil
}

// wilderRSI computes RSI with Wilder smoothing over the full series.
func wilderRSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0 // Neutral
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// emaSeries returns the EMA of values. The first element is seeded with the
// SMA of the first period values; the result is aligned so index i
// corresponds to values[i+period-1].
func emaSeries(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}

	out := make([]float64, 0, len(values)-period+1)
	ema := sum / float64(period)
	out = append(out, ema)

	multiplier := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out = append(out, ema)
	}

	return out
}

// macdSeries returns the aligned MACD line and signal line series. When the
// line series is still shorter than the signal period the signal falls back
// to a running mean, so short-but-valid histories (>= MinBars) still score.
func macdSeries(closes []float64, fast, slow, signalPeriod int) (line, signal []float64) {
	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	offset := slow - fast
	line = make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i+offset] - slowEMA[i]
	}

	if len(line) >= signalPeriod {
		sig := emaSeries(line, signalPeriod)
		// Pad the warm-up region with the seed value to keep alignment
		signal = make([]float64, len(line))
		for i := 0; i < signalPeriod-1; i++ {
			signal[i] = sig[0]
		}
		copy(signal[signalPeriod-1:], sig)
		return line, signal
	}

	// Running mean fallback
	signal = make([]float64, len(line))
	var sum float64
	for i, v := range line {
		sum += v
		signal[i] = sum / float64(i+1)
	}
	return line, signal
}

// bollinger computes the Bollinger Bands over the trailing window.
func bollinger(closes []float64, period int, mult float64) (mid, upper, lower float64) {
	window := closes[len(closes)-period:]

	var sum float64
	for _, v := range window {
		sum += v
	}
	mid = sum / float64(period)

	var sq float64
	for _, v := range window {
		d := v - mid
		sq += d * d
	}
	sd := math.Sqrt(sq / float64(period))

	return mid, mid + mult*sd, mid - mult*sd
}

package indicators

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func constantSeries(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestExtractRejectsShortSeries(t *testing.T) {
	calc := NewCalculator()

	_, err := calc.Extract(constantSeries(100, MinBars-1))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestExtractAcceptsMinBars(t *testing.T) {
	calc := NewCalculator()

	snap, err := calc.Extract(constantSeries(100, MinBars))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot")
	}
}

func TestRSIExtremes(t *testing.T) {
	rising := make([]float64, 40)
	falling := make([]float64, 40)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 200 - float64(i)
	}

	calc := NewCalculator()

	up, err := calc.Extract(rising)
	if err != nil {
		t.Fatalf("Extract rising: %v", err)
	}
	if up.RSI != 100 {
		t.Errorf("rising series RSI = %v, want 100", up.RSI)
	}

	down, err := calc.Extract(falling)
	if err != nil {
		t.Fatalf("Extract falling: %v", err)
	}
	if down.RSI != 0 {
		t.Errorf("falling series RSI = %v, want 0", down.RSI)
	}
}

func TestRSIMixedSeriesStaysInBand(t *testing.T) {
	// Gains twice the size of losses keeps RSI above neutral without
	// saturating either extreme.
	closes := make([]float64, 40)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] - 1
		} else {
			closes[i] = closes[i-1] + 2
		}
	}

	snap, err := NewCalculator().Extract(closes)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if snap.RSI <= 50 || snap.RSI >= 100 {
		t.Errorf("RSI = %v, want strictly between 50 and 100", snap.RSI)
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	snap, err := NewCalculator().Extract(constantSeries(250, 35))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if snap.BollingerMiddle != 250 || snap.BollingerUpper != 250 || snap.BollingerLower != 250 {
		t.Errorf("flat series bands = (%v, %v, %v), want all 250",
			snap.BollingerLower, snap.BollingerMiddle, snap.BollingerUpper)
	}
}

func TestBollingerKnownWindow(t *testing.T) {
	// Tail alternates 90/110: mean 100, population stddev 10, 2σ bands.
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	for i := 20; i < 40; i++ {
		if i%2 == 0 {
			closes[i] = 90
		} else {
			closes[i] = 110
		}
	}

	snap, err := NewCalculator().Extract(closes)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !almostEqual(snap.BollingerMiddle, 100, 1e-9) {
		t.Errorf("middle = %v, want 100", snap.BollingerMiddle)
	}
	if !almostEqual(snap.BollingerUpper, 120, 1e-9) {
		t.Errorf("upper = %v, want 120", snap.BollingerUpper)
	}
	if !almostEqual(snap.BollingerLower, 80, 1e-9) {
		t.Errorf("lower = %v, want 80", snap.BollingerLower)
	}
}

func TestMACDTrendDirection(t *testing.T) {
	// A flat base followed by a steady climb pulls the fast EMA above the
	// slow one, so the line ends above its signal.
	closes := make([]float64, 60)
	for i := 0; i < 30; i++ {
		closes[i] = 100
	}
	for i := 30; i < 60; i++ {
		closes[i] = 100 + 2*float64(i-29)
	}

	snap, err := NewCalculator().Extract(closes)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if snap.MACD <= 0 {
		t.Errorf("MACD = %v, want positive in an uptrend", snap.MACD)
	}
	if snap.MACD <= snap.MACDSignal {
		t.Errorf("MACD %v not above signal %v in a fresh uptrend", snap.MACD, snap.MACDSignal)
	}
}

func TestMACDSignalFallbackOnShortSeries(t *testing.T) {
	// At exactly MinBars the line series is shorter than the signal period,
	// so the signal is a running mean rather than an EMA. It must still be
	// populated for both the last and previous bar.
	closes := make([]float64, MinBars)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}

	snap, err := NewCalculator().Extract(closes)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if math.IsNaN(snap.MACDSignal) || math.IsNaN(snap.PrevMACDSignal) {
		t.Fatalf("signal values not populated: %v, %v", snap.MACDSignal, snap.PrevMACDSignal)
	}
	if snap.MACDSignal == 0 && snap.MACD != 0 {
		t.Errorf("signal = 0 with nonzero MACD %v", snap.MACD)
	}
}

func TestCrossDetection(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		bullish bool
		bearish bool
	}{
		{
			name:    "bullish cross",
			snap:    Snapshot{MACD: 1.2, MACDSignal: 1.0, PrevMACD: 0.8, PrevMACDSignal: 0.9},
			bullish: true,
		},
		{
			name:    "bearish cross",
			snap:    Snapshot{MACD: 0.7, MACDSignal: 0.9, PrevMACD: 1.1, PrevMACDSignal: 1.0},
			bearish: true,
		},
		{
			name: "already above, no cross",
			snap: Snapshot{MACD: 1.5, MACDSignal: 1.0, PrevMACD: 1.4, PrevMACDSignal: 1.0},
		},
		{
			name:    "touch counts as cross",
			snap:    Snapshot{MACD: 1.1, MACDSignal: 1.0, PrevMACD: 1.0, PrevMACDSignal: 1.0},
			bullish: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.BullishCross(); got != tt.bullish {
				t.Errorf("BullishCross() = %v, want %v", got, tt.bullish)
			}
			if got := tt.snap.BearishCross(); got != tt.bearish {
				t.Errorf("BearishCross() = %v, want %v", got, tt.bearish)
			}
		})
	}
}

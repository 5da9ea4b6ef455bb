package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/wonny/oracle/internal/contracts"
)

// pulseTickers maps display names to the index/commodity symbols the pulse
// reads. MCX itself trades as a listed stock, hence the .NS ticker.
var pulseTickers = map[string]string{
	"NIFTY_50":  "^NSEI",
	"SENSEX":    "^BSESN",
	"MCX_STOCK": "MCX.NS",
}

const (
	marketOpenHour  = 9
	marketCloseHour = 15
)

// Pulse snapshots headline indices and commodities. Per-ticker failures
// are recorded inline; the snapshot itself always succeeds.
func (p *Pipeline) Pulse(ctx context.Context) *contracts.MarketPulse {
	now := p.now().In(marketTimezone())

	pulse := &contracts.MarketPulse{
		Timestamp:    now,
		MarketStatus: marketStatus(now),
		Data:         make(map[string]contracts.PulseEntry, len(pulseTickers)),
	}

	for name, symbol := range pulseTickers {
		quote, err := p.quoter.Quote(ctx, symbol)
		if err != nil {
			p.logger.WithField("symbol", symbol).WithError(err).Warn("Pulse quote failed")
			pulse.Data[name] = contracts.PulseEntry{Error: err.Error()}
			continue
		}

		changePct := 0.0
		if quote.PreviousClose > 0 {
			changePct = (quote.Price - quote.PreviousClose) / quote.PreviousClose * 100
		}
		trend := "Down"
		if changePct > 0 {
			trend = "Up"
		}

		pulse.Data[name] = contracts.PulseEntry{
			Price:     math.Round(quote.Price*100) / 100,
			ChangePct: math.Round(changePct*100) / 100,
			Trend:     trend,
		}
	}

	return pulse
}

func marketStatus(now time.Time) string {
	if now.Hour() > marketCloseHour || now.Hour() < marketOpenHour {
		return "Closed"
	}
	return "Open"
}

func marketTimezone() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.UTC
	}
	return loc
}

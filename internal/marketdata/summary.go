package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wonny/oracle/pkg/httputil"
	"github.com/wonny/oracle/pkg/logger"
)

const defaultSummaryBaseURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"

// SummaryClient fetches the Yahoo quoteSummary modules that carry the
// fundamentals missing from the plain quote endpoint (ROE, leverage).
type SummaryClient struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// NewSummaryClient creates a quoteSummary client over the shared HTTP client.
func NewSummaryClient(http *httputil.Client, log *logger.Logger) *SummaryClient {
	return &SummaryClient{
		http:    http,
		baseURL: defaultSummaryBaseURL,
		logger:  log,
	}
}

// rawValue is Yahoo's {raw, fmt} number envelope.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData *struct {
				ReturnOnEquity *rawValue `json:"returnOnEquity"`
				DebtToEquity   *rawValue `json:"debtToEquity"`
			} `json:"financialData"`
			SummaryDetail *struct {
				TrailingPE    *rawValue `json:"trailingPE"`
				DividendYield *rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Get fetches the financialData and summaryDetail modules for a symbol.
func (c *SummaryClient) Get(ctx context.Context, symbol string) (*FundamentalData, error) {
	endpoint := fmt.Sprintf("%s/%s?modules=financialData%%2CsummaryDetail", c.baseURL, url.PathEscape(symbol))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("quote summary request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("quote summary for %s: status %d", symbol, resp.StatusCode)
	}

	var parsed summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("quote summary decode: %w", err)
	}

	if parsed.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary for %s: %s", symbol, parsed.QuoteSummary.Error.Description)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary for %s: empty result", symbol)
	}

	result := parsed.QuoteSummary.Result[0]
	data := &FundamentalData{Symbol: symbol}

	if fd := result.FinancialData; fd != nil {
		if fd.ReturnOnEquity != nil && fd.ReturnOnEquity.Raw != nil {
			roe := *fd.ReturnOnEquity.Raw * 100 // fraction → percent
			data.ROEPct = &roe
		}
		if fd.DebtToEquity != nil && fd.DebtToEquity.Raw != nil {
			de := *fd.DebtToEquity.Raw / 100 // vendor reports percent
			data.DebtToEquity = &de
		}
	}

	if sd := result.SummaryDetail; sd != nil {
		if sd.TrailingPE != nil && sd.TrailingPE.Raw != nil {
			pe := *sd.TrailingPE.Raw
			data.PE = &pe
		}
		if sd.DividendYield != nil && sd.DividendYield.Raw != nil {
			yield := *sd.DividendYield.Raw * 100
			data.DividendYieldPct = &yield
		}
	}

	return data, nil
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/oracle/internal/contracts"
	"github.com/wonny/oracle/internal/store"
	"github.com/wonny/oracle/pkg/logger"
)

// fakeStore is an in-memory store.Store for handler tests.
type fakeStore struct {
	portfolio *contracts.Portfolio
	watchlist []string
	news      *contracts.NewsReport
	saved     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		portfolio: contracts.NewPortfolio(decimal.NewFromInt(100000)),
		watchlist: store.DefaultWatchlist(),
	}
}

func (f *fakeStore) LoadPortfolio(ctx context.Context) (*contracts.Portfolio, error) {
	return f.portfolio, nil
}

func (f *fakeStore) SavePortfolio(ctx context.Context, p *contracts.Portfolio) error {
	f.portfolio = p
	return nil
}

func (f *fakeStore) LoadPredictionLog(ctx context.Context) (*contracts.PredictionLog, error) {
	return contracts.DefaultPredictionLog(), nil
}

func (f *fakeStore) SavePredictionLog(ctx context.Context, log *contracts.PredictionLog) error {
	return nil
}

func (f *fakeStore) LoadSnapshot(ctx context.Context) ([]contracts.ScanResult, error) {
	return nil, nil
}

func (f *fakeStore) SaveSnapshot(ctx context.Context, results []contracts.ScanResult) error {
	return nil
}

func (f *fakeStore) LoadWatchlist(ctx context.Context) ([]string, error) {
	return f.watchlist, nil
}

func (f *fakeStore) SaveWatchlist(ctx context.Context, symbols []string) error {
	f.watchlist = symbols
	f.saved++
	return nil
}

func (f *fakeStore) LoadNews(ctx context.Context) (*contracts.NewsReport, error) {
	if f.news == nil {
		return nil, store.ErrNotFound
	}
	return f.news, nil
}

func (f *fakeStore) SaveNews(ctx context.Context, report *contracts.NewsReport) error {
	f.news = report
	return nil
}

func (f *fakeStore) LoadHistory(ctx context.Context) ([]contracts.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeStore) AppendHistory(ctx context.Context, entry contracts.HistoryEntry) error {
	return nil
}

func (f *fakeStore) Close() {}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestGetWatchlist(t *testing.T) {
	h := NewWatchlistHandler(newFakeStore(), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetWatchlist(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(6), body["count"])
	symbols := body["symbols"].([]interface{})
	assert.Equal(t, "RELIANCE.NS", symbols[0])
}

func TestAddSymbol(t *testing.T) {
	st := newFakeStore()
	h := NewWatchlistHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(`{"symbol":"infy.ns"}`))
	h.AddSymbol(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "INFY.NS", body["symbol"])
	assert.Contains(t, st.watchlist, "INFY.NS")
	assert.Equal(t, 1, st.saved)
}

func TestAddSymbolNormalizesBSECode(t *testing.T) {
	st := newFakeStore()
	h := NewWatchlistHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(`{"symbol":"500325"}`))
	h.AddSymbol(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, st.watchlist, "500325.BO")
}

func TestAddSymbolDuplicate(t *testing.T) {
	st := newFakeStore()
	h := NewWatchlistHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(`{"symbol":"RELIANCE.NS"}`))
	h.AddSymbol(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, st.saved)
}

func TestAddSymbolRejectsEmptyBody(t *testing.T) {
	h := NewWatchlistHandler(newFakeStore(), logger.NewNop())

	for _, payload := range []string{``, `{}`, `{"symbol":"  "}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/watchlist", strings.NewReader(payload))
		h.AddSymbol(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %q", payload)
	}
}

func TestRemoveSymbol(t *testing.T) {
	st := newFakeStore()
	h := NewWatchlistHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist/TCS.NS", nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": "TCS.NS"})
	h.RemoveSymbol(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, st.watchlist, "TCS.NS")
	assert.Len(t, st.watchlist, 5)
}

func TestRemoveSymbolMissing(t *testing.T) {
	st := newFakeStore()
	h := NewWatchlistHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/watchlist/NOPE.NS", nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": "NOPE.NS"})
	h.RemoveSymbol(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, st.saved)
}

func TestGetPortfolio(t *testing.T) {
	h := NewPortfolioHandler(newFakeStore(), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetPortfolio(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "100000", body["cash"])
	assert.Equal(t, "100000", body["total_value"])
}

func TestGetTradesFiltered(t *testing.T) {
	st := newFakeStore()
	profit := decimal.NewFromInt(500)
	st.portfolio.TradeHistory = []contracts.Trade{
		{Date: time.Now(), Type: contracts.ActionBuy, Symbol: "TCS.NS", Qty: 10, Price: decimal.NewFromInt(3000)},
		{Date: time.Now(), Type: contracts.ActionSell, Symbol: "TCS.NS", Qty: 10, Price: decimal.NewFromInt(3050), Profit: &profit},
		{Date: time.Now(), Type: contracts.ActionBuy, Symbol: "SBIN.NS", Qty: 50, Price: decimal.NewFromInt(600)},
	}
	h := NewPortfolioHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/trades?type=buy", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["count"])
}

func TestGetTradesInvalidType(t *testing.T) {
	h := NewPortfolioHandler(newFakeStore(), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/trades?type=SHORT", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTradesEmptyIsArray(t *testing.T) {
	h := NewPortfolioHandler(newFakeStore(), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetTrades(rec, httptest.NewRequest(http.MethodGet, "/api/portfolio/trades", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"trades":[]`)
}

func TestGetNewsBeforeFirstFetch(t *testing.T) {
	h := NewNewsHandler(nil, newFakeStore(), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetNews(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetNewsIncludesBias(t *testing.T) {
	st := newFakeStore()
	st.news = &contracts.NewsReport{
		Categories: map[string][]contracts.NewsItem{
			"finance": {{Title: "Markets surge on profit growth"}},
		},
	}
	h := NewNewsHandler(nil, st, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetNews(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 1.0, body["sentiment_bias"])
}

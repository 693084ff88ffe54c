package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/usecase"
	xhttp "ShowPulse/pkg/http"
	xlogger "ShowPulse/pkg/logger"
)

type stubQuoteSource struct {
	quotes []models.MarketQuote
	err    error
}

func (s *stubQuoteSource) TopQuotes(ctx context.Context, limit int) ([]models.MarketQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.quotes) {
		return s.quotes[:limit], nil
	}
	return s.quotes, nil
}

func newTestHandler(t *testing.T, src *stubQuoteSource) (*AnalysisEchoHandler, *usecase.SnapshotStore, *echo.Echo) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	store := usecase.NewSnapshotStore()
	orch := usecase.NewOrchestrator(nil, nil, nil, nil, time.Second, 2, 0, 0)
	rebuilder := usecase.NewRebuilder(src, orch, usecase.NewScorer(usecase.DefaultScoringConfig()),
		store, nil, nil, nil, nil, 5, time.Minute)

	h := NewAnalysisEchoHandler(log, rebuilder, store, src, nil)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, store, e
}

func marketQuotes() []models.MarketQuote {
	return []models.MarketQuote{
		{Ticker: "A", Subtitle: "Stranger Things: Season 5", YesBid: 61, YesAsk: 65, LastPrice: 63, ImpliedChance: 63},
		{Ticker: "B", Subtitle: "Wednesday 2", YesBid: 40, YesAsk: 44, LastPrice: 42, ImpliedChance: 42},
	}
}

func decodeAPIResponse(t *testing.T, rec *httptest.ResponseRecorder) xhttp.APIResponse {
	t.Helper()
	var resp xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRefreshWaitReturnsSnapshot(t *testing.T) {
	_, store, e := newTestHandler(t, &stubQuoteSource{quotes: marketQuotes()})

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/refresh", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAPIResponse(t, rec)
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, store.Latest())
	assert.Len(t, store.Latest().Records, 2)
}

func TestRefreshAsyncAccepted(t *testing.T) {
	_, store, e := newTestHandler(t, &stubQuoteSource{quotes: marketQuotes()})

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/refresh?async=true", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeAPIResponse(t, rec)
	assert.Equal(t, http.StatusAccepted, resp.Status)

	require.Eventually(t, func() bool {
		return store.Latest() != nil
	}, time.Second, 10*time.Millisecond)
}

func TestRefreshFailure(t *testing.T) {
	_, _, e := newTestHandler(t, &stubQuoteSource{err: errors.New("kalshi down")})

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/refresh", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	resp := decodeAPIResponse(t, rec)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}

func TestLatestBuildsWhenEmpty(t *testing.T) {
	_, store, e := newTestHandler(t, &stubQuoteSource{quotes: marketQuotes()})
	require.Nil(t, store.Latest())

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, store.Latest())
}

func TestLatestServesExisting(t *testing.T) {
	// a failing quote source proves the stored snapshot is served without
	// triggering a rebuild
	_, store, e := newTestHandler(t, &stubQuoteSource{err: errors.New("kalshi down")})
	store.Publish(&models.Snapshot{RebuildID: "seed", Timestamp: time.Now().UTC()})

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/latest", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "seed")
}

func TestTopMarketsLimit(t *testing.T) {
	_, _, e := newTestHandler(t, &stubQuoteSource{quotes: marketQuotes()})

	req := httptest.NewRequest(http.MethodGet, "/api/markets/top?limit=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []models.MarketQuote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "A", resp.Data[0].Ticker)
}

func TestTopMarketsRejectsBadLimit(t *testing.T) {
	_, _, e := newTestHandler(t, &stubQuoteSource{quotes: marketQuotes()})

	req := httptest.NewRequest(http.MethodGet, "/api/markets/top?limit=500", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	resp := decodeAPIResponse(t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestHealthWarmingUp(t *testing.T) {
	_, store, e := newTestHandler(t, &stubQuoteSource{quotes: marketQuotes()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "warming_up")

	store.Publish(&models.Snapshot{RebuildID: "seed", Timestamp: time.Now().UTC()})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

package gnews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShowPulse/internal/domain/models"
)

func TestFetchScoresCoverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"Stranger Things"`, r.URL.Query().Get("q"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))

		resp := searchResponse{TotalArticles: 2}
		a := article{Title: "Stranger Things finale praised as amazing", Description: "Critics love it", URL: "https://example.com/a"}
		a.Source.Name = "Example"
		b := article{Title: "Season 5 premiere date announced", URL: "https://example.com/b"}
		b.Source.Name = "Example"
		resp.Articles = []article{a, b}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 25, "en", 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Stranger Things")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.ProviderNews, rec.Kind)

	n := rec.News
	require.NotNil(t, n)
	assert.Equal(t, 2, n.ArticleCount)
	assert.Greater(t, n.AvgSentiment, 0.0)
	require.Len(t, n.TopHeadlines, 2)
	assert.Equal(t, "Example", n.TopHeadlines[0].Source)
	assert.Greater(t, n.Score, 0.0)
	assert.LessOrEqual(t, n.Score, 100.0)
}

func TestFetchNoCoverage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalArticles":0,"articles":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 25, "en", 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Obscure Show")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":["rate limit"]}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 25, "en", 5*time.Second, nil)
	_, err := c.Fetch(context.Background(), "Stranger Things")
	require.Error(t, err)
}

func TestCoverageScore(t *testing.T) {
	// neutral sentiment with full coverage sits at the midpoint
	assert.InDelta(t, 50.0, coverageScore(0, 20), 1e-9)
	// thin coverage discounts the score
	assert.InDelta(t, 5.0, coverageScore(0, 2), 1e-9)
	// bounds
	assert.InDelta(t, 100.0, coverageScore(1, 40), 1e-9)
	assert.InDelta(t, 0.0, coverageScore(-1, 20), 1e-9)
}

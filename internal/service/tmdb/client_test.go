package tmdb

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

func TestFetchFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/tv":
			assert.Equal(t, "Stranger Things", r.URL.Query().Get("query"))
			_ = json.NewEncoder(w).Encode(searchResponse{Results: []tvResult{
				{ID: 66732, Name: "Stranger Things", VoteAverage: 8.6, VoteCount: 18000, Popularity: 450.2},
			}})
		case "/trending/tv/week":
			_ = json.NewEncoder(w).Encode(searchResponse{Results: []tvResult{
				{ID: 1399}, {ID: 66732}, {ID: 94997},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Stranger Things")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.ProviderPopularity, rec.Kind)
	require.NotNil(t, rec.Popularity)
	assert.Equal(t, int64(66732), rec.Popularity.ID)
	assert.Equal(t, 8.6, rec.Popularity.VoteAverage)
	assert.Equal(t, 2, rec.Popularity.TrendingRank)
	assert.True(t, rec.Popularity.Found)
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Nonexistent Show")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchTrendingFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/tv" {
			_ = json.NewEncoder(w).Encode(searchResponse{Results: []tvResult{{ID: 1, Name: "Wednesday"}}})
			return
		}
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 5*time.Second, nil)
	rec, err := c.Fetch(context.Background(), "Wednesday")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 0, rec.Popularity.TrendingRank)
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-key", 5*time.Second, nil)
	_, err := c.Fetch(context.Background(), "Wednesday")
	require.Error(t, err)
}

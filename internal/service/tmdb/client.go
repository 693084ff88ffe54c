package tmdb

import (
	"context"
	"fmt"
	"time"

	"ShowPulse/internal/domain/models"
	xhttp "ShowPulse/pkg/http"
	"ShowPulse/pkg/logger"
)

// Client reads TV show popularity from the TMDB API.
type Client struct {
	http    *xhttp.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

func New(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

func (c *Client) Kind() models.ProviderKind { return models.ProviderPopularity }

type tvResult struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
}

type searchResponse struct {
	Results []tvResult `json:"results"`
}

// Fetch looks the show up by name and returns its popularity metrics.
// An empty search result means the show is unknown to TMDB, not an error.
func (c *Client) Fetch(ctx context.Context, show string) (*models.ProviderRecord, error) {
	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/search/tv",
		QueryParams: map[string][]string{
			"api_key":       {c.apiKey},
			"query":         {show},
			"include_adult": {"false"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("tmdb search: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}
	hit := resp.Results[0]

	rank := c.trendingRank(ctx, hit.ID)

	return &models.ProviderRecord{
		Kind: models.ProviderPopularity,
		Popularity: &models.PopularityMetrics{
			ID:           hit.ID,
			Name:         hit.Name,
			VoteAverage:  hit.VoteAverage,
			VoteCount:    hit.VoteCount,
			Popularity:   hit.Popularity,
			TrendingRank: rank,
			Found:        true,
		},
	}, nil
}

// trendingRank returns the show's 1-based position on this week's trending
// list, 0 when it is not on it. Trending is an enrichment, so any failure
// here degrades to "not trending" rather than failing the fetch.
func (c *Client) trendingRank(ctx context.Context, id int64) int {
	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/trending/tv/week",
		QueryParams: map[string][]string{"api_key": {c.apiKey}},
	}, &resp)
	if err != nil {
		if c.log != nil {
			c.log.Debug("tmdb trending lookup failed", logger.Error(err))
		}
		return 0
	}
	for i, r := range resp.Results {
		if r.ID == id {
			return i + 1
		}
	}
	return 0
}

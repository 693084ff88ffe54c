package gnews

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/service/sentiment"
	xhttp "ShowPulse/pkg/http"
	"ShowPulse/pkg/logger"
)

// coverageTarget is the article count treated as full press coverage when
// scaling the news score.
const coverageTarget = 20

// topHeadlineCount bounds headlines kept on the record.
const topHeadlineCount = 5

// Client scores press coverage through the GNews API.
type Client struct {
	http        *xhttp.Client
	baseURL     string
	apiKey      string
	maxArticles int
	language    string
	log         *logger.Logger
}

func New(baseURL, apiKey string, maxArticles int, language string, timeout time.Duration, log *logger.Logger) *Client {
	if maxArticles <= 0 {
		maxArticles = 25
	}
	if language == "" {
		language = "en"
	}
	return &Client{
		http:        xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxArticles: maxArticles,
		language:    language,
		log:         log,
	}
}

func (c *Client) Kind() models.ProviderKind { return models.ProviderNews }

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type searchResponse struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []article `json:"articles"`
}

// Fetch pulls recent coverage for the show and scores headline sentiment.
// Zero articles is an absent result.
func (c *Client) Fetch(ctx context.Context, show string) (*models.ProviderRecord, error) {
	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/search",
		QueryParams: map[string][]string{
			"q":      {fmt.Sprintf("%q", show)},
			"lang":   {c.language},
			"max":    {strconv.Itoa(c.maxArticles)},
			"apikey": {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("gnews search: %w", err)
	}

	if len(resp.Articles) == 0 {
		return nil, nil
	}

	var sum float64
	headlines := make([]models.Headline, 0, topHeadlineCount)
	for _, a := range resp.Articles {
		s := sentiment.Score(strings.Join([]string{a.Title, a.Description, a.Content}, ". "))
		sum += s
		if len(headlines) < topHeadlineCount {
			headlines = append(headlines, models.Headline{
				Title:     a.Title,
				Source:    a.Source.Name,
				URL:       a.URL,
				Sentiment: s,
			})
		}
	}

	count := len(resp.Articles)
	avg := sum / float64(count)

	return &models.ProviderRecord{
		Kind: models.ProviderNews,
		News: &models.NewsMetrics{
			Query:        show,
			ArticleCount: count,
			AvgSentiment: avg,
			TopHeadlines: headlines,
			Score:        coverageScore(avg, count),
		},
	}, nil
}

// coverageScore maps average sentiment to 0-100 and discounts thin coverage.
func coverageScore(avgSentiment float64, count int) float64 {
	volume := float64(count) / coverageTarget
	if volume > 1 {
		volume = 1
	}
	return (avgSentiment + 1) / 2 * 100 * volume
}

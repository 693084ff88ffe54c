package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"ShowPulse/internal/domain/models"
	xhttp "ShowPulse/pkg/http"
	"ShowPulse/pkg/logger"
	"ShowPulse/pkg/util"
)

// Client reads article pageview counts from the Wikimedia REST API.
type Client struct {
	http       *xhttp.Client
	baseURL    string
	userAgent  string
	windowDays int
	log        *logger.Logger
	now        func() time.Time
}

func New(baseURL, userAgent string, windowDays int, timeout time.Duration, log *logger.Logger) *Client {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Client{
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:    baseURL,
		userAgent:  userAgent,
		windowDays: windowDays,
		log:        log,
		now:        time.Now,
	}
}

func (c *Client) Kind() models.ProviderKind { return models.ProviderSearch }

type pageviewItem struct {
	Article   string `json:"article"`
	Timestamp string `json:"timestamp"`
	Views     int64  `json:"views"`
}

type pageviewsResponse struct {
	Items []pageviewItem `json:"items"`
}

// Fetch returns daily pageviews for the show's article over the lookback
// window. The plain title is tried first, then the "(TV series)"
// disambiguation; a missing article on both is an absent result.
func (c *Client) Fetch(ctx context.Context, show string) (*models.ProviderRecord, error) {
	for _, article := range candidateArticles(show) {
		rec, err := c.fetchArticle(ctx, article)
		if err != nil {
			var se *xhttp.StatusError
			if errors.As(err, &se) && se.StatusCode == 404 {
				continue
			}
			return nil, err
		}
		return rec, nil
	}
	return nil, nil
}

func (c *Client) fetchArticle(ctx context.Context, article string) (*models.ProviderRecord, error) {
	// pageview counts lag by about a day, so the window ends yesterday
	end := c.now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(c.windowDays - 1))

	reqURL := fmt.Sprintf("%s/metrics/pageviews/per-article/en.wikipedia/all-access/user/%s/daily/%s/%s",
		c.baseURL, url.PathEscape(article), util.DayStamp(start), util.DayStamp(end))

	var resp pageviewsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     reqURL,
		Headers: map[string]string{"User-Agent": c.userAgent},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	points := make([]models.PageviewPoint, 0, len(resp.Items))
	var total int64
	for _, it := range resp.Items {
		points = append(points, models.PageviewPoint{Date: it.Timestamp, Views: it.Views})
		total += it.Views
	}

	if c.log != nil {
		c.log.Debug("wikipedia pageviews fetched",
			logger.String("article", article), logger.Int64("views", total))
	}

	return &models.ProviderRecord{
		Kind: models.ProviderSearch,
		Search: &models.SearchMetrics{
			Article:       article,
			Points:        points,
			TotalViews:    total,
			AvgDailyViews: float64(total) / float64(len(points)),
		},
	}, nil
}

func candidateArticles(show string) []string {
	base := strings.ReplaceAll(strings.TrimSpace(show), " ", "_")
	return []string{base, base + "_(TV_series)"}
}

package youtube

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/service/sentiment"
	xhttp "ShowPulse/pkg/http"
	"ShowPulse/pkg/logger"
)

// Score blend for trailer engagement, on a 0-100 scale.
const (
	viewWeight      = 0.50
	likeWeight      = 0.25
	sentimentWeight = 0.25

	// log10 views saturating the view component; 1e8 views scores full marks
	viewSaturation = 8.0
	// like/view ratio treated as excellent
	likeSaturation = 0.05
)

// Client measures trailer engagement through the YouTube Data API.
type Client struct {
	http        *xhttp.Client
	baseURL     string
	apiKey      string
	maxVideos   int
	maxComments int
	log         *logger.Logger
}

func New(baseURL, apiKey string, maxVideos, maxComments int, timeout time.Duration, log *logger.Logger) *Client {
	if maxVideos <= 0 {
		maxVideos = 5
	}
	return &Client{
		http:        xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:     baseURL,
		apiKey:      apiKey,
		maxVideos:   maxVideos,
		maxComments: maxComments,
		log:         log,
	}
}

func (c *Client) Kind() models.ProviderKind { return models.ProviderVideo }

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type videoItem struct {
	ID         string `json:"id"`
	Statistics struct {
		ViewCount    string `json:"viewCount"`
		LikeCount    string `json:"likeCount"`
		CommentCount string `json:"commentCount"`
	} `json:"statistics"`
}

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type commentThread struct {
	Snippet struct {
		TopLevelComment struct {
			Snippet struct {
				TextDisplay string `json:"textDisplay"`
			} `json:"snippet"`
		} `json:"topLevelComment"`
	} `json:"snippet"`
}

type commentsResponse struct {
	Items []commentThread `json:"items"`
}

// Fetch searches for the show's official trailer uploads and aggregates
// view, like, and comment-sentiment signals into a 0-100 score.
func (c *Client) Fetch(ctx context.Context, show string) (*models.ProviderRecord, error) {
	query := show + " official trailer"

	ids, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var totalViews, totalLikes int64
	vids, err := c.videoStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range vids {
		totalViews += parseCount(v.Statistics.ViewCount)
		totalLikes += parseCount(v.Statistics.LikeCount)
	}

	// comment sentiment comes from the top hit only; one extra API call
	// per show is enough signal
	commentScore := 0.0
	if c.maxComments > 0 {
		texts, err := c.comments(ctx, ids[0])
		if err != nil {
			if c.log != nil {
				c.log.Debug("youtube comments unavailable",
					logger.String("video", ids[0]), logger.Error(err))
			}
		} else {
			commentScore = sentiment.ScoreAll(texts)
		}
	}

	likeRatio := 0.0
	if totalViews > 0 {
		likeRatio = float64(totalLikes) / float64(totalViews)
	}

	return &models.ProviderRecord{
		Kind: models.ProviderVideo,
		Video: &models.VideoMetrics{
			Query:            query,
			VideoCount:       len(vids),
			TotalViews:       totalViews,
			TotalLikes:       totalLikes,
			LikeRatio:        likeRatio,
			CommentSentiment: commentScore,
			Score:            engagementScore(totalViews, likeRatio, commentScore),
		},
	}, nil
}

func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	var resp searchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/search",
		QueryParams: map[string][]string{
			"part":       {"snippet"},
			"q":          {query},
			"type":       {"video"},
			"maxResults": {strconv.Itoa(c.maxVideos)},
			"key":        {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) videoStats(ctx context.Context, ids []string) ([]videoItem, error) {
	var resp videosResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/videos",
		QueryParams: map[string][]string{
			"part": {"statistics"},
			"id":   {strings.Join(ids, ",")},
			"key":  {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}
	return resp.Items, nil
}

func (c *Client) comments(ctx context.Context, videoID string) ([]string, error) {
	var resp commentsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/commentThreads",
		QueryParams: map[string][]string{
			"part":       {"snippet"},
			"videoId":    {videoID},
			"maxResults": {strconv.Itoa(c.maxComments)},
			"order":      {"relevance"},
			"key":        {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(resp.Items))
	for _, it := range resp.Items {
		texts = append(texts, it.Snippet.TopLevelComment.Snippet.TextDisplay)
	}
	return texts, nil
}

// engagementScore blends log-scaled views, like ratio, and comment sentiment
// into 0-100.
func engagementScore(views int64, likeRatio, commentSentiment float64) float64 {
	viewPart := 0.0
	if views > 0 {
		viewPart = math.Log10(float64(views)+1) / viewSaturation
		if viewPart > 1 {
			viewPart = 1
		}
	}

	likePart := likeRatio / likeSaturation
	if likePart > 1 {
		likePart = 1
	}

	sentPart := (commentSentiment + 1) / 2

	return (viewWeight*viewPart + likeWeight*likePart + sentimentWeight*sentPart) * 100
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

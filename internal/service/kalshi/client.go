package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"ShowPulse/internal/domain/models"
	xhttp "ShowPulse/pkg/http"
	"ShowPulse/pkg/logger"
)

// fetchLimit is the page size asked from the markets endpoint. Ranking
// events carry well under this many open markets, so one page suffices.
const fetchLimit = 1000

// Client reads market quotes for one event from the Kalshi trade API.
type Client struct {
	http        *xhttp.Client
	baseURL     string
	eventTicker string
	creds       *Credentials
	log         *logger.Logger
}

// New creates a Kalshi quote source. creds may be nil for public endpoints.
func New(baseURL, eventTicker string, creds *Credentials, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		http:        xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:     baseURL,
		eventTicker: eventTicker,
		creds:       creds,
		log:         log,
	}
}

type marketPayload struct {
	Ticker       string `json:"ticker"`
	EventTicker  string `json:"event_ticker"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	YesSubTitle  string `json:"yes_sub_title"`
	YesBid       int    `json:"yes_bid"`
	YesAsk       int    `json:"yes_ask"`
	NoBid        int    `json:"no_bid"`
	NoAsk        int    `json:"no_ask"`
	LastPrice    int    `json:"last_price"`
	Volume       int64  `json:"volume"`
	OpenInterest int64  `json:"open_interest"`
	Status       string `json:"status"`
}

type marketsResponse struct {
	Markets []marketPayload `json:"markets"`
	Cursor  string          `json:"cursor"`
}

// TopQuotes returns the event's open markets ranked by yes bid, falling back
// to last price when no bid is resting, truncated to limit.
func (c *Client) TopQuotes(ctx context.Context, limit int) ([]models.MarketQuote, error) {
	reqURL := c.baseURL + "/markets"

	headers := map[string]string{"Accept": "application/json"}
	if c.creds != nil {
		u, err := url.Parse(reqURL)
		if err != nil {
			return nil, fmt.Errorf("parse url: %w", err)
		}
		auth, err := c.creds.SignRequest(xhttp.MethodGet, u.Path)
		if err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
		for k, v := range auth {
			headers[k] = v
		}
	}

	var resp marketsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     reqURL,
		Headers: headers,
		QueryParams: map[string][]string{
			"event_ticker": {c.eventTicker},
			"status":       {"open"},
			"limit":        {strconv.Itoa(fetchLimit)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("kalshi markets: %w", err)
	}

	quotes := make([]models.MarketQuote, 0, len(resp.Markets))
	for _, m := range resp.Markets {
		subtitle := m.Subtitle
		if subtitle == "" {
			subtitle = m.YesSubTitle
		}
		q := models.MarketQuote{
			Ticker:       m.Ticker,
			EventTicker:  m.EventTicker,
			Title:        m.Title,
			Subtitle:     subtitle,
			YesBid:       m.YesBid,
			YesAsk:       m.YesAsk,
			NoBid:        m.NoBid,
			NoAsk:        m.NoAsk,
			LastPrice:    m.LastPrice,
			Volume:       m.Volume,
			OpenInterest: m.OpenInterest,
		}
		q.ImpliedChance = impliedChance(q)
		quotes = append(quotes, q)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		ki, kj := rankKey(quotes[i]), rankKey(quotes[j])
		if ki != kj {
			return ki > kj
		}
		return quotes[i].LastPrice > quotes[j].LastPrice
	})

	if limit > 0 && len(quotes) > limit {
		quotes = quotes[:limit]
	}

	if c.log != nil {
		c.log.Debug("kalshi quotes fetched",
			logger.String("event", c.eventTicker),
			logger.Int("count", len(quotes)))
	}
	return quotes, nil
}

// rankKey orders markets by resting yes bid; a market with no bid but a last
// trade still ranks by that trade rather than falling to the bottom.
func rankKey(q models.MarketQuote) int {
	if q.YesBid > 0 {
		return q.YesBid
	}
	return q.LastPrice
}

// impliedChance reads the market's implied probability in percentage points,
// last trade first, resting yes bid when the market has not traded.
func impliedChance(q models.MarketQuote) float64 {
	if q.LastPrice > 0 {
		return float64(q.LastPrice)
	}
	if q.YesBid > 0 {
		return float64(q.YesBid)
	}
	return 0
}

package models

// MarketQuote is one prediction-market instrument for a show. Prices are in
// cents, which on a 0-100 contract doubles as percentage points of implied
// probability.
type MarketQuote struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`

	YesBid    int `json:"yes_bid"`
	YesAsk    int `json:"yes_ask"`
	NoBid     int `json:"no_bid"`
	NoAsk     int `json:"no_ask"`
	LastPrice int `json:"last_price"`

	Volume       int64 `json:"volume"`
	OpenInterest int64 `json:"open_interest"`

	// ImpliedChance is the market's implied probability on a 0-100 scale,
	// last price falling back to yes bid.
	ImpliedChance float64 `json:"implied_chance"`
}

// Label returns the raw show label carried by the quote. Season names live in
// the subtitle on ranking events, so the subtitle wins when present.
func (q *MarketQuote) Label() string {
	if q.Subtitle != "" {
		return q.Subtitle
	}
	return q.Title
}

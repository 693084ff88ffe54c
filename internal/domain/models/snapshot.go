package models

import "time"

// Recommendation is the discrete trading signal derived from the edge.
type Recommendation string

const (
	RecommendBuyYes Recommendation = "BUY_YES"
	RecommendBuyNo  Recommendation = "BUY_NO"
	RecommendHold   Recommendation = "HOLD"
)

// ScoreBreakdown records each weighted contribution to the composite.
type ScoreBreakdown struct {
	Market     float64 `json:"market"`
	Video      float64 `json:"video"`
	News       float64 `json:"news"`
	Popularity float64 `json:"popularity"`
	Search     float64 `json:"search"`
}

// MergedRecord is one show with its market quote, whatever provider records
// succeeded, and the derived scoring fields. The quote is mandatory; provider
// records are optional and keyed by provider identity.
type MergedRecord struct {
	Show      string                           `json:"show_name"`
	Market    MarketQuote                      `json:"market"`
	Providers map[ProviderKind]*ProviderRecord `json:"providers"`

	CompositeScore float64        `json:"composite_score"`
	FairPrice      float64        `json:"fair_price"`
	EdgePoints     float64        `json:"edge_points"`
	Recommendation Recommendation `json:"recommendation"`
	Breakdown      ScoreBreakdown `json:"score_breakdown"`
}

// Provider returns the record for kind, or nil when the provider had no data.
func (r *MergedRecord) Provider(kind ProviderKind) *ProviderRecord {
	if r.Providers == nil {
		return nil
	}
	return r.Providers[kind]
}

// Snapshot is one complete, immutable analysis pass over every active show,
// ordered by composite score descending. Once published to the store it is
// never mutated; a rebuild swaps in a fresh one.
type Snapshot struct {
	RebuildID string          `json:"rebuild_id"`
	Timestamp time.Time       `json:"timestamp"`
	Records   []*MergedRecord `json:"shows"`
}

package usecase

import (
	"sort"

	"ShowPulse/internal/domain/models"
)

// ScoringConfig carries the composite weights (percentage points, summing to
// 100) and the recommendation threshold.
type ScoringConfig struct {
	MarketWeight     float64
	VideoWeight      float64
	NewsWeight       float64
	PopularityWeight float64
	SearchWeight     float64

	// HoldThreshold is the minimum edge, in cents, before a directional
	// recommendation is issued.
	HoldThreshold float64

	// Renormalize redistributes the weights of absent providers across the
	// present ones instead of zero-filling their sub-scores.
	Renormalize bool
}

// DefaultScoringConfig mirrors the production weighting.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		MarketWeight:     50,
		VideoWeight:      20,
		NewsWeight:       15,
		PopularityWeight: 10,
		SearchWeight:     5,
		HoldThreshold:    5,
	}
}

// Scorer derives composite scores, fair prices, and recommendations for a
// merged record set. Scoring is relative within one snapshot: the search
// sub-score is each show's share of the snapshot's total pageviews.
type Scorer struct {
	cfg ScoringConfig
}

func NewScorer(cfg ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// ScoreAll fills the scoring fields of every record in place and sorts the
// set by composite score descending. It is deterministic for a given input.
func (s *Scorer) ScoreAll(records []*models.MergedRecord) {
	grandViews := totalPageviews(records)

	for _, rec := range records {
		s.score(rec, grandViews)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CompositeScore > records[j].CompositeScore
	})
}

type component struct {
	weight  float64
	score   float64
	present bool
}

func (s *Scorer) score(rec *models.MergedRecord, grandViews int64) {
	components := []component{
		{s.cfg.MarketWeight, marketScore(rec.Market), true},
		{s.cfg.VideoWeight, videoScore(rec.Provider(models.ProviderVideo)), rec.Provider(models.ProviderVideo) != nil},
		{s.cfg.NewsWeight, newsScore(rec.Provider(models.ProviderNews)), rec.Provider(models.ProviderNews) != nil},
		{s.cfg.PopularityWeight, popularityScore(rec.Provider(models.ProviderPopularity)), rec.Provider(models.ProviderPopularity) != nil},
		{s.cfg.SearchWeight, searchScore(rec.Provider(models.ProviderSearch), grandViews), rec.Provider(models.ProviderSearch) != nil},
	}

	totalWeight := 0.0
	if s.cfg.Renormalize {
		for _, c := range components {
			if c.present {
				totalWeight += c.weight
			}
		}
	} else {
		for _, c := range components {
			totalWeight += c.weight
		}
	}
	if totalWeight == 0 {
		totalWeight = 100
	}

	var composite float64
	var contrib [5]float64
	for i, c := range components {
		if s.cfg.Renormalize && !c.present {
			continue
		}
		contrib[i] = c.weight / totalWeight * c.score
		composite += contrib[i]
	}

	rec.CompositeScore = clamp(composite, 0, 100)
	rec.Breakdown = models.ScoreBreakdown{
		Market:     contrib[0],
		Video:      contrib[1],
		News:       contrib[2],
		Popularity: contrib[3],
		Search:     contrib[4],
	}

	// the composite doubles as the model's fair contract price in cents
	rec.FairPrice = rec.CompositeScore
	rec.EdgePoints, rec.Recommendation = recommend(rec.FairPrice, rec.Market, s.cfg.HoldThreshold)
}

// recommend compares the fair price against the executable side of the book.
// Buying YES fills at the ask, buying NO exits YES at the bid; a side with no
// resting price falls back to the last trade, and a market with neither is
// never actionable.
func recommend(fair float64, q models.MarketQuote, threshold float64) (float64, models.Recommendation) {
	buyAt := float64(q.YesAsk)
	if buyAt == 0 {
		buyAt = float64(q.LastPrice)
	}
	sellAt := float64(q.YesBid)
	if sellAt == 0 {
		sellAt = float64(q.LastPrice)
	}

	var edge float64
	rec := models.RecommendHold

	if buyAt > 0 && fair-buyAt > edge {
		edge = fair - buyAt
		if edge >= threshold {
			rec = models.RecommendBuyYes
		}
	}
	if sellAt > 0 && sellAt-fair > edge {
		edge = sellAt - fair
		rec = models.RecommendHold
		if edge >= threshold {
			rec = models.RecommendBuyNo
		}
	}
	return edge, rec
}

// marketScore reads the implied probability straight onto the 0-100 scale.
func marketScore(q models.MarketQuote) float64 {
	return clamp(q.ImpliedChance, 0, 100)
}

func videoScore(rec *models.ProviderRecord) float64 {
	if rec == nil || rec.Video == nil {
		return 0
	}
	return clamp(rec.Video.Score, 0, 100)
}

func newsScore(rec *models.ProviderRecord) float64 {
	if rec == nil || rec.News == nil {
		return 0
	}
	return clamp(rec.News.Score, 0, 100)
}

// trendingBoostMax is added for the #1 trending slot, decaying linearly to
// zero past rank 20.
const trendingBoostMax = 20.0

func popularityScore(rec *models.ProviderRecord) float64 {
	if rec == nil || rec.Popularity == nil || !rec.Popularity.Found {
		return 0
	}
	p := rec.Popularity

	base := clamp(p.VoteAverage*10, 0, 100)
	if p.TrendingRank > 0 && p.TrendingRank <= 20 {
		base += trendingBoostMax * float64(21-p.TrendingRank) / 20
	}
	return clamp(base, 0, 100)
}

// searchScore is the show's share of the snapshot's total pageviews, so the
// column always sums to 100 across the set when every show has data.
func searchScore(rec *models.ProviderRecord, grandViews int64) float64 {
	if rec == nil || rec.Search == nil || grandViews <= 0 {
		return 0
	}
	return float64(rec.Search.TotalViews) / float64(grandViews) * 100
}

func totalPageviews(records []*models.MergedRecord) int64 {
	var total int64
	for _, rec := range records {
		if p := rec.Provider(models.ProviderSearch); p != nil && p.Search != nil {
			total += p.Search.TotalViews
		}
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

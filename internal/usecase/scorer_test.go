package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShowPulse/internal/domain/models"
)

func quoteRecord(show string, q models.MarketQuote) *models.MergedRecord {
	return &models.MergedRecord{
		Show:      show,
		Market:    q,
		Providers: map[models.ProviderKind]*models.ProviderRecord{},
	}
}

func withSearch(rec *models.MergedRecord, views int64) *models.MergedRecord {
	rec.Providers[models.ProviderSearch] = &models.ProviderRecord{
		Kind:   models.ProviderSearch,
		Search: &models.SearchMetrics{Article: rec.Show, TotalViews: views},
	}
	return rec
}

func TestDefaultWeightsSumToHundred(t *testing.T) {
	cfg := DefaultScoringConfig()
	sum := cfg.MarketWeight + cfg.VideoWeight + cfg.NewsWeight +
		cfg.PopularityWeight + cfg.SearchWeight
	assert.Equal(t, 100.0, sum)
}

func TestRecommendBuyYes(t *testing.T) {
	edge, rec := recommend(70, models.MarketQuote{YesAsk: 50, YesBid: 48, LastPrice: 49}, 5)
	assert.Equal(t, models.RecommendBuyYes, rec)
	assert.Equal(t, 20.0, edge)
}

func TestRecommendBuyNo(t *testing.T) {
	edge, rec := recommend(30, models.MarketQuote{YesAsk: 58, YesBid: 55, LastPrice: 56}, 5)
	assert.Equal(t, models.RecommendBuyNo, rec)
	assert.Equal(t, 25.0, edge)
}

func TestRecommendHoldSmallEdge(t *testing.T) {
	edge, rec := recommend(52, models.MarketQuote{YesAsk: 50, YesBid: 48, LastPrice: 49}, 5)
	assert.Equal(t, models.RecommendHold, rec)
	assert.Equal(t, 2.0, edge)
}

func TestRecommendFallsBackToLastPrice(t *testing.T) {
	// no resting ask; last trade stands in
	edge, rec := recommend(70, models.MarketQuote{YesAsk: 0, YesBid: 0, LastPrice: 55}, 5)
	assert.Equal(t, models.RecommendBuyYes, rec)
	assert.Equal(t, 15.0, edge)
}

func TestRecommendNoPricesHolds(t *testing.T) {
	edge, rec := recommend(70, models.MarketQuote{}, 5)
	assert.Equal(t, models.RecommendHold, rec)
	assert.Equal(t, 0.0, edge)
}

func TestScoreAllMarketOnlyZeroFill(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	rec := quoteRecord("Wednesday", models.MarketQuote{YesAsk: 30, YesBid: 26, LastPrice: 28, ImpliedChance: 28})
	records := []*models.MergedRecord{rec}

	s.ScoreAll(records)

	// only the market component contributes: 50% of 28
	assert.InDelta(t, 14.0, rec.CompositeScore, 1e-9)
	assert.InDelta(t, 14.0, rec.Breakdown.Market, 1e-9)
	assert.Equal(t, 0.0, rec.Breakdown.Video)
	assert.Equal(t, rec.CompositeScore, rec.FairPrice)
}

func TestScoreAllRenormalizeMissing(t *testing.T) {
	cfg := DefaultScoringConfig()
	cfg.Renormalize = true
	s := NewScorer(cfg)

	rec := quoteRecord("Wednesday", models.MarketQuote{YesAsk: 30, YesBid: 26, LastPrice: 28, ImpliedChance: 28})
	s.ScoreAll([]*models.MergedRecord{rec})

	// market is the only present component, so it carries full weight
	assert.InDelta(t, 28.0, rec.CompositeScore, 1e-9)
}

func TestScoreAllSearchShares(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	a := withSearch(quoteRecord("A", models.MarketQuote{ImpliedChance: 50}), 75000)
	b := withSearch(quoteRecord("B", models.MarketQuote{ImpliedChance: 50}), 25000)

	s.ScoreAll([]*models.MergedRecord{a, b})

	// search contribution is weight * share: 5% of 75 and 5% of 25
	assert.InDelta(t, 3.75, a.Breakdown.Search, 1e-9)
	assert.InDelta(t, 1.25, b.Breakdown.Search, 1e-9)
}

func TestScoreAllSortsByCompositeDesc(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	low := quoteRecord("Low", models.MarketQuote{ImpliedChance: 10})
	high := quoteRecord("High", models.MarketQuote{ImpliedChance: 90})
	mid := quoteRecord("Mid", models.MarketQuote{ImpliedChance: 50})
	records := []*models.MergedRecord{low, high, mid}

	s.ScoreAll(records)

	assert.Equal(t, "High", records[0].Show)
	assert.Equal(t, "Mid", records[1].Show)
	assert.Equal(t, "Low", records[2].Show)
}

func TestScoreAllEndToEnd(t *testing.T) {
	s := NewScorer(DefaultScoringConfig())
	rec := quoteRecord("Stranger Things", models.MarketQuote{
		YesAsk: 60, YesBid: 56, LastPrice: 58, ImpliedChance: 75,
	})
	rec.Providers[models.ProviderVideo] = &models.ProviderRecord{
		Kind:  models.ProviderVideo,
		Video: &models.VideoMetrics{Score: 75},
	}
	rec.Providers[models.ProviderNews] = &models.ProviderRecord{
		Kind: models.ProviderNews,
		News: &models.NewsMetrics{Score: 75},
	}
	rec.Providers[models.ProviderPopularity] = &models.ProviderRecord{
		Kind:       models.ProviderPopularity,
		Popularity: &models.PopularityMetrics{VoteAverage: 7.5, Found: true},
	}
	rec = withSearch(rec, 100)

	s.ScoreAll([]*models.MergedRecord{rec})

	// every sub-score is 75 (sole show owns 75%... search share is 100%
	// of one show: 100), so composite = .5*75+.2*75+.15*75+.1*75+.05*100
	assert.InDelta(t, 76.25, rec.CompositeScore, 1e-9)
	assert.Equal(t, rec.CompositeScore, rec.FairPrice)
	assert.Equal(t, models.RecommendBuyYes, rec.Recommendation)
	assert.InDelta(t, 16.25, rec.EdgePoints, 1e-9)
}

func TestPopularityScoreTrendingBoost(t *testing.T) {
	plain := popularityScore(&models.ProviderRecord{
		Popularity: &models.PopularityMetrics{VoteAverage: 7.0, Found: true},
	})
	trending := popularityScore(&models.ProviderRecord{
		Popularity: &models.PopularityMetrics{VoteAverage: 7.0, TrendingRank: 1, Found: true},
	})
	assert.Equal(t, 70.0, plain)
	assert.Equal(t, 90.0, trending)

	// boost decays with rank and the score stays within scale
	capped := popularityScore(&models.ProviderRecord{
		Popularity: &models.PopularityMetrics{VoteAverage: 9.5, TrendingRank: 1, Found: true},
	})
	assert.Equal(t, 100.0, capped)
}

func TestMergeQuoteMandatoryProvidersOptional(t *testing.T) {
	shows := []string{"A", "B"}
	quotes := map[string]models.MarketQuote{
		"A": {Ticker: "TA"},
		// B has no quote and must be dropped
	}
	collected := map[string]map[models.ProviderKind]*models.ProviderRecord{
		"A": {},
		"B": {models.ProviderNews: {Kind: models.ProviderNews, News: &models.NewsMetrics{}}},
	}

	records := Merge(shows, quotes, collected)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Show)
	assert.Empty(t, records[0].Providers)
}

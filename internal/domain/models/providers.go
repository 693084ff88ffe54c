package models

// ProviderKind identifies a metric provider inside a merged record.
type ProviderKind string

const (
	ProviderPopularity ProviderKind = "tmdb"
	ProviderVideo      ProviderKind = "youtube"
	ProviderSearch     ProviderKind = "wikipedia"
	ProviderNews       ProviderKind = "news"
)

// AllProviderKinds lists every metric provider, in weight order.
func AllProviderKinds() []ProviderKind {
	return []ProviderKind{ProviderVideo, ProviderNews, ProviderPopularity, ProviderSearch}
}

// ProviderRecord is one normalized payload from one provider for one show.
// Exactly one of the variant pointers matching Kind is set. A missing record
// (provider failed, timed out, or had no data) is represented by absence from
// the merged record, never by an error.
type ProviderRecord struct {
	Kind       ProviderKind       `json:"kind"`
	Popularity *PopularityMetrics `json:"popularity,omitempty"`
	Video      *VideoMetrics      `json:"video,omitempty"`
	Search     *SearchMetrics     `json:"search,omitempty"`
	News       *NewsMetrics       `json:"news,omitempty"`
}

// PopularityMetrics comes from the TMDB adapter.
type PopularityMetrics struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	TrendingRank int     `json:"trending_rank,omitempty"` // 0 = not trending
	Found        bool    `json:"found"`
}

// VideoMetrics aggregates trailer engagement from the YouTube adapter.
type VideoMetrics struct {
	Query            string  `json:"query"`
	VideoCount       int     `json:"video_count"`
	TotalViews       int64   `json:"total_views"`
	TotalLikes       int64   `json:"total_likes"`
	LikeRatio        float64 `json:"like_ratio"`
	CommentSentiment float64 `json:"comment_sentiment"` // -1..1
	Score            float64 `json:"score"`             // derived sub-score, 0-100
}

// PageviewPoint is one day of Wikipedia pageviews.
type PageviewPoint struct {
	Date  string `json:"date"` // YYYYMMDD
	Views int64  `json:"views"`
}

// SearchMetrics holds pageviews for the trailing window. Its sub-score is
// relative to the other shows in the snapshot and is computed at scoring time.
type SearchMetrics struct {
	Article       string          `json:"article"`
	Points        []PageviewPoint `json:"points"`
	TotalViews    int64           `json:"total_views"`
	AvgDailyViews float64         `json:"avg_daily_views"`
}

// Headline is one scored news article.
type Headline struct {
	Title     string  `json:"title"`
	Source    string  `json:"source,omitempty"`
	URL       string  `json:"url,omitempty"`
	Sentiment float64 `json:"sentiment"`
}

// NewsMetrics comes from the news adapter.
type NewsMetrics struct {
	Query        string     `json:"query"`
	ArticleCount int        `json:"article_count"`
	AvgSentiment float64    `json:"avg_sentiment"` // -1..1
	TopHeadlines []Headline `json:"top_headlines,omitempty"`
	Score        float64    `json:"score"` // derived sub-score, 0-100
}

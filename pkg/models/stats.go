package models

// DayBuckets counts samples per sentiment bucket
type DayBuckets struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// DerivedStats summarizes a sentiment series
type DerivedStats struct {
	Current       float64    `json:"current"`
	Previous      float64    `json:"previous"`
	Change        float64    `json:"change"`
	Average       float64    `json:"average"`
	Min           float64    `json:"min"`
	Max           float64    `json:"max"`
	Volatility    float64    `json:"volatility"`
	Days          DayBuckets `json:"days"`
	MovingAverage []float64  `json:"moving_average"`
	Samples       int        `json:"samples"`
}

// Trend is the direction of a mover's sentiment change
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Mover is a company ranked on the "stocks to watch" board
type Mover struct {
	Company           Company `json:"company"`
	CurrentSentiment  float64 `json:"current_sentiment"`
	PreviousSentiment float64 `json:"previous_sentiment"`
	SentimentChange   float64 `json:"sentiment_change"`
	Volume            int     `json:"volume"`
	Trend             Trend   `json:"trend"`
	Watchlist         bool    `json:"watchlist"`
}

// MarketOverview aggregates headline numbers for the market page
type MarketOverview struct {
	Companies        int             `json:"companies"`
	AverageSentiment float64         `json:"average_sentiment"`
	CompanyBuckets   DayBuckets      `json:"company_buckets"`
	Sectors          SectorBreakdown `json:"sectors"`
	NewsBuckets      DayBuckets      `json:"news_buckets"`
	NewsCount        int             `json:"news_count"`
}

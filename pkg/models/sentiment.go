package models

import "time"

// SentimentSample is a single daily point of a company sentiment series
type SentimentSample struct {
	Date      time.Time `json:"date"`
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Score     float64   `json:"score"`  // -1..1
	Volume    int       `json:"volume"` // mentions
}

// SectorScore is one company's contribution to its sector aggregate
type SectorScore struct {
	Sector string  `json:"sector"`
	Score  float64 `json:"score"`
}

// SectorSentiment represents mean sentiment of all scored companies in a sector
type SectorSentiment struct {
	Sector           string  `json:"sector"`
	AverageSentiment float64 `json:"average_sentiment"`
	Change           float64 `json:"change"` // always 0, no sector history is read
	Volume           int     `json:"volume"`
	Companies        int     `json:"companies"`
}

// SectorBreakdown counts sectors per sentiment bucket
type SectorBreakdown struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
	Strong   int `json:"strong"` // average > 0.3
	Weak     int `json:"weak"`   // average < -0.3
}

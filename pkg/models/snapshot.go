package models

import "time"

// CompanySnapshot is a company's score captured by the daily snapshot job
type CompanySnapshot struct {
	CompanyID string  `json:"company_id" db:"company_id"`
	Sector    string  `json:"sector" db:"sector"`
	Score     float64 `json:"score" db:"score"`
	Bucket    string  `json:"bucket" db:"bucket"`
}

// Snapshot is one run of the daily snapshot job
type Snapshot struct {
	CapturedAt time.Time         `json:"captured_at"`
	Sectors    []SectorSentiment `json:"sectors"`
	Companies  []CompanySnapshot `json:"companies"`
}

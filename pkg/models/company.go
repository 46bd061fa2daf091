package models

// Company represents a tracked listed company.
// ID and Ticker are both derived from the tracking row's symbol.
type Company struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
	Sector string `json:"sector"`
	Logo   string `json:"logo"`
}

// CompanyScore pairs a company with its current sentiment score
type CompanyScore struct {
	Company Company `json:"company"`
	Score   float64 `json:"score"`
}

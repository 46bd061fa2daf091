package models

import "time"

// Language of a news item
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// NewsItem represents a news article normalized from any upstream news table
type NewsItem struct {
	PublishedAt      time.Time `json:"published_at"`
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	TitleAr          string    `json:"title_ar,omitempty"`
	Content          string    `json:"content"`
	ContentAr        string    `json:"content_ar,omitempty"`
	Source           string    `json:"source"`
	URL              string    `json:"url"`
	Language         Language  `json:"language"`
	RelatedCompanies []string  `json:"related_companies"`
	Sentiment        float64   `json:"sentiment"` // -1..1, mapped from a discrete label
}

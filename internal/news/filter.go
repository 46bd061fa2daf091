package news

import (
	"strings"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// All disables a filter dimension
const All = "all"

// Filter selects news items; empty fields behave like All
type Filter struct {
	SearchTerm string `form:"search"`
	Language   string `form:"language"`
	Sentiment  string `form:"sentiment"`
	Company    string `form:"company"`
}

// Match reports whether item passes every predicate of the filter
func (f Filter) Match(item models.NewsItem) bool {
	if f.SearchTerm != "" && !matchesSearch(item, f.SearchTerm) {
		return false
	}

	if !isAll(f.Language) && string(item.Language) != f.Language {
		return false
	}

	if !isAll(f.Sentiment) && string(sentiment.Classify(item.Sentiment)) != f.Sentiment {
		return false
	}

	if !isAll(f.Company) && !contains(item.RelatedCompanies, f.Company) {
		return false
	}

	return true
}

// Apply returns the items that match, preserving order
func Apply(items []models.NewsItem, f Filter) []models.NewsItem {
	filtered := make([]models.NewsItem, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// matchesSearch is case-insensitive on the primary fields and an exact
// substring match on the translated (Arabic) fields
func matchesSearch(item models.NewsItem, term string) bool {
	lowered := strings.ToLower(term)

	return strings.Contains(strings.ToLower(item.Title), lowered) ||
		(item.TitleAr != "" && strings.Contains(item.TitleAr, term)) ||
		strings.Contains(strings.ToLower(item.Content), lowered) ||
		(item.ContentAr != "" && strings.Contains(item.ContentAr, term))
}

func isAll(v string) bool {
	return v == "" || v == All
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

package news

import (
	"math"
	"sort"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// SortMode selects feed ordering after filtering
type SortMode string

const (
	SortPriority SortMode = "priority" // strongest sentiment first
	SortRecent   SortMode = "recent"   // keep publish order
)

// ParseSortMode defaults to SortPriority
func ParseSortMode(s string) SortMode {
	if SortMode(s) == SortRecent {
		return SortRecent
	}
	return SortPriority
}

// priorityLess orders non-neutral scores before neutral ones; non-neutral by
// magnitude descending, neutral by raw score descending
func priorityLess(a, b float64) bool {
	aNeutral := sentiment.IsNeutral(a)
	bNeutral := sentiment.IsNeutral(b)

	if aNeutral != bNeutral {
		return !aNeutral
	}
	if !aNeutral {
		return math.Abs(a) > math.Abs(b)
	}
	return a > b
}

// Prioritize returns a stably sorted copy of items by sentiment priority
func Prioritize(items []models.NewsItem) []models.NewsItem {
	sorted := make([]models.NewsItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityLess(sorted[i].Sentiment, sorted[j].Sentiment)
	})

	return sorted
}

// Arrange filters items then applies mode
func Arrange(items []models.NewsItem, f Filter, mode SortMode) []models.NewsItem {
	filtered := Apply(items, f)
	if mode == SortRecent {
		return filtered
	}
	return Prioritize(filtered)
}

package news

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

func scores(items []models.NewsItem) []float64 {
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, item.Sentiment)
	}
	return out
}

func itemsWith(values ...float64) []models.NewsItem {
	items := make([]models.NewsItem, 0, len(values))
	for _, v := range values {
		items = append(items, models.NewsItem{Sentiment: v})
	}
	return items
}

func TestPrioritize(t *testing.T) {
	sorted := Prioritize(itemsWith(0.1, -0.5, 0.05, 0.8))
	assert.Equal(t, []float64{0.8, -0.5, 0.1, 0.05}, scores(sorted))
}

func TestPrioritize_NeutralByRawScore(t *testing.T) {
	sorted := Prioritize(itemsWith(-0.15, 0.2, -0.2, 0, -0.7, 0.7))
	assert.Equal(t, []float64{-0.7, 0.7, 0.2, 0, -0.15, -0.2}, scores(sorted))
}

func TestPrioritize_StableTies(t *testing.T) {
	items := []models.NewsItem{
		{ID: "first", Sentiment: 0.7},
		{ID: "second", Sentiment: -0.7},
		{ID: "third", Sentiment: 0.7},
	}

	assert.Equal(t, []string{"first", "second", "third"}, ids(Prioritize(items)))
}

func TestArrange(t *testing.T) {
	feed := sampleFeed()

	prioritized := Arrange(feed, Filter{SearchTerm: "Aramco"}, SortPriority)
	assert.Equal(t, []string{"4", "1"}, ids(prioritized))

	recent := Arrange(feed, Filter{SearchTerm: "Aramco"}, ParseSortMode("recent"))
	assert.Equal(t, []string{"1", "4"}, ids(recent))

	assert.Equal(t, SortPriority, ParseSortMode(""))
}

package news

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

func sampleFeed() []models.NewsItem {
	return []models.NewsItem{
		{ID: "1", Title: "Aramco quarterly profit beats estimates", Sentiment: 0.7, Language: models.LanguageEnglish, RelatedCompanies: []string{"2222"}},
		{ID: "2", Title: "Banks rally on rate outlook", Sentiment: 0.1, Language: models.LanguageEnglish, RelatedCompanies: []string{"1120"}},
		{ID: "3", Title: "أخبار السوق", TitleAr: "أرامكو توزع أرباحا", Sentiment: -0.7, Language: models.LanguageArabic, RelatedCompanies: []string{"2222"}},
		{ID: "4", Title: "Petrochemical margins narrow", Content: "Analysts cite ARAMCO feedstock pricing", Sentiment: -1.0, Language: models.LanguageEnglish},
		{ID: "5", Title: "Telecom sector steady", Sentiment: 0, Language: models.LanguageArabic, RelatedCompanies: []string{"7010"}},
	}
}

func TestFilter_Search(t *testing.T) {
	result := Apply(sampleFeed(), Filter{SearchTerm: "Aramco"})
	assert.Equal(t, []string{"1", "4"}, ids(result))

	result = Apply(sampleFeed(), Filter{SearchTerm: "aramco"})
	assert.Equal(t, []string{"1", "4"}, ids(result), "latin search is case-insensitive")

	result = Apply(sampleFeed(), Filter{SearchTerm: "أرامكو"})
	assert.Equal(t, []string{"3"}, ids(result), "arabic search matches the translated title")
}

func TestFilter_Language(t *testing.T) {
	assert.Equal(t, []string{"3", "5"}, ids(Apply(sampleFeed(), Filter{Language: "ar"})))
	assert.Len(t, Apply(sampleFeed(), Filter{Language: "all"}), 5)
}

func TestFilter_Sentiment(t *testing.T) {
	tests := []struct {
		sentiment string
		expected  []string
	}{
		{"positive", []string{"1"}},
		{"neutral", []string{"2", "5"}},
		{"negative", []string{"3", "4"}},
		{"all", []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.sentiment, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Apply(sampleFeed(), Filter{Sentiment: tt.sentiment})))
		})
	}
}

func TestFilter_Boundaries(t *testing.T) {
	items := []models.NewsItem{{ID: "hi", Sentiment: 0.2}, {ID: "lo", Sentiment: -0.2}}

	assert.Empty(t, Apply(items, Filter{Sentiment: "positive"}))
	assert.Empty(t, Apply(items, Filter{Sentiment: "negative"}))
	assert.Len(t, Apply(items, Filter{Sentiment: "neutral"}), 2)
}

func TestFilter_CompanyAndCombined(t *testing.T) {
	assert.Equal(t, []string{"1", "3"}, ids(Apply(sampleFeed(), Filter{Company: "2222"})))

	combined := Filter{Company: "2222", Language: "en", Sentiment: "positive", SearchTerm: "profit"}
	assert.Equal(t, []string{"1"}, ids(Apply(sampleFeed(), combined)))

	assert.Empty(t, Apply(sampleFeed(), Filter{Company: "9999"}))
}

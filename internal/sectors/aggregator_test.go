package sectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

func TestAggregate(t *testing.T) {
	pairs := []models.SectorScore{
		{Sector: "Energy", Score: 0.4},
		{Sector: "Energy", Score: 0.6},
		{Sector: "Utilities", Score: -0.2},
	}

	result := Aggregate(pairs)
	require.Len(t, result, 2)

	assert.Equal(t, "Energy", result[0].Sector)
	assert.InDelta(t, 0.50, result[0].AverageSentiment, 1e-9)
	assert.Equal(t, 2, result[0].Companies)
	assert.Equal(t, 2, result[0].Volume)
	assert.Zero(t, result[0].Change)

	assert.Equal(t, "Utilities", result[1].Sector)
	assert.InDelta(t, -0.20, result[1].AverageSentiment, 1e-9)
	assert.Equal(t, 1, result[1].Companies)
}

func TestAggregate_Empty(t *testing.T) {
	result := Aggregate(nil)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestAggregate_Rounding(t *testing.T) {
	result := Aggregate([]models.SectorScore{
		{Sector: "Banks", Score: 0.1},
		{Sector: "Banks", Score: 0.2},
		{Sector: "Banks", Score: 0.2},
	})

	require.Len(t, result, 1)
	assert.Equal(t, 0.17, result[0].AverageSentiment)
}

func TestAggregate_NormalizesKey(t *testing.T) {
	result := Aggregate([]models.SectorScore{
		{Sector: "Materials", Score: 0.2},
		{Sector: " materials ", Score: 0.4},
		{Sector: "MATERIALS", Score: 0.6},
		{Sector: "  ", Score: -0.5},
	})

	require.Len(t, result, 2)
	assert.Equal(t, "Materials", result[0].Sector, "display label comes from the first member")
	assert.Equal(t, 3, result[0].Companies)
	assert.InDelta(t, 0.4, result[0].AverageSentiment, 1e-9)
	assert.Equal(t, "", result[1].Sector, "blank labels form their own group")
}

func TestAggregate_RoundsBinaryValue(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"just below half", []float64{0.145}, 0.14},
		{"negative just below half", []float64{-0.145}, -0.14},
		{"above one cent boundary", []float64{1.005}, 1.00},
		{"mean just above half", []float64{0.28, 0.29}, 0.29},
		{"exact half", []float64{0.125}, 0.13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := make([]models.SectorScore, 0, len(tt.scores))
			for _, score := range tt.scores {
				pairs = append(pairs, models.SectorScore{Sector: "Banks", Score: score})
			}

			result := Aggregate(pairs)
			require.Len(t, result, 1)
			assert.Equal(t, tt.want, result[0].AverageSentiment)
		})
	}
}

func TestSortBy(t *testing.T) {
	sectors := []models.SectorSentiment{
		{Sector: "A", AverageSentiment: 0.1, Volume: 5},
		{Sector: "B", AverageSentiment: 0.5, Volume: 2},
		{Sector: "C", AverageSentiment: -0.3, Volume: 9},
	}

	bySentiment := SortBy(sectors, ParseSortMode("sentiment"))
	assert.Equal(t, "B", bySentiment[0].Sector)

	byVolume := SortBy(sectors, ParseSortMode("VOLUME"))
	assert.Equal(t, []string{"C", "A", "B"}, names(byVolume))

	byChange := SortBy(sectors, ParseSortMode("change"))
	assert.Equal(t, []string{"A", "B", "C"}, names(byChange), "equal changes keep input order")

	assert.Equal(t, "A", sectors[0].Sector, "input must not be reordered")
	assert.Equal(t, SortSentiment, ParseSortMode("bogus"))
}

func TestBreakdown(t *testing.T) {
	b := Breakdown([]models.SectorSentiment{
		{AverageSentiment: 0.5},
		{AverageSentiment: 0.25},
		{AverageSentiment: 0.0},
		{AverageSentiment: -0.2},
		{AverageSentiment: -0.4},
	})

	assert.Equal(t, models.SectorBreakdown{
		Total:    5,
		Positive: 2,
		Neutral:  2,
		Negative: 1,
		Strong:   1,
		Weak:     1,
	}, b)
}

func names(sectors []models.SectorSentiment) []string {
	out := make([]string, 0, len(sectors))
	for _, s := range sectors {
		out = append(out, s.Sector)
	}
	return out
}

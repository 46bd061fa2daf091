package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

func series(values ...float64) []models.SentimentSample {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]models.SentimentSample, 0, len(values))
	for i, v := range values {
		samples = append(samples, models.SentimentSample{
			Date:   start.AddDate(0, 0, i),
			Score:  v,
			Volume: 10 + i,
		})
	}
	return samples
}

func TestVolatility(t *testing.T) {
	assert.Equal(t, 0.0, Volatility([]float64{0.2, 0.2, 0.2}))
	assert.InDelta(t, 1.0, Volatility([]float64{1, -1}), 1e-12)
	assert.InDelta(t, 0.5, Volatility([]float64{0, 1}), 1e-12, "population, not sample, deviation")
	assert.Equal(t, 0.0, Volatility(nil))
}

func TestBuckets(t *testing.T) {
	b := Buckets([]float64{0.5, 0.21, 0.2, 0, -0.2, -0.21, -0.9})

	assert.Equal(t, models.DayBuckets{Positive: 2, Neutral: 3, Negative: 2}, b)
}

func TestPeriodChange(t *testing.T) {
	current, previous, change := PeriodChange(series(0.1, 0.3, 0.5))
	assert.Equal(t, 0.5, current)
	assert.Equal(t, 0.3, previous)
	assert.InDelta(t, 0.2, change, 1e-12)

	current, previous, change = PeriodChange(series(0.4))
	assert.Equal(t, 0.4, current)
	assert.Equal(t, 0.4, previous)
	assert.Zero(t, change)
}

func TestDerive(t *testing.T) {
	stats := Derive(series(0.1, -0.3, 0.5, 0.5))

	assert.Equal(t, 4, stats.Samples)
	assert.Equal(t, 0.5, stats.Current)
	assert.Equal(t, 0.5, stats.Previous)
	assert.Zero(t, stats.Change)
	assert.InDelta(t, 0.2, stats.Average, 1e-12)
	assert.Equal(t, -0.3, stats.Min)
	assert.Equal(t, 0.5, stats.Max)
	assert.Equal(t, models.DayBuckets{Positive: 2, Neutral: 1, Negative: 1}, stats.Days)
	require.Len(t, stats.MovingAverage, 4)
	assert.InDelta(t, 0.1, stats.MovingAverage[0], 1e-12)
}

func TestDerive_EmptyHasNoNaN(t *testing.T) {
	stats := Derive(nil)

	for name, v := range map[string]float64{
		"current":    stats.Current,
		"previous":   stats.Previous,
		"change":     stats.Change,
		"average":    stats.Average,
		"min":        stats.Min,
		"max":        stats.Max,
		"volatility": stats.Volatility,
	} {
		assert.False(t, math.IsNaN(v), "%s is NaN", name)
		assert.Zero(t, v, name)
	}
	assert.Equal(t, models.DayBuckets{}, stats.Days)
	assert.NotNil(t, stats.MovingAverage)
	assert.Empty(t, stats.MovingAverage)
}

func TestMovingAverage_Constant(t *testing.T) {
	ma := MovingAverage([]float64{0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4, 0.4}, 7)

	require.Len(t, ma, 9)
	for _, v := range ma {
		assert.InDelta(t, 0.4, v, 1e-9)
	}
}

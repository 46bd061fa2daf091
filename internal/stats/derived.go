package stats

import (
	"math"

	"github.com/cinar/indicator"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// DefaultSMAPeriod is the moving-average window for company charts
const DefaultSMAPeriod = 7

// Mean returns the arithmetic mean, 0 for an empty series
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Volatility is the population standard deviation, 0 for an empty series
func Volatility(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Buckets counts values above, within and below the neutral band
func Buckets(values []float64) models.DayBuckets {
	var b models.DayBuckets
	for _, v := range values {
		switch sentiment.Classify(v) {
		case sentiment.BucketPositive:
			b.Positive++
		case sentiment.BucketNegative:
			b.Negative++
		}
	}
	b.Neutral = len(values) - b.Positive - b.Negative
	return b
}

// PeriodChange compares the newest sample with the one before it.
// samples must be oldest first; fewer than two samples means no change.
func PeriodChange(samples []models.SentimentSample) (current, previous, change float64) {
	n := len(samples)
	if n == 0 {
		return 0, 0, 0
	}

	current = samples[n-1].Score
	if n == 1 {
		return current, current, 0
	}

	previous = samples[n-2].Score
	return current, previous, current - previous
}

// MovingAverage is the simple moving average over period points
func MovingAverage(values []float64, period int) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	if period < 1 {
		period = 1
	}
	return indicator.Sma(period, values)
}

// Derive computes every statistic for a series ordered oldest first.
// An empty series yields zero values, never NaN.
func Derive(samples []models.SentimentSample) models.DerivedStats {
	values := Scores(samples)
	current, previous, change := PeriodChange(samples)

	result := models.DerivedStats{
		Current:       current,
		Previous:      previous,
		Change:        change,
		Average:       Mean(values),
		Volatility:    Volatility(values),
		Days:          Buckets(values),
		MovingAverage: MovingAverage(values, DefaultSMAPeriod),
		Samples:       len(values),
	}

	if len(values) > 0 {
		result.Min, result.Max = values[0], values[0]
		for _, v := range values[1:] {
			result.Min = math.Min(result.Min, v)
			result.Max = math.Max(result.Max, v)
		}
	}

	return result
}

// Scores extracts the score of each sample
func Scores(samples []models.SentimentSample) []float64 {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		values = append(values, s.Score)
	}
	return values
}

package sentiment

import (
	"math"
	"strings"
)

// NeutralBand is the absolute score at or below which sentiment counts as neutral
const NeutralBand = 0.2

// Discrete scores a label can map to
const (
	ScoreVeryPositive = 1.0
	ScorePositive     = 0.7
	ScoreNeutral      = 0.0
	ScoreNegative     = -0.7
	ScoreVeryNegative = -1.0
)

// labelScores holds English and Arabic labels, lower-cased
var labelScores = map[string]float64{
	"very_positive": ScoreVeryPositive,
	"إيجابي جداً":   ScoreVeryPositive,
	"positive":      ScorePositive,
	"إيجابي":        ScorePositive,
	"neutral":       ScoreNeutral,
	"محايد":         ScoreNeutral,
	"negative":      ScoreNegative,
	"سلبي":          ScoreNegative,
	"very_negative": ScoreVeryNegative,
	"سلبي جداً":     ScoreVeryNegative,
}

// LabelToScore converts a categorical sentiment label into a score.
// Matching is case-insensitive; empty and unknown labels map to neutral.
func LabelToScore(label string) float64 {
	if label == "" {
		return ScoreNeutral
	}

	if score, ok := labelScores[strings.ToLower(label)]; ok {
		return score
	}

	return ScoreNeutral
}

// Clamp bounds a score to [-1, 1]. NaN is treated as neutral.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	if score > 1.0 {
		return 1.0
	}
	if score < -1.0 {
		return -1.0
	}
	return score
}

// Bucket is a coarse sentiment classification
type Bucket string

const (
	BucketPositive Bucket = "positive"
	BucketNeutral  Bucket = "neutral"
	BucketNegative Bucket = "negative"
)

// Classify places a score into a bucket using NeutralBand
func Classify(score float64) Bucket {
	if score > NeutralBand {
		return BucketPositive
	} else if score < -NeutralBand {
		return BucketNegative
	}
	return BucketNeutral
}

// IsNeutral reports whether |score| is within NeutralBand
func IsNeutral(score float64) bool {
	return math.Abs(score) <= NeutralBand
}

package sectors

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

type group struct {
	label string
	sum   float64
	count int
}

// Aggregate groups per-company scores by sector and returns the mean per sector,
// rounded to 2 decimals and sorted by average descending.
// Sector labels are grouped by their trimmed, case-folded form; the first
// label seen in a group is used for display.
func Aggregate(pairs []models.SectorScore) []models.SectorSentiment {
	folder := cases.Fold()

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, pair := range pairs {
		if math.IsNaN(pair.Score) {
			continue
		}

		label := strings.TrimSpace(pair.Sector)
		key := folder.String(label)

		g, ok := groups[key]
		if !ok {
			g = &group{label: label}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += pair.Score
		g.count++
	}

	result := make([]models.SectorSentiment, 0, len(order))
	for _, key := range order {
		g := groups[key]
		result = append(result, models.SectorSentiment{
			Sector:           g.label,
			AverageSentiment: round2(mean(g.sum, g.count)),
			Change:           0,
			Volume:           g.count,
			Companies:        g.count,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AverageSentiment > result[j].AverageSentiment
	})

	return result
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// round2 rounds the exact binary value half away from zero, so 0.145
// (stored as 0.14499...) becomes 0.14
func round2(v float64) float64 {
	return decimal.NewFromFloatWithExponent(v, -20).Round(2).InexactFloat64()
}

// SortMode selects the ordering of a sector list
type SortMode string

const (
	SortSentiment SortMode = "sentiment"
	SortVolume    SortMode = "volume"
	SortChange    SortMode = "change"
)

// ParseSortMode parses a sort mode, defaulting to SortSentiment
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(s)) {
	case SortVolume:
		return SortVolume
	case SortChange:
		return SortChange
	default:
		return SortSentiment
	}
}

// SortBy returns a copy of sectors ordered descending by the selected field
func SortBy(sectors []models.SectorSentiment, mode SortMode) []models.SectorSentiment {
	sorted := make([]models.SectorSentiment, len(sectors))
	copy(sorted, sectors)

	sort.SliceStable(sorted, func(i, j int) bool {
		switch mode {
		case SortVolume:
			return sorted[i].Volume > sorted[j].Volume
		case SortChange:
			return sorted[i].Change > sorted[j].Change
		default:
			return sorted[i].AverageSentiment > sorted[j].AverageSentiment
		}
	})

	return sorted
}

// Breakdown counts sectors per sentiment bucket
func Breakdown(sectors []models.SectorSentiment) models.SectorBreakdown {
	b := models.SectorBreakdown{Total: len(sectors)}

	for _, s := range sectors {
		switch sentiment.Classify(s.AverageSentiment) {
		case sentiment.BucketPositive:
			b.Positive++
		case sentiment.BucketNegative:
			b.Negative++
		}

		if s.AverageSentiment > 0.3 {
			b.Strong++
		} else if s.AverageSentiment < -0.3 {
			b.Weak++
		}
	}
	b.Neutral = b.Total - b.Positive - b.Negative

	return b
}

package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// MoverWindow is the number of days a mover series covers
const MoverWindow = 7

// trendThreshold is the change beyond which a mover trends up or down
const trendThreshold = 0.1

// Tab selects the movers ranking
type Tab string

const (
	TabTrending Tab = "trending" // largest absolute change
	TabGainers  Tab = "gainers"
	TabLosers   Tab = "losers"
)

// ParseTab defaults to TabTrending
func ParseTab(s string) Tab {
	switch Tab(strings.ToLower(s)) {
	case TabGainers:
		return TabGainers
	case TabLosers:
		return TabLosers
	default:
		return TabTrending
	}
}

// BuildMover summarizes a company's recent series
func BuildMover(company models.Company, samples []models.SentimentSample, watched bool) models.Mover {
	current, previous, change := PeriodChange(samples)

	volume := 0
	if n := len(samples); n > 0 {
		volume = samples[n-1].Volume
	}

	trend := models.TrendStable
	if change > trendThreshold {
		trend = models.TrendUp
	} else if change < -trendThreshold {
		trend = models.TrendDown
	}

	return models.Mover{
		Company:           company,
		CurrentSentiment:  current,
		PreviousSentiment: previous,
		SentimentChange:   change,
		Volume:            volume,
		Trend:             trend,
		Watchlist:         watched,
	}
}

// RankMovers returns a sorted copy of movers for the tab
func RankMovers(movers []models.Mover, tab Tab) []models.Mover {
	ranked := make([]models.Mover, len(movers))
	copy(ranked, movers)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].SentimentChange, ranked[j].SentimentChange
		switch tab {
		case TabGainers:
			return a > b
		case TabLosers:
			return a < b
		default:
			return math.Abs(a) > math.Abs(b)
		}
	})

	return ranked
}

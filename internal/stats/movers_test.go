package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

func TestBuildMover(t *testing.T) {
	company := models.Company{ID: "2222", Ticker: "2222"}

	up := BuildMover(company, series(0.0, 0.1, 0.35), true)
	assert.Equal(t, models.TrendUp, up.Trend)
	assert.InDelta(t, 0.25, up.SentimentChange, 1e-12)
	assert.Equal(t, 12, up.Volume, "volume of the newest sample")
	assert.True(t, up.Watchlist)

	down := BuildMover(company, series(0.5, 0.3), false)
	assert.Equal(t, models.TrendDown, down.Trend)

	stable := BuildMover(company, series(0.5, 0.55), false)
	assert.Equal(t, models.TrendStable, stable.Trend)

	empty := BuildMover(company, nil, false)
	assert.Equal(t, models.TrendStable, empty.Trend)
	assert.Zero(t, empty.Volume)
}

func TestRankMovers(t *testing.T) {
	movers := []models.Mover{
		{Company: models.Company{ID: "a"}, SentimentChange: 0.05},
		{Company: models.Company{ID: "b"}, SentimentChange: -0.4},
		{Company: models.Company{ID: "c"}, SentimentChange: 0.2},
	}

	assert.Equal(t, []string{"b", "c", "a"}, moverIDs(RankMovers(movers, ParseTab("trending"))))
	assert.Equal(t, []string{"c", "a", "b"}, moverIDs(RankMovers(movers, ParseTab("Gainers"))))
	assert.Equal(t, []string{"b", "a", "c"}, moverIDs(RankMovers(movers, ParseTab("losers"))))
	assert.Equal(t, TabTrending, ParseTab("unknown"))
	assert.Equal(t, "a", movers[0].Company.ID, "input must not be reordered")
}

func moverIDs(movers []models.Mover) []string {
	out := make([]string, 0, len(movers))
	for _, m := range movers {
		out = append(out, m.Company.ID)
	}
	return out
}

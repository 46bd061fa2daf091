package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/tadawul-sentiment/internal/news"
	"github.com/selivandex/tadawul-sentiment/internal/sectors"
	"github.com/selivandex/tadawul-sentiment/internal/stats"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

type stubStore struct {
	mu        sync.Mutex
	companies []models.Company
	scored    []models.CompanyScore
	pairs     []models.SectorScore
	err       error
	calls     map[string]int
}

func (s *stubStore) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	s.hit("companies")
	return s.companies, s.err
}

func (s *stubStore) ListScored(ctx context.Context) ([]models.CompanyScore, error) {
	s.hit("scored")
	return s.scored, s.err
}

func (s *stubStore) SectorScores(ctx context.Context) ([]models.SectorScore, error) {
	s.hit("sectors")
	return s.pairs, s.err
}

type stubNews struct {
	items        []models.NewsItem
	lastTicker   string
	lastCount    int
	recentCalled int
}

func (n *stubNews) Recent(ctx context.Context, count int) []models.NewsItem {
	n.recentCalled++
	n.lastCount = count
	return n.items
}

func (n *stubNews) ForCompany(ctx context.Context, ticker string, count int) []models.NewsItem {
	n.lastTicker = ticker
	n.lastCount = count
	return n.items
}

// stubSeries yields two samples: 0 then current, so change equals current
type stubSeries struct {
	lastDays int
}

func (s *stubSeries) Series(ctx context.Context, companyID string, days int) []models.SentimentSample {
	s.lastDays = days
	return s.Generate(companyID, 0.5, days)
}

func (s *stubSeries) Generate(companyID string, current float64, days int) []models.SentimentSample {
	return []models.SentimentSample{
		{CompanyID: companyID, Score: 0, Volume: 10},
		{CompanyID: companyID, Score: current, Volume: 42},
	}
}

type stubPrefs struct {
	prefs models.UserPreferences
}

func (p stubPrefs) Snapshot() models.UserPreferences { return p.prefs }

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func company(id, sector string) models.Company {
	return models.Company{ID: id, Ticker: id, Name: "Company " + id, Sector: sector}
}

func newFixture() (*Service, *stubStore, *stubNews, *stubSeries) {
	store := &stubStore{
		companies: []models.Company{company("2222", "Energy"), company("1120", "Banks"), company("2010", "Materials")},
		scored: []models.CompanyScore{
			{Company: company("2222", "Energy"), Score: 0.6},
			{Company: company("1120", "Banks"), Score: -0.4},
			{Company: company("2010", "Materials"), Score: 0.05},
		},
		pairs: []models.SectorScore{
			{Sector: "Energy", Score: 0.4},
			{Sector: "Energy", Score: 0.6},
			{Sector: "Utilities", Score: -0.2},
		},
	}
	feed := &stubNews{items: []models.NewsItem{
		{ID: "se_1", Title: "Aramco dividend", Sentiment: 0.1, Language: models.LanguageEnglish},
		{ID: "se_2", Title: "Banks slide", Sentiment: -0.7, Language: models.LanguageEnglish},
		{ID: "argaam_3", Title: "أرامكو", Sentiment: 0.7, Language: models.LanguageArabic},
	}}
	synth := &stubSeries{}
	prefs := stubPrefs{prefs: models.UserPreferences{Watchlist: []string{"1120"}}}

	svc := NewService(store, feed, synth, prefs, newMapCache(), Config{RecentNewsCount: 10, CompanyNewsCount: 5})
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	return svc, store, feed, synth
}

func TestService_Sectors(t *testing.T) {
	svc, store, _, _ := newFixture()
	ctx := context.Background()

	got := svc.Sectors(ctx, sectors.SortSentiment)
	require.Len(t, got, 2)
	assert.Equal(t, "Energy", got[0].Sector)
	assert.Equal(t, 0.5, got[0].AverageSentiment)
	assert.Equal(t, 2, got[0].Companies)
	assert.Equal(t, "Utilities", got[1].Sector)
	assert.Equal(t, -0.2, got[1].AverageSentiment)

	byVolume := svc.Sectors(ctx, sectors.SortVolume)
	assert.Equal(t, "Energy", byVolume[0].Sector)

	// second request served from cache
	assert.Equal(t, 1, store.count("sectors"))
}

func TestService_DegradesToEmpty(t *testing.T) {
	svc, store, _, _ := newFixture()
	store.err = errors.New("connection refused")
	ctx := context.Background()

	sectorsV := svc.Sectors(ctx, sectors.SortSentiment)
	assert.NotNil(t, sectorsV)
	assert.Empty(t, sectorsV)

	companies := svc.Companies(ctx)
	assert.NotNil(t, companies)
	assert.Empty(t, companies)

	overview := svc.MarketOverview(ctx)
	assert.Zero(t, overview.Companies)
	assert.Zero(t, overview.AverageSentiment)
	assert.Equal(t, 3, overview.NewsCount)

	// failures are not cached
	store.err = nil
	assert.Len(t, svc.Companies(ctx), 3)
}

func TestService_CompanySeriesClampsDays(t *testing.T) {
	svc, _, _, synth := newFixture()

	svc.CompanySeries(context.Background(), "2222", 0)
	assert.Equal(t, 1, synth.lastDays)

	svc.CompanySeries(context.Background(), "2222", 10000)
	assert.Equal(t, 730, synth.lastDays)

	st := svc.CompanyStats(context.Background(), "2222", 30)
	assert.Equal(t, 0.5, st.Current)
	assert.Equal(t, 0.5, st.Change)
	assert.Equal(t, 2, st.Samples)
}

func TestService_CompanyNews(t *testing.T) {
	svc, _, feed, _ := newFixture()

	svc.CompanyNews(context.Background(), "2222", 0)
	assert.Equal(t, "2222", feed.lastTicker)
	assert.Equal(t, 5, feed.lastCount)

	svc.CompanyNews(context.Background(), "2222", 3)
	assert.Equal(t, 3, feed.lastCount)
}

func TestService_RecentNews(t *testing.T) {
	svc, _, feed, _ := newFixture()
	ctx := context.Background()

	got := svc.RecentNews(ctx, news.Filter{}, news.SortPriority, 0)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"se_2", "argaam_3", "se_1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 10, feed.lastCount)

	arabic := svc.RecentNews(ctx, news.Filter{Language: "ar"}, news.SortRecent, 0)
	require.Len(t, arabic, 1)
	assert.Equal(t, "argaam_3", arabic[0].ID)

	assert.Equal(t, 1, feed.recentCalled)
}

func TestService_RecentNewsCount(t *testing.T) {
	svc, _, feed, _ := newFixture()
	ctx := context.Background()

	got := svc.RecentNews(ctx, news.Filter{}, news.SortPriority, 2)
	assert.Equal(t, 2, feed.lastCount, "requested count reaches the news source")
	require.Len(t, got, 2)
	assert.Equal(t, []string{"se_2", "argaam_3"}, []string{got[0].ID, got[1].ID})

	svc.RecentNews(ctx, news.Filter{}, news.SortPriority, 50)
	assert.Equal(t, 50, feed.lastCount)

	svc.RecentNews(ctx, news.Filter{}, news.SortPriority, 5000)
	assert.Equal(t, MaxNewsCount, feed.lastCount)
	assert.Equal(t, 3, feed.recentCalled)

	// each count is cached under its own key
	svc.RecentNews(ctx, news.Filter{}, news.SortPriority, 2)
	assert.Equal(t, 3, feed.recentCalled)

	// a refresh drops every cached count
	_, ok := svc.RefreshFeed(ctx, NewFeed())
	require.True(t, ok)
	before := feed.recentCalled
	svc.RecentNews(ctx, news.Filter{}, news.SortPriority, 2)
	assert.Equal(t, before+1, feed.recentCalled)
	assert.Equal(t, 2, feed.lastCount)
}

func TestService_MarketOverview(t *testing.T) {
	svc, _, _, _ := newFixture()

	got := svc.MarketOverview(context.Background())

	assert.Equal(t, 3, got.Companies)
	assert.InDelta(t, 0.0833, got.AverageSentiment, 0.0001)
	assert.Equal(t, models.DayBuckets{Positive: 1, Neutral: 1, Negative: 1}, got.CompanyBuckets)
	assert.Equal(t, 2, got.Sectors.Total)
	assert.Equal(t, 1, got.Sectors.Positive)
	assert.Equal(t, 1, got.Sectors.Neutral)
	assert.Equal(t, models.DayBuckets{Positive: 1, Neutral: 1, Negative: 1}, got.NewsBuckets)
	assert.Equal(t, 3, got.NewsCount)
}

func TestService_Movers(t *testing.T) {
	svc, _, _, _ := newFixture()
	ctx := context.Background()

	gainers := svc.Movers(ctx, stats.TabGainers)
	require.Len(t, gainers, 3)
	assert.Equal(t, "2222", gainers[0].Company.ID)
	assert.Equal(t, models.TrendUp, gainers[0].Trend)
	assert.Equal(t, 42, gainers[0].Volume)

	losers := svc.Movers(ctx, stats.TabLosers)
	assert.Equal(t, "1120", losers[0].Company.ID)
	assert.True(t, losers[0].Watchlist)
	assert.Equal(t, models.TrendDown, losers[0].Trend)

	trending := svc.Movers(ctx, stats.TabTrending)
	assert.Equal(t, []string{"2222", "1120", "2010"},
		[]string{trending[0].Company.ID, trending[1].Company.ID, trending[2].Company.ID})
	assert.Equal(t, models.TrendStable, trending[2].Trend)
}

func TestService_RefreshFeed(t *testing.T) {
	svc, store, _, _ := newFixture()
	feed := NewFeed()

	snap, ok := svc.RefreshFeed(context.Background(), feed)
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Len(t, snap.Sectors, 2)
	assert.Equal(t, "se_2", snap.News[0].ID)
	assert.Equal(t, 3, snap.Overview.Companies)

	latest, ok := feed.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.Generation, latest.Generation)

	// refresh bypasses cached sectors
	_, ok = svc.RefreshFeed(context.Background(), feed)
	require.True(t, ok)
	assert.Equal(t, 2, store.count("sectors"))
}

func TestService_RefreshFeedCancelled(t *testing.T) {
	svc, _, _, _ := newFixture()
	feed := NewFeed()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := svc.RefreshFeed(ctx, feed)
	assert.False(t, ok)

	_, ok = feed.Latest()
	assert.False(t, ok)
}

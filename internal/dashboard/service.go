package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/selivandex/tadawul-sentiment/internal/news"
	"github.com/selivandex/tadawul-sentiment/internal/sectors"
	"github.com/selivandex/tadawul-sentiment/internal/series"
	"github.com/selivandex/tadawul-sentiment/internal/stats"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

const (
	keyCompanies  = "companies"
	keyScored     = "companies:scored"
	keySectors    = "sectors"
	keyRecentNews = "news:recent:%d"
)

// MaxNewsCount bounds a recent-news request so the set of cached counts stays small
const MaxNewsCount = 100

// CompanyStore reads company tracking rows
type CompanyStore interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListScored(ctx context.Context) ([]models.CompanyScore, error)
	SectorScores(ctx context.Context) ([]models.SectorScore, error)
}

// NewsSource composes the merged news feed
type NewsSource interface {
	Recent(ctx context.Context, count int) []models.NewsItem
	ForCompany(ctx context.Context, ticker string, count int) []models.NewsItem
}

// SeriesSource synthesizes sentiment history
type SeriesSource interface {
	Series(ctx context.Context, companyID string, days int) []models.SentimentSample
	Generate(companyID string, current float64, days int) []models.SentimentSample
}

// Cache stores JSON responses between requests
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

// PreferencesReader exposes read-only preference snapshots
type PreferencesReader interface {
	Snapshot() models.UserPreferences
}

// Config sizes news requests
type Config struct {
	RecentNewsCount  int
	CompanyNewsCount int
}

// Service shapes store data into dashboard views.
// Upstream failures degrade to empty collections and are logged, never returned.
type Service struct {
	companies CompanyStore
	news      NewsSource
	series    SeriesSource
	prefs     PreferencesReader
	cache     Cache
	cfg       Config
	now       func() time.Time

	// cache keys of every recent-news count served, invalidated together
	newsKeys sync.Map
}

// NewService creates dashboard service; cache may be nil
func NewService(
	companies CompanyStore,
	newsSource NewsSource,
	seriesSource SeriesSource,
	prefs PreferencesReader,
	cache Cache,
	cfg Config,
) *Service {
	if cache == nil {
		cache = noCache{}
	}
	if cfg.RecentNewsCount <= 0 {
		cfg.RecentNewsCount = 20
	}
	if cfg.CompanyNewsCount <= 0 {
		cfg.CompanyNewsCount = 20
	}

	return &Service{
		companies: companies,
		news:      newsSource,
		series:    seriesSource,
		prefs:     prefs,
		cache:     cache,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Companies lists every tracked company
func (s *Service) Companies(ctx context.Context) []models.Company {
	return cachedList(ctx, s.cache, keyCompanies, s.companies.ListCompanies)
}

// Sectors returns sector aggregates ordered by mode
func (s *Service) Sectors(ctx context.Context, mode sectors.SortMode) []models.SectorSentiment {
	aggregated := cachedList(ctx, s.cache, keySectors, func(ctx context.Context) ([]models.SectorSentiment, error) {
		pairs, err := s.companies.SectorScores(ctx)
		if err != nil {
			return nil, err
		}
		return sectors.Aggregate(pairs), nil
	})

	return sectors.SortBy(aggregated, mode)
}

// CompanySeries synthesizes a daily series for the company
func (s *Service) CompanySeries(ctx context.Context, companyID string, days int) []models.SentimentSample {
	return s.series.Series(ctx, companyID, series.ClampDays(days))
}

// CompanyStats derives summary statistics over a fresh series
func (s *Service) CompanyStats(ctx context.Context, companyID string, days int) models.DerivedStats {
	return stats.Derive(s.CompanySeries(ctx, companyID, days))
}

// CompanyNews lists news mentioning the company ticker; count <= 0 uses the default
func (s *Service) CompanyNews(ctx context.Context, companyID string, count int) []models.NewsItem {
	if count <= 0 {
		count = s.cfg.CompanyNewsCount
	}
	// company id and ticker share the tracking symbol
	return s.news.ForCompany(ctx, companyID, count)
}

// RecentNews returns up to count merged items, filtered and ordered.
// count <= 0 uses the configured default; larger counts are capped at MaxNewsCount.
func (s *Service) RecentNews(ctx context.Context, filter news.Filter, mode news.SortMode, count int) []models.NewsItem {
	if count <= 0 {
		count = s.cfg.RecentNewsCount
	}
	if count > MaxNewsCount {
		count = MaxNewsCount
	}

	items := news.Arrange(s.recentNews(ctx, count), filter, mode)
	if len(items) > count {
		items = items[:count]
	}
	return items
}

func (s *Service) recentNews(ctx context.Context, count int) []models.NewsItem {
	key := fmt.Sprintf(keyRecentNews, count)
	s.newsKeys.Store(key, struct{}{})

	return cachedList(ctx, s.cache, key, func(ctx context.Context) ([]models.NewsItem, error) {
		return s.news.Recent(ctx, count), nil
	})
}

func (s *Service) defaultNews(ctx context.Context) []models.NewsItem {
	return s.recentNews(ctx, s.cfg.RecentNewsCount)
}

func (s *Service) scored(ctx context.Context) []models.CompanyScore {
	return cachedList(ctx, s.cache, keyScored, s.companies.ListScored)
}

// MarketOverview aggregates headline counts over companies, sectors and news
func (s *Service) MarketOverview(ctx context.Context) models.MarketOverview {
	var (
		scored   []models.CompanyScore
		sectorsV []models.SectorSentiment
		feed     []models.NewsItem
	)

	// each branch degrades on its own, so none returns an error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scored = s.scored(gctx)
		return nil
	})
	g.Go(func() error {
		sectorsV = s.Sectors(gctx, sectors.SortSentiment)
		return nil
	})
	g.Go(func() error {
		feed = s.defaultNews(gctx)
		return nil
	})
	_ = g.Wait()

	return buildOverview(scored, sectorsV, feed)
}

func buildOverview(scored []models.CompanyScore, sectorsV []models.SectorSentiment, feed []models.NewsItem) models.MarketOverview {
	scores := make([]float64, len(scored))
	for i, c := range scored {
		scores[i] = c.Score
	}

	newsScores := make([]float64, len(feed))
	for i, item := range feed {
		newsScores[i] = item.Sentiment
	}

	return models.MarketOverview{
		Companies:        len(scored),
		AverageSentiment: stats.Mean(scores),
		CompanyBuckets:   stats.Buckets(scores),
		Sectors:          sectors.Breakdown(sectorsV),
		NewsBuckets:      stats.Buckets(newsScores),
		NewsCount:        len(feed),
	}
}

// Movers ranks scored companies over a short synthesized window
func (s *Service) Movers(ctx context.Context, tab stats.Tab) []models.Mover {
	prefs := s.prefs.Snapshot()
	scored := s.scored(ctx)

	movers := make([]models.Mover, 0, len(scored))
	for _, c := range scored {
		samples := s.series.Generate(c.Company.ID, c.Score, stats.MoverWindow)
		movers = append(movers, stats.BuildMover(c.Company, samples, prefs.InWatchlist(c.Company.ID)))
	}

	return stats.RankMovers(movers, tab)
}

// RefreshFeed rebuilds the live feed from the store and commits it unless a
// newer refresh started meanwhile or ctx was cancelled
func (s *Service) RefreshFeed(ctx context.Context, feed *Feed) (FeedSnapshot, bool) {
	token := feed.Begin()

	keys := []string{keyScored, keySectors}
	s.newsKeys.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}

	sectorsV := s.Sectors(ctx, sectors.SortSentiment)
	overview := s.MarketOverview(ctx)
	items := news.Prioritize(s.defaultNews(ctx))

	if ctx.Err() != nil {
		return FeedSnapshot{}, false
	}

	snap := FeedSnapshot{
		UpdatedAt: s.now(),
		Sectors:   sectorsV,
		News:      items,
		Overview:  overview,
	}

	if !feed.Commit(token, snap) {
		logger.Debug("discarding superseded feed refresh", zap.Uint64("generation", token))
		return FeedSnapshot{}, false
	}

	snap.Generation = token
	return snap, true
}

// cachedList serves key from cache or loads it. Load errors degrade to an
// empty list; empty results are not cached.
func cachedList[T any](
	ctx context.Context,
	cache Cache,
	key string,
	load func(context.Context) ([]T, error),
) []T {
	var out []T

	hit, err := cache.GetJSON(ctx, key, &out)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit && err == nil {
		return out
	}

	out, err = load(ctx)
	if err != nil {
		logger.Error("failed to load dashboard data, serving empty",
			zap.String("key", key),
			zap.Error(err),
		)
		return []T{}
	}
	if len(out) == 0 {
		return []T{}
	}

	if err := cache.SetJSON(ctx, key, out); err != nil {
		logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}

	return out
}

type noCache struct{}

func (noCache) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }
func (noCache) SetJSON(context.Context, string, interface{}) error         { return nil }
func (noCache) Invalidate(context.Context, ...string) error                { return nil }

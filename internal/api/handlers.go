package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/selivandex/tadawul-sentiment/internal/news"
	"github.com/selivandex/tadawul-sentiment/internal/sectors"
	"github.com/selivandex/tadawul-sentiment/internal/series"
	"github.com/selivandex/tadawul-sentiment/internal/settings"
	"github.com/selivandex/tadawul-sentiment/internal/stats"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// Dashboard is the read side served over HTTP
type Dashboard interface {
	Companies(ctx context.Context) []models.Company
	Sectors(ctx context.Context, mode sectors.SortMode) []models.SectorSentiment
	CompanySeries(ctx context.Context, companyID string, days int) []models.SentimentSample
	CompanyStats(ctx context.Context, companyID string, days int) models.DerivedStats
	CompanyNews(ctx context.Context, companyID string, count int) []models.NewsItem
	RecentNews(ctx context.Context, filter news.Filter, mode news.SortMode, count int) []models.NewsItem
	MarketOverview(ctx context.Context) models.MarketOverview
	Movers(ctx context.Context, tab stats.Tab) []models.Mover
}

// Preferences is the single writer of local user preferences
type Preferences interface {
	Snapshot() models.UserPreferences
	Update(next models.UserPreferences) (models.UserPreferences, error)
	ToggleWatchlist(companyID string) (models.UserPreferences, bool)
}

// Handler serves dashboard endpoints. Every query runs on the request
// context so an abandoned request cancels its store queries.
type Handler struct {
	dashboard Dashboard
	prefs     Preferences
}

// NewHandler creates API handler
func NewHandler(dashboard Dashboard, prefs Preferences) *Handler {
	return &Handler{dashboard: dashboard, prefs: prefs}
}

func (h *Handler) listCompanies(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Companies(c.Request.Context()))
}

func (h *Handler) listSectors(c *gin.Context) {
	mode := sectors.ParseSortMode(c.Query("sort"))
	c.JSON(http.StatusOK, h.dashboard.Sectors(c.Request.Context(), mode))
}

func (h *Handler) companySeries(c *gin.Context) {
	days, ok := daysParam(c)
	if !ok {
		return
	}

	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"company_id": id,
		"days":       days,
		"series":     h.dashboard.CompanySeries(c.Request.Context(), id, days),
	})
}

func (h *Handler) companyStats(c *gin.Context) {
	days, ok := daysParam(c)
	if !ok {
		return
	}

	id := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"company_id": id,
		"days":       days,
		"stats":      h.dashboard.CompanyStats(c.Request.Context(), id, days),
	})
}

func (h *Handler) companyNews(c *gin.Context) {
	count, ok := countParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.dashboard.CompanyNews(c.Request.Context(), c.Param("id"), count))
}

func (h *Handler) recentNews(c *gin.Context) {
	count, ok := countParam(c)
	if !ok {
		return
	}

	var filter news.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.dashboard.RecentNews(c.Request.Context(), filter, news.ParseSortMode(c.Query("sort")), count))
}

func (h *Handler) marketOverview(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.MarketOverview(c.Request.Context()))
}

func (h *Handler) marketMovers(c *gin.Context) {
	tab := stats.ParseTab(c.Query("tab"))
	c.JSON(http.StatusOK, gin.H{
		"tab":    tab,
		"movers": h.dashboard.Movers(c.Request.Context(), tab),
	})
}

func (h *Handler) getPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.prefs.Snapshot())
}

func (h *Handler) putPreferences(c *gin.Context) {
	var next models.UserPreferences
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.prefs.Update(next)
	if errors.Is(err, settings.ErrInvalidPreferences) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) toggleWatchlist(c *gin.Context) {
	prefs, watched := h.prefs.ToggleWatchlist(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"company_id":  c.Param("id"),
		"watched":     watched,
		"preferences": prefs,
	})
}

// daysParam reads days=N, falling back to range=1m style selectors
func daysParam(c *gin.Context) (int, bool) {
	if raw, ok := c.GetQuery("days"); ok {
		days, err := series.ParseDays(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return 0, false
		}
		return days, true
	}

	return series.Days(series.TimeRange(c.DefaultQuery("range", string(series.Range1M)))), true
}

// countParam reads an optional positive count; 0 means the configured default
func countParam(c *gin.Context) (int, bool) {
	raw, ok := c.GetQuery("count")
	if !ok {
		return 0, true
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
		return 0, false
	}

	return count, true
}

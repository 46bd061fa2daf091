package news

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

const defaultTitle = "No Title"

// Fetcher reads raw rows from the news tables
type Fetcher interface {
	Recent(ctx context.Context, table Table, limit int) ([]RawRow, error)
	ByTicker(ctx context.Context, table Table, ticker string, limit int) ([]RawRow, error)
}

// Composer merges both news tables into a single feed
type Composer struct {
	fetcher Fetcher
	tables  []Table
	now     func() time.Time
}

// NewComposer creates new composer over the SE and Argaam tables
func NewComposer(fetcher Fetcher, now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{
		fetcher: fetcher,
		tables:  []Table{TableSE, TableArgaam},
		now:     now,
	}
}

// Recent returns up to count newest items across both tables; each table
// contributes at most ceil(count/2). Any table failing yields an empty list.
func (c *Composer) Recent(ctx context.Context, count int) []models.NewsItem {
	if count <= 0 {
		return []models.NewsItem{}
	}

	perTable := (count + 1) / 2
	return c.compose(ctx, "recent", count, func(ctx context.Context, table Table) ([]RawRow, error) {
		return c.fetcher.Recent(ctx, table, perTable)
	})
}

// ForCompany returns up to count newest items mentioning ticker
func (c *Composer) ForCompany(ctx context.Context, ticker string, count int) []models.NewsItem {
	if count <= 0 || ticker == "" {
		return []models.NewsItem{}
	}

	return c.compose(ctx, "company", count, func(ctx context.Context, table Table) ([]RawRow, error) {
		return c.fetcher.ByTicker(ctx, table, ticker, count)
	})
}

func (c *Composer) compose(
	ctx context.Context,
	kind string,
	count int,
	fetch func(context.Context, Table) ([]RawRow, error),
) []models.NewsItem {
	results := make([][]RawRow, len(c.tables))

	g, gctx := errgroup.WithContext(ctx)
	for i, table := range c.tables {
		g.Go(func() error {
			rows, err := fetch(gctx, table)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("failed to fetch news",
			zap.String("kind", kind),
			zap.Error(err),
		)
		return []models.NewsItem{}
	}

	now := c.now()
	lists := make([][]models.NewsItem, len(c.tables))
	for i, table := range c.tables {
		items := make([]models.NewsItem, 0, len(results[i]))
		for _, row := range results[i] {
			items = append(items, Normalize(row, table, now))
		}
		lists[i] = items
	}

	return Merge(count, lists...)
}

// Normalize maps a raw row into a NewsItem using the table's defaults.
// Rows without a publish time are stamped with now.
func Normalize(row RawRow, table Table, now time.Time) models.NewsItem {
	item := models.NewsItem{
		ID:               table.IDPrefix + strconv.FormatInt(row.ID, 10),
		Title:            defaultTitle,
		Content:          row.Content.String,
		Source:           table.DefaultSource,
		URL:              row.URL.String,
		PublishedAt:      now,
		Sentiment:        sentiment.LabelToScore(row.SentimentLabel.String),
		RelatedCompanies: ExtractCompanyIDs(row.Stocks.String),
		Language:         table.DefaultLanguage,
	}

	if row.Title.Valid && row.Title.String != "" {
		item.Title = row.Title.String
	}
	if row.Source.Valid && row.Source.String != "" {
		item.Source = row.Source.String
	}
	if row.PublishedAt.Valid {
		item.PublishedAt = row.PublishedAt.Time
	}
	if row.Language.Valid && row.Language.String != "" {
		item.Language = models.Language(row.Language.String)
	}

	return item
}

// ExtractCompanyIDs splits a comma separated stocks field, dropping empty tokens
func ExtractCompanyIDs(stocks string) []string {
	ids := make([]string, 0)
	for _, token := range strings.Split(stocks, ",") {
		if token = strings.TrimSpace(token); token != "" {
			ids = append(ids, token)
		}
	}
	return ids
}

// Merge concatenates lists, orders them newest first and keeps count items
func Merge(count int, lists ...[]models.NewsItem) []models.NewsItem {
	merged := make([]models.NewsItem, 0)
	for _, list := range lists {
		merged = append(merged, list...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})

	if count >= 0 && len(merged) > count {
		merged = merged[:count]
	}

	return merged
}

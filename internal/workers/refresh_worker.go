package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/dashboard"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
)

// FeedRefresher rebuilds the live dashboard feed
type FeedRefresher interface {
	RefreshFeed(ctx context.Context, feed *dashboard.Feed) (dashboard.FeedSnapshot, bool)
}

// RefreshWorker periodically rebuilds the live feed pushed to websocket clients
type RefreshWorker struct {
	refresher FeedRefresher
	feed      *dashboard.Feed
}

// NewRefreshWorker creates new feed refresh worker
func NewRefreshWorker(refresher FeedRefresher, feed *dashboard.Feed) *RefreshWorker {
	return &RefreshWorker{refresher: refresher, feed: feed}
}

// Name returns worker name
func (w *RefreshWorker) Name() string {
	return "feed_refresh"
}

// Run executes one refresh
func (w *RefreshWorker) Run(ctx context.Context) error {
	snap, ok := w.refresher.RefreshFeed(ctx, w.feed)
	if !ok {
		return nil
	}

	logger.Debug("dashboard feed refreshed",
		zap.Uint64("generation", snap.Generation),
		zap.Int("sectors", len(snap.Sectors)),
		zap.Int("news", len(snap.News)),
	)

	return nil
}

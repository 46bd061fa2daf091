package workers

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// AlertNotifier delivers watchlist alerts
type AlertNotifier interface {
	SendWatchlistAlert(ctx context.Context, alert models.WatchlistAlert) error
}

// PreferencesReader exposes read-only preference snapshots
type PreferencesReader interface {
	Snapshot() models.UserPreferences
}

// ScoreLister lists current company scores
type ScoreLister interface {
	ListScored(ctx context.Context) ([]models.CompanyScore, error)
}

// AlertWorker notifies when a watched company crosses an alert threshold.
// A company is notified again only after it moves to a different side.
type AlertWorker struct {
	scores   ScoreLister
	prefs    PreferencesReader
	notifier AlertNotifier

	mu   sync.Mutex
	last map[string]models.AlertDirection // "" while inside thresholds
}

// NewAlertWorker creates new alert worker
func NewAlertWorker(scores ScoreLister, prefs PreferencesReader, notifier AlertNotifier) *AlertWorker {
	return &AlertWorker{
		scores:   scores,
		prefs:    prefs,
		notifier: notifier,
		last:     make(map[string]models.AlertDirection),
	}
}

// Name returns worker name
func (w *AlertWorker) Name() string {
	return "watchlist_alerts"
}

// Run checks every watched company once
func (w *AlertWorker) Run(ctx context.Context) error {
	prefs := w.prefs.Snapshot()
	if len(prefs.Watchlist) == 0 {
		return nil
	}

	scored, err := w.scores.ListScored(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	watched := make(map[string]bool, len(prefs.Watchlist))
	var errs []error
	sent := 0

	for _, c := range scored {
		id := c.Company.ID
		if !prefs.InWatchlist(id) || watched[id] {
			continue
		}
		watched[id] = true

		dir, threshold := crossing(c.Score, prefs.AlertThresholds)
		prev := w.last[id]
		w.last[id] = dir

		if dir == "" || dir == prev {
			continue
		}

		alert := models.WatchlistAlert{
			Company:   c.Company,
			Score:     c.Score,
			Threshold: threshold,
			Direction: dir,
			Bucket:    string(sentiment.Classify(c.Score)),
		}
		if err := w.notifier.SendWatchlistAlert(ctx, alert); err != nil {
			// retry on the next run
			w.last[id] = prev
			errs = append(errs, err)
			continue
		}
		sent++
	}

	for id := range w.last {
		if !watched[id] {
			delete(w.last, id)
		}
	}

	if sent > 0 {
		logger.Info("watchlist alerts sent", zap.Int("count", sent))
	}

	return errors.Join(errs...)
}

func crossing(score float64, t models.AlertThresholds) (models.AlertDirection, float64) {
	switch {
	case score >= t.Positive:
		return models.AlertAbove, t.Positive
	case score <= t.Negative:
		return models.AlertBelow, t.Negative
	default:
		return "", 0
	}
}

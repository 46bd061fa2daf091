package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/redis"
	"github.com/selivandex/tadawul-sentiment/internal/sectors"
	"github.com/selivandex/tadawul-sentiment/internal/sentiment"
	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// ScoreSource reads current company scores
type ScoreSource interface {
	ListScored(ctx context.Context) ([]models.CompanyScore, error)
	SectorScores(ctx context.Context) ([]models.SectorScore, error)
}

// SnapshotSink stores a snapshot run
type SnapshotSink interface {
	Name() string
	SaveSnapshot(ctx context.Context, snap models.Snapshot) error
}

// SummaryNotifier announces a stored snapshot
type SummaryNotifier interface {
	SendSnapshotSummary(ctx context.Context, snap models.Snapshot) error
}

// SnapshotWorker records the day's company and sector sentiment.
// The first sink is the primary store; later sinks are mirrors whose failures
// are logged only.
type SnapshotWorker struct {
	source   ScoreSource
	sinks    []SnapshotSink
	locks    redis.LockFactory
	notifier SummaryNotifier
	now      func() time.Time
}

// NewSnapshotWorker creates new snapshot worker; notifier may be nil
func NewSnapshotWorker(source ScoreSource, locks redis.LockFactory, notifier SummaryNotifier, sinks ...SnapshotSink) *SnapshotWorker {
	return &SnapshotWorker{
		source:   source,
		sinks:    sinks,
		locks:    locks,
		notifier: notifier,
		now:      time.Now,
	}
}

// Name returns worker name
func (w *SnapshotWorker) Name() string {
	return "sentiment_snapshot"
}

// Run takes one snapshot unless another instance already holds today's lock
func (w *SnapshotWorker) Run(ctx context.Context) error {
	now := w.now().UTC()
	lock := w.locks.CreateJobLock(fmt.Sprintf("%s:%s", w.Name(), now.Format("2006-01-02")))

	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire snapshot lock: %w", err)
	}
	if !acquired {
		logger.Info("snapshot already taken by another instance", zap.String("lock", lock.Name()))
		return nil
	}

	snap, err := w.take(ctx, now)
	if err != nil {
		// let a retry or another instance take it
		_ = lock.Release(ctx)
		return err
	}

	// the lock is kept until expiry so peers fired by the same schedule skip
	logger.Info("sentiment snapshot stored",
		zap.Int("companies", len(snap.Companies)),
		zap.Int("sectors", len(snap.Sectors)),
	)

	if w.notifier != nil {
		if err := w.notifier.SendSnapshotSummary(ctx, snap); err != nil {
			logger.Warn("failed to send snapshot summary", zap.Error(err))
		}
	}

	return nil
}

func (w *SnapshotWorker) take(ctx context.Context, now time.Time) (models.Snapshot, error) {
	scored, err := w.source.ListScored(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to load company scores: %w", err)
	}

	pairs, err := w.source.SectorScores(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to load sector scores: %w", err)
	}

	snap := BuildSnapshot(now, scored, pairs)
	if len(w.sinks) == 0 {
		return snap, errors.New("no snapshot sink configured")
	}

	if err := w.sinks[0].SaveSnapshot(ctx, snap); err != nil {
		return snap, fmt.Errorf("failed to save snapshot to %s: %w", w.sinks[0].Name(), err)
	}

	for _, sink := range w.sinks[1:] {
		if err := sink.SaveSnapshot(ctx, snap); err != nil {
			logger.Warn("failed to mirror snapshot",
				zap.String("sink", sink.Name()),
				zap.Error(err),
			)
		}
	}

	return snap, nil
}

// BuildSnapshot shapes current scores into a snapshot row set
func BuildSnapshot(now time.Time, scored []models.CompanyScore, pairs []models.SectorScore) models.Snapshot {
	companies := make([]models.CompanySnapshot, 0, len(scored))
	for _, c := range scored {
		score := sentiment.Clamp(c.Score)
		companies = append(companies, models.CompanySnapshot{
			CompanyID: c.Company.ID,
			Sector:    c.Company.Sector,
			Score:     score,
			Bucket:    string(sentiment.Classify(score)),
		})
	}

	return models.Snapshot{
		CapturedAt: now,
		Sectors:    sectors.Aggregate(pairs),
		Companies:  companies,
	}
}

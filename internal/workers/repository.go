package workers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// Repository persists daily snapshots into the sentiment store
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new workers repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Name identifies the sink in logs
func (r *Repository) Name() string {
	return "postgres"
}

// ========== Snapshot Operations ==========

// SaveSnapshot writes company and sector rows in one transaction
func (r *Repository) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range snap.Companies {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO company_sentiment (company_id, score, bucket, captured_at)
			VALUES ($1, $2, $3, $4)
		`, c.CompanyID, c.Score, c.Bucket, snap.CapturedAt)
		if err != nil {
			return fmt.Errorf("failed to save company sentiment %s: %w", c.CompanyID, err)
		}
	}

	for _, s := range snap.Sectors {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sector_sentiment (sector, average_sentiment, companies, captured_at)
			VALUES ($1, $2, $3, $4)
		`, s.Sector, s.AverageSentiment, s.Companies, snap.CapturedAt)
		if err != nil {
			return fmt.Errorf("failed to save sector sentiment %s: %w", s.Sector, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

package clickhouse

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/tadawul-sentiment/pkg/logger"
	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sector_sentiment_history (
		captured_at DateTime,
		sector String,
		average_sentiment Float64,
		companies UInt32
	) ENGINE = MergeTree ORDER BY (sector, captured_at)`,
	`CREATE TABLE IF NOT EXISTS company_sentiment_history (
		captured_at DateTime,
		company_id String,
		sector String,
		score Float64,
		bucket LowCardinality(String)
	) ENGINE = MergeTree ORDER BY (company_id, captured_at)`,
}

// Repository mirrors sentiment snapshots into ClickHouse for long-range history
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new ClickHouse repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates history tables if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create clickhouse table: %w", err)
		}
	}
	return nil
}

// Name identifies the sink in logs
func (r *Repository) Name() string {
	return "clickhouse"
}

// SaveSnapshot writes sector and company rows of one snapshot run
func (r *Repository) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	if err := r.saveSectors(ctx, snap); err != nil {
		return err
	}
	if err := r.saveCompanies(ctx, snap); err != nil {
		return err
	}

	logger.Debug("saved snapshot to ClickHouse",
		zap.Int("sectors", len(snap.Sectors)),
		zap.Int("companies", len(snap.Companies)),
	)

	return nil
}

func (r *Repository) saveSectors(ctx context.Context, snap models.Snapshot) error {
	if len(snap.Sectors) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.Preparex(`
		INSERT INTO sector_sentiment_history
		(captured_at, sector, average_sentiment, companies)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range snap.Sectors {
		if _, err := stmt.ExecContext(ctx, snap.CapturedAt, s.Sector, s.AverageSentiment, s.Companies); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert sector snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *Repository) saveCompanies(ctx context.Context, snap models.Snapshot) error {
	if len(snap.Companies) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.Preparex(`
		INSERT INTO company_sentiment_history
		(captured_at, company_id, sector, score, bucket)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range snap.Companies {
		if _, err := stmt.ExecContext(ctx, snap.CapturedAt, c.CompanyID, c.Sector, c.Score, c.Bucket); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert company snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

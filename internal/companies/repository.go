package companies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// company_tracking uses quoted mixed-case columns; every query aliases them to snake_case
const trackingColumns = `
	"Symbol"::text AS symbol,
	"Company_name" AS company_name,
	"Trading_name" AS trading_name,
	"Sector" AS sector,
	score,
	s_label`

// Repository reads company tracking data
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new company repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListCompanies returns every tracked company
func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var rows []TrackingRow

	query := `SELECT` + trackingColumns + ` FROM company_tracking`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query company tracking: %w", err)
	}

	return NormalizeAll(rows), nil
}

// ListScored returns companies that have a non-null score
func (r *Repository) ListScored(ctx context.Context) ([]models.CompanyScore, error) {
	var rows []TrackingRow

	query := `SELECT` + trackingColumns + ` FROM company_tracking WHERE score IS NOT NULL`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query scored companies: %w", err)
	}

	scored := make([]models.CompanyScore, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, models.CompanyScore{
			Company: Normalize(row),
			Score:   row.Score.Float64,
		})
	}

	return scored, nil
}

// SectorScores returns (sector, score) pairs for companies with a non-null score
func (r *Repository) SectorScores(ctx context.Context) ([]models.SectorScore, error) {
	var rows []struct {
		Sector sql.NullString  `db:"sector"`
		Score  sql.NullFloat64 `db:"score"`
	}

	query := `SELECT "Sector" AS sector, score FROM company_tracking WHERE score IS NOT NULL`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query sector scores: %w", err)
	}

	pairs := make([]models.SectorScore, 0, len(rows))
	for _, row := range rows {
		if !row.Score.Valid {
			continue
		}
		pairs = append(pairs, models.SectorScore{
			Sector: stringOr(row.Sector, UnknownSector),
			Score:  row.Score.Float64,
		})
	}

	return pairs, nil
}

// CurrentScore returns the company's current score.
// found is false when the company is unknown; a null score reads as 0.
func (r *Repository) CurrentScore(ctx context.Context, companyID string) (score float64, found bool, err error) {
	var row struct {
		Symbol sql.NullString  `db:"symbol"`
		Score  sql.NullFloat64 `db:"score"`
	}

	query := `SELECT "Symbol"::text AS symbol, score FROM company_tracking WHERE "Symbol"::text = $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to query company score: %w", err)
	}

	return row.Score.Float64, true, nil
}

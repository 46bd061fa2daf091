package companies

import (
	"database/sql"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// UnknownSector is used when a tracking row has no sector
const UnknownSector = "Unknown"

// TrackingRow is a raw company_tracking row; every column is nullable
type TrackingRow struct {
	Symbol      sql.NullString  `db:"symbol"`
	CompanyName sql.NullString  `db:"company_name"`
	TradingName sql.NullString  `db:"trading_name"`
	Sector      sql.NullString  `db:"sector"`
	Score       sql.NullFloat64 `db:"score"`
	Label       sql.NullString  `db:"s_label"`
}

// Normalize maps a tracking row to a Company, substituting defaults for nulls.
// Duplicate symbols are not deduplicated.
func Normalize(row TrackingRow) models.Company {
	symbol := stringOr(row.Symbol, "")

	return models.Company{
		ID:     symbol,
		Ticker: symbol,
		Name:   stringOr(row.CompanyName, ""),
		NameAr: stringOr(row.TradingName, ""),
		Sector: stringOr(row.Sector, UnknownSector),
		Logo:   "",
	}
}

// NormalizeAll maps rows in order
func NormalizeAll(rows []TrackingRow) []models.Company {
	companies := make([]models.Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, Normalize(row))
	}
	return companies
}

func stringOr(v sql.NullString, fallback string) string {
	if !v.Valid {
		return fallback
	}
	return v.String
}

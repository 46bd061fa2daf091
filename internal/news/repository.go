package news

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
)

// Table describes one upstream news table and the defaults for its missing fields
type Table struct {
	Name            string
	IDPrefix        string
	DefaultSource   string
	DefaultLanguage models.Language
}

var (
	// TableSE is the exchange announcements feed
	TableSE = Table{
		Name:            "se_news",
		IDPrefix:        "se_",
		DefaultSource:   "SE News",
		DefaultLanguage: models.LanguageEnglish,
	}

	// TableArgaam is the Argaam news feed
	TableArgaam = Table{
		Name:            "argaam_news",
		IDPrefix:        "argaam_",
		DefaultSource:   "Argaam",
		DefaultLanguage: models.LanguageArabic,
	}
)

// RawRow is a news row as stored; both tables share these columns
type RawRow struct {
	ID             int64          `db:"id"`
	Title          sql.NullString `db:"title"`
	Content        sql.NullString `db:"content"`
	Source         sql.NullString `db:"source"`
	URL            sql.NullString `db:"url"`
	PublishedAt    sql.NullTime   `db:"published_at"`
	SentimentLabel sql.NullString `db:"sentiment_label"`
	Stocks         sql.NullString `db:"stocks"`
	Language       sql.NullString `db:"language"`
}

const newsColumns = `id, title, content, source, url, published_at, sentiment_label, stocks, language`

// Repository reads news tables
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new news repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Recent returns the newest rows of a table
func (r *Repository) Recent(ctx context.Context, table Table, limit int) ([]RawRow, error) {
	// table.Name is one of the package-level tables, never user input
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY published_at DESC NULLS LAST
		LIMIT $1
	`, newsColumns, table.Name)

	rows := make([]RawRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table.Name, err)
	}

	return rows, nil
}

// ByTicker returns the newest rows whose stocks field contains ticker
func (r *Repository) ByTicker(ctx context.Context, table Table, ticker string, limit int) ([]RawRow, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE stocks ILIKE $1
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2
	`, newsColumns, table.Name)

	rows := make([]RawRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, "%"+escapeLike(ticker)+"%", limit); err != nil {
		return nil, fmt.Errorf("failed to query %s by ticker: %w", table.Name, err)
	}

	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package testdb

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/database"
)

// tables are truncated after every test, children first
var tables = []string{
	"company_sentiment",
	"sector_sentiment",
	"se_news",
	"argaam_news",
	"company_tracking",
}

// TestDB is a migrated Postgres database that is wiped on cleanup
type TestDB struct {
	DB *sqlx.DB
}

// Setup connects to TEST_DATABASE_URL and applies migrations.
// The test is skipped when the variable is unset or in short mode.
func Setup(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(conn.DB, migrationsPath()); err != nil {
		conn.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	tdb := &TestDB{DB: conn}
	tdb.truncate(t)

	t.Cleanup(func() {
		tdb.Teardown(t)
	})

	return tdb
}

// Teardown wipes test data and closes connection
func (tdb *TestDB) Teardown(t *testing.T) {
	t.Helper()

	tdb.truncate(t)

	if err := tdb.DB.Close(); err != nil {
		t.Logf("warning: failed to close database: %v", err)
	}
}

func (tdb *TestDB) truncate(t *testing.T) {
	t.Helper()

	for _, table := range tables {
		if _, err := tdb.DB.Exec("TRUNCATE " + table + " RESTART IDENTITY"); err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// Exec executes SQL and fails the test on error
func (tdb *TestDB) Exec(t *testing.T, query string, args ...interface{}) {
	t.Helper()

	if _, err := tdb.DB.Exec(query, args...); err != nil {
		t.Fatalf("failed to execute query: %v\nQuery: %s", err, query)
	}
}

// CreateCompany inserts a company_tracking row; a nil score is stored as NULL
func (tdb *TestDB) CreateCompany(t *testing.T, symbol, name, sector string, score *float64) {
	t.Helper()

	tdb.Exec(t, `
		INSERT INTO company_tracking ("Symbol", "Company_name", "Trading_name", "Sector", score, s_label)
		VALUES ($1, $2, $2, $3, $4, NULL)
	`, symbol, name, sector, score)
}

// CreateNews inserts a news row into table
func (tdb *TestDB) CreateNews(t *testing.T, table, title, label, stocks string, publishedAt time.Time) {
	t.Helper()

	tdb.Exec(t, `
		INSERT INTO `+table+` (title, content, source, url, published_at, sentiment_label, stocks, language)
		VALUES ($1, $1, NULL, NULL, $2, $3, $4, NULL)
	`, title, publishedAt, label, stocks)
}

// Count returns the number of rows in table
func (tdb *TestDB) Count(t *testing.T, table string) int {
	t.Helper()

	var count int
	if err := tdb.DB.Get(&count, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}

	return count
}

// migrationsPath resolves the repo migrations directory from this file
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/tadawul-sentiment/internal/adapters/database"
	"github.com/selivandex/tadawul-sentiment/test/testdb"
)

func TestMigrations_Postgres(t *testing.T) {
	tdb := testdb.Setup(t)
	path, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)

	version, dirty, err := database.GetMigrationVersion(tdb.DB.DB, path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 3, version)

	// running again is a no-op
	require.NoError(t, database.RunMigrations(tdb.DB.DB, path))

	require.NoError(t, database.RollbackMigration(tdb.DB.DB, path))
	version, _, err = database.GetMigrationVersion(tdb.DB.DB, path)
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)

	require.NoError(t, database.RunMigrations(tdb.DB.DB, path))
}

package companies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/tadawul-sentiment/test/testdb"
)

func TestRepository_Postgres(t *testing.T) {
	tdb := testdb.Setup(t)
	ctx := context.Background()

	bank := 0.42
	tdb.CreateCompany(t, "1120", "Al Rajhi Bank", "Banks", &bank)
	tdb.CreateCompany(t, "2222", "Saudi Aramco", "Energy", nil)

	repo := NewRepository(tdb.DB)

	t.Run("list companies", func(t *testing.T) {
		companies, err := repo.ListCompanies(ctx)
		require.NoError(t, err)
		assert.Len(t, companies, 2)
	})

	t.Run("null scores are excluded", func(t *testing.T) {
		scored, err := repo.ListScored(ctx)
		require.NoError(t, err)
		require.Len(t, scored, 1)
		assert.Equal(t, "1120", scored[0].Company.ID)
		assert.InDelta(t, 0.42, scored[0].Score, 1e-9)

		pairs, err := repo.SectorScores(ctx)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.Equal(t, "Banks", pairs[0].Sector)
	})

	t.Run("current score", func(t *testing.T) {
		score, found, err := repo.CurrentScore(ctx, "2222")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Zero(t, score)

		_, found, err = repo.CurrentScore(ctx, "9999")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/selivandex/tadawul-sentiment/pkg/models"
	"github.com/selivandex/tadawul-sentiment/test/testdb"
)

func TestRepository_SaveSnapshotPostgres(t *testing.T) {
	tdb := testdb.Setup(t)

	snap := models.Snapshot{
		CapturedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Sectors: []models.SectorSentiment{
			{Sector: "Banks", AverageSentiment: 0.4, Companies: 2},
		},
		Companies: []models.CompanySnapshot{
			{CompanyID: "1120", Sector: "Banks", Score: 0.5, Bucket: "positive"},
			{CompanyID: "1180", Sector: "Banks", Score: 0.3, Bucket: "positive"},
		},
	}

	repo := NewRepository(tdb.DB)
	require.NoError(t, repo.SaveSnapshot(context.Background(), snap))

	require.Equal(t, 2, tdb.Count(t, "company_sentiment"))
	require.Equal(t, 1, tdb.Count(t, "sector_sentiment"))
}

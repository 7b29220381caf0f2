package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaypoint/relaypoint/internal/domain"
)

func TestStatsRepository_CountInWindow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newStatsRepositoryWithDB(mock)

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM packages WHERE created_at BETWEEN \$1 AND \$2`).
		WithArgs(timeToPgTimestamptz(start), timeToPgTimestamptz(end)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	total, err := repo.CountInWindow(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(42), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_StatusCounts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newStatsRepositoryWithDB(mock)

	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\)\s+FROM packages\s+WHERE created_at BETWEEN \$1 AND \$2\s+GROUP BY status`).
		WithArgs(timeToPgTimestamptz(start), timeToPgTimestamptz(end)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(domain.StatusPending, int64(5)).
			AddRow(domain.StatusDelivered, int64(12)))

	counts, err := repo.StatusCounts(context.Background(), start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(5), counts[domain.StatusPending])
	assert.Equal(t, int64(12), counts[domain.StatusDelivered])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_ShopStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newStatsRepositoryWithDB(mock)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery(`SELECT a\.id,\s+a\.name,\s+COUNT\(p\.id\),\s+COUNT\(p\.id\) FILTER`).
		WithArgs(timeToPgTimestamptz(start), timeToPgTimestamptz(end)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "count", "delivered"}).
			AddRow("shop-1", "Corner Shop", int64(10), int64(4)))

	stats, err := repo.ShopStats(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	assert.Equal(t, "shop-1", stats[0].ShopID)
	assert.Equal(t, int64(10), stats[0].Total)
	assert.Equal(t, int64(4), stats[0].Delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

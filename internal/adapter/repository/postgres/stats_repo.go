package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
)

// StatsRepository implements usecase.StatsRepository with read-only
// aggregation queries over the packages table. Window boundaries are
// inclusive and interpreted in UTC.
type StatsRepository struct {
	db dbConn
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: pool}
}

func newStatsRepositoryWithDB(db dbConn) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountInWindow counts packages created within the window.
func (r *StatsRepository) CountInWindow(ctx context.Context, start, end time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM packages WHERE created_at BETWEEN $1 AND $2`

	var total int64
	err := r.db.QueryRow(ctx, query, timeToPgTimestamptz(start), timeToPgTimestamptz(end)).Scan(&total)

	return total, err
}

// StatusCounts groups the window's packages by status.
func (r *StatsRepository) StatusCounts(ctx context.Context, start, end time.Time) (map[domain.PackageStatus]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM packages
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY status
	`

	rows, err := r.db.Query(ctx, query, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.PackageStatus]int64)

	for rows.Next() {
		var (
			status domain.PackageStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		counts[status] = count
	}

	return counts, rows.Err()
}

// DailyCounts groups the window's packages by UTC day of month.
func (r *StatsRepository) DailyCounts(ctx context.Context, start, end time.Time) (map[int]int64, error) {
	query := `
		SELECT EXTRACT(DAY FROM created_at AT TIME ZONE 'UTC')::int, COUNT(*)
		FROM packages
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY 1
	`

	rows, err := r.db.Query(ctx, query, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int64)

	for rows.Next() {
		var (
			day   int
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}

		counts[day] = count
	}

	return counts, rows.Err()
}

// MonthlyCounts groups the window's packages by UTC month.
func (r *StatsRepository) MonthlyCounts(ctx context.Context, start, end time.Time) (map[time.Month]int64, error) {
	query := `
		SELECT EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int, COUNT(*)
		FROM packages
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY 1
	`

	rows, err := r.db.Query(ctx, query, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[time.Month]int64)

	for rows.Next() {
		var (
			month int
			count int64
		)
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}

		counts[time.Month(month)] = count
	}

	return counts, rows.Err()
}

// ShopStats returns per-shop package and delivery totals for the window.
// Shops with no packages in the window are not returned.
func (r *StatsRepository) ShopStats(ctx context.Context, start, end time.Time) ([]usecase.ShopWindowStats, error) {
	query := `
		SELECT a.id,
		       a.name,
		       COUNT(p.id),
		       COUNT(p.id) FILTER (WHERE p.status = 'delivered')
		FROM accounts a
		JOIN packages p ON p.shop_id = a.id
		WHERE p.created_at BETWEEN $1 AND $2
		GROUP BY a.id, a.name
	`

	rows, err := r.db.Query(ctx, query, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []usecase.ShopWindowStats

	for rows.Next() {
		var s usecase.ShopWindowStats
		if err := rows.Scan(&s.ShopID, &s.ShopName, &s.Total, &s.Delivered); err != nil {
			return nil, err
		}

		stats = append(stats, s)
	}

	return stats, rows.Err()
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaypoint/relaypoint/internal/domain"
)

// Dashboard views.
const (
	ViewMonth = "month"
	ViewYear  = "year"
)

var (
	// ErrInvalidWindow is returned for out-of-range dashboard queries.
	ErrInvalidWindow = errors.New("invalid dashboard window")
)

// reportCacheTTL bounds staleness of cached dashboard reports.
const reportCacheTTL = time.Minute

// ReportUseCase produces the read-only, time-windowed statistics behind
// the admin dashboard. It never mutates anything.
type ReportUseCase struct {
	statsRepo StatsRepository
	cache     Cache
	logger    zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil, in
// which case every query hits the database.
func NewReportUseCase(statsRepo StatsRepository, cache Cache, logger zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{
		statsRepo: statsRepo,
		cache:     cache,
		logger:    logger,
	}
}

// DashboardQuery selects the aggregation window. Zero Year/Month mean
// the current year/month.
type DashboardQuery struct {
	Year  int
	Month int
	View  string
}

// StatusCount is the number of packages in one status within a window.
type StatusCount struct {
	Status domain.PackageStatus `json:"status"`
	Count  int64                `json:"count"`
}

// PeriodBucket is the package count for one day or month of the window.
type PeriodBucket struct {
	Label    string `json:"label"`
	Packages int64  `json:"packages"`
}

// ShopPopularity ranks one shop within the window. Popularity is the
// shop's share of all packages in the window; DeliveryRate the share of
// its own packages that are delivered. Both are rounded percentages.
type ShopPopularity struct {
	ShopID       string `json:"shopId"`
	Name         string `json:"name"`
	Popularity   int    `json:"popularity"`
	TotalOrders  int64  `json:"totalOrders"`
	DeliveryRate int    `json:"deliveryRate"`
}

// DashboardReport is the full dashboard payload for one window.
type DashboardReport struct {
	View               string           `json:"view"`
	WindowStart        time.Time        `json:"windowStart"`
	WindowEnd          time.Time        `json:"windowEnd"`
	TotalPackages      int64            `json:"totalPackages"`
	StatusDistribution []StatusCount    `json:"statusDistribution"`
	PeriodStats        []PeriodBucket   `json:"periodStats"`
	ShopPopularity     []ShopPopularity `json:"shopPopularity"`
}

// Dashboard computes the dashboard report for the selected window,
// serving from cache when a recent identical query is available. The
// bool reports whether the cache answered.
func (uc *ReportUseCase) Dashboard(ctx context.Context, query DashboardQuery) (*DashboardReport, bool, error) {
	query = withDefaults(query)

	if err := validateQuery(query); err != nil {
		return nil, false, err
	}

	start, end := Window(query)
	key := cacheKey(query)

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, key); err == nil && cached != "" {
			var report DashboardReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, true, nil
			}
		}
	}

	report, err := uc.compute(ctx, query, start, end)
	if err != nil {
		return nil, false, err
	}

	if uc.cache != nil {
		payload, err := json.Marshal(report)
		if err == nil {
			if err := uc.cache.Set(ctx, key, string(payload), reportCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("key", key).Msg("failed to cache dashboard report")
			}
		}
	}

	return report, false, nil
}

// cacheKey identifies each distinct window. The month is irrelevant to
// a year view, so it is left out of the key.
func cacheKey(query DashboardQuery) string {
	if query.View == ViewYear {
		return fmt.Sprintf("dashboard:%s:%d", query.View, query.Year)
	}

	return fmt.Sprintf("dashboard:%s:%d:%02d", query.View, query.Year, query.Month)
}

func (uc *ReportUseCase) compute(ctx context.Context, query DashboardQuery, start, end time.Time) (*DashboardReport, error) {
	total, err := uc.statsRepo.CountInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	statusCounts, err := uc.statsRepo.StatusCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	distribution := make([]StatusCount, 0, len(statusCounts))
	for _, status := range []domain.PackageStatus{
		domain.StatusPending, domain.StatusReceived, domain.StatusInTransit, domain.StatusDelivered,
	} {
		if count, ok := statusCounts[status]; ok {
			distribution = append(distribution, StatusCount{Status: status, Count: count})
		}
	}

	var periodStats []PeriodBucket
	if query.View == ViewMonth {
		periodStats, err = uc.monthlyBuckets(ctx, query, start, end)
	} else {
		periodStats, err = uc.yearlyBuckets(ctx, start, end)
	}
	if err != nil {
		return nil, err
	}

	shops, err := uc.shopPopularity(ctx, start, end, total)
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		View:               query.View,
		WindowStart:        start,
		WindowEnd:          end,
		TotalPackages:      total,
		StatusDistribution: distribution,
		PeriodStats:        periodStats,
		ShopPopularity:     shops,
	}, nil
}

// monthlyBuckets seeds every calendar day of the month at zero so quiet
// days still chart.
func (uc *ReportUseCase) monthlyBuckets(ctx context.Context, query DashboardQuery, start, end time.Time) ([]PeriodBucket, error) {
	counts, err := uc.statsRepo.DailyCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	daysInMonth := end.Day()

	buckets := make([]PeriodBucket, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		buckets = append(buckets, PeriodBucket{
			Label:    strconv.Itoa(day),
			Packages: counts[day],
		})
	}

	return buckets, nil
}

// yearlyBuckets seeds all twelve months at zero, in calendar order.
func (uc *ReportUseCase) yearlyBuckets(ctx context.Context, start, end time.Time) ([]PeriodBucket, error) {
	counts, err := uc.statsRepo.MonthlyCounts(ctx, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make([]PeriodBucket, 0, 12)
	for month := time.January; month <= time.December; month++ {
		buckets = append(buckets, PeriodBucket{
			Label:    month.String(),
			Packages: counts[month],
		})
	}

	return buckets, nil
}

func (uc *ReportUseCase) shopPopularity(ctx context.Context, start, end time.Time, total int64) ([]ShopPopularity, error) {
	stats, err := uc.statsRepo.ShopStats(ctx, start, end)
	if err != nil {
		return nil, err
	}

	shops := make([]ShopPopularity, 0, len(stats))
	for _, s := range stats {
		// Shops with no packages in the window are excluded.
		if s.Total == 0 {
			continue
		}

		popularity := 0
		if total > 0 {
			popularity = int(math.Round(float64(s.Total) / float64(total) * 100))
		}

		deliveryRate := int(math.Round(float64(s.Delivered) / float64(s.Total) * 100))

		shops = append(shops, ShopPopularity{
			ShopID:       s.ShopID,
			Name:         s.ShopName,
			Popularity:   popularity,
			TotalOrders:  s.Total,
			DeliveryRate: deliveryRate,
		})
	}

	sort.Slice(shops, func(i, j int) bool {
		if shops[i].Popularity != shops[j].Popularity {
			return shops[i].Popularity > shops[j].Popularity
		}
		return shops[i].Name < shops[j].Name
	})

	return shops, nil
}

// Window computes the inclusive UTC range for a dashboard query: the
// whole calendar month, or Jan 1 through Dec 31 for the year view.
func Window(query DashboardQuery) (start, end time.Time) {
	if query.View == ViewYear {
		start = time.Date(query.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(query.Year, time.December, 31, 23, 59, 59, 0, time.UTC)
		return start, end
	}

	start = time.Date(query.Year, time.Month(query.Month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

func withDefaults(query DashboardQuery) DashboardQuery {
	now := time.Now().UTC()

	if query.View == "" {
		query.View = ViewMonth
	}

	if query.Year == 0 {
		query.Year = now.Year()
	}

	if query.Month == 0 {
		query.Month = int(now.Month())
	}

	return query
}

func validateQuery(query DashboardQuery) error {
	if query.View != ViewMonth && query.View != ViewYear {
		return fmt.Errorf("%w: view must be %q or %q", ErrInvalidWindow, ViewMonth, ViewYear)
	}

	if query.Month < 1 || query.Month > 12 {
		return fmt.Errorf("%w: month out of range", ErrInvalidWindow)
	}

	if query.Year < 2020 || query.Year > 2100 {
		return fmt.Errorf("%w: year out of range", ErrInvalidWindow)
	}

	return nil
}

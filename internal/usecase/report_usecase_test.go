package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaypoint/relaypoint/internal/domain"
	"github.com/relaypoint/relaypoint/internal/usecase"
	"github.com/relaypoint/relaypoint/internal/usecase/mocks"
)

func TestReportUseCase_DashboardMonth(t *testing.T) {
	statsRepo := mocks.NewMockStatsRepository()
	statsRepo.CountInWindowFunc = func(ctx context.Context, start, end time.Time) (int64, error) {
		return 2, nil
	}
	statsRepo.StatusCountsFunc = func(ctx context.Context, start, end time.Time) (map[domain.PackageStatus]int64, error) {
		return map[domain.PackageStatus]int64{
			domain.StatusDelivered: 1,
			domain.StatusPending:   1,
		}, nil
	}
	statsRepo.DailyCountsFunc = func(ctx context.Context, start, end time.Time) (map[int]int64, error) {
		return map[int]int64{5: 1, 10: 1}, nil
	}
	statsRepo.ShopStatsFunc = func(ctx context.Context, start, end time.Time) ([]usecase.ShopWindowStats, error) {
		return []usecase.ShopWindowStats{
			{ShopID: "shop-a", ShopName: "Shop A", Total: 2, Delivered: 1},
			{ShopID: "shop-b", ShopName: "Shop B", Total: 0, Delivered: 0},
		}, nil
	}

	uc := usecase.NewReportUseCase(statsRepo, nil, zerolog.Nop())

	report, _, err := uc.Dashboard(context.Background(), usecase.DashboardQuery{
		Year:  2024,
		Month: 3,
		View:  usecase.ViewMonth,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalPackages != 2 {
		t.Errorf("expected 2 packages, got %d", report.TotalPackages)
	}

	// Statuses in fixed order, only those present.
	if len(report.StatusDistribution) != 2 {
		t.Fatalf("expected 2 status counts, got %d", len(report.StatusDistribution))
	}
	if report.StatusDistribution[0].Status != domain.StatusPending || report.StatusDistribution[1].Status != domain.StatusDelivered {
		t.Errorf("unexpected status order: %+v", report.StatusDistribution)
	}

	// March has 31 days and every day charts, quiet ones at zero.
	if len(report.PeriodStats) != 31 {
		t.Fatalf("expected 31 daily buckets, got %d", len(report.PeriodStats))
	}
	for _, bucket := range report.PeriodStats {
		want := int64(0)
		if bucket.Label == "5" || bucket.Label == "10" {
			want = 1
		}
		if bucket.Packages != want {
			t.Errorf("day %s: expected %d, got %d", bucket.Label, want, bucket.Packages)
		}
	}

	// Shop B had nothing in the window and is excluded.
	if len(report.ShopPopularity) != 1 {
		t.Fatalf("expected 1 shop, got %d", len(report.ShopPopularity))
	}
	shop := report.ShopPopularity[0]
	if shop.ShopID != "shop-a" || shop.Popularity != 100 || shop.DeliveryRate != 50 {
		t.Errorf("unexpected shop stats: %+v", shop)
	}
}

func TestReportUseCase_DashboardYear(t *testing.T) {
	statsRepo := mocks.NewMockStatsRepository()
	statsRepo.MonthlyCountsFunc = func(ctx context.Context, start, end time.Time) (map[time.Month]int64, error) {
		return map[time.Month]int64{time.February: 3, time.November: 7}, nil
	}

	uc := usecase.NewReportUseCase(statsRepo, nil, zerolog.Nop())

	report, _, err := uc.Dashboard(context.Background(), usecase.DashboardQuery{
		Year: 2024,
		View: usecase.ViewYear,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.PeriodStats) != 12 {
		t.Fatalf("expected 12 monthly buckets, got %d", len(report.PeriodStats))
	}
	if report.PeriodStats[0].Label != "January" || report.PeriodStats[11].Label != "December" {
		t.Errorf("buckets out of calendar order: %s .. %s", report.PeriodStats[0].Label, report.PeriodStats[11].Label)
	}
	if report.PeriodStats[1].Packages != 3 || report.PeriodStats[10].Packages != 7 {
		t.Errorf("unexpected monthly counts: %+v", report.PeriodStats)
	}
}

func TestReportUseCase_DashboardValidation(t *testing.T) {
	uc := usecase.NewReportUseCase(mocks.NewMockStatsRepository(), nil, zerolog.Nop())

	tests := []struct {
		name  string
		query usecase.DashboardQuery
	}{
		{"unknown view", usecase.DashboardQuery{Year: 2024, Month: 3, View: "week"}},
		{"month too large", usecase.DashboardQuery{Year: 2024, Month: 13, View: usecase.ViewMonth}},
		{"year before range", usecase.DashboardQuery{Year: 1999, Month: 3, View: usecase.ViewMonth}},
		{"year after range", usecase.DashboardQuery{Year: 2500, Month: 3, View: usecase.ViewMonth}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := uc.Dashboard(context.Background(), tt.query); !errors.Is(err, usecase.ErrInvalidWindow) {
				t.Errorf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

func TestReportUseCase_DashboardCache(t *testing.T) {
	calls := 0
	statsRepo := mocks.NewMockStatsRepository()
	statsRepo.CountInWindowFunc = func(ctx context.Context, start, end time.Time) (int64, error) {
		calls++
		return 4, nil
	}

	uc := usecase.NewReportUseCase(statsRepo, mocks.NewMockCache(), zerolog.Nop())

	query := usecase.DashboardQuery{Year: 2024, Month: 3, View: usecase.ViewMonth}

	_, cached, err := uc.Dashboard(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("first query should miss the cache")
	}

	report, cached, err := uc.Dashboard(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("second query should report a cache hit")
	}

	if calls != 1 {
		t.Errorf("second query should hit the cache, database hit %d times", calls)
	}

	if report.TotalPackages != 4 {
		t.Errorf("cached report lost data: %+v", report)
	}
}

// The month carries no meaning for a year view, so queries differing
// only by month share one cached report.
func TestReportUseCase_DashboardYearCacheIgnoresMonth(t *testing.T) {
	calls := 0
	statsRepo := mocks.NewMockStatsRepository()
	statsRepo.CountInWindowFunc = func(ctx context.Context, start, end time.Time) (int64, error) {
		calls++
		return 4, nil
	}

	uc := usecase.NewReportUseCase(statsRepo, mocks.NewMockCache(), zerolog.Nop())

	for _, month := range []int{1, 6, 12} {
		if _, _, err := uc.Dashboard(context.Background(), usecase.DashboardQuery{
			Year:  2024,
			Month: month,
			View:  usecase.ViewYear,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("year report computed %d times for one window", calls)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		query     usecase.DashboardQuery
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "march",
			query:     usecase.DashboardQuery{Year: 2024, Month: 3, View: usecase.ViewMonth},
			wantStart: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "leap february",
			query:     usecase.DashboardQuery{Year: 2024, Month: 2, View: usecase.ViewMonth},
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "year",
			query:     usecase.DashboardQuery{Year: 2024, Month: 6, View: usecase.ViewYear},
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := usecase.Window(tt.query)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start: expected %s, got %s", tt.wantStart, start)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end: expected %s, got %s", tt.wantEnd, end)
			}
		})
	}
}

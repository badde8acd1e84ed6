package history

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/wealthlens/wealthlens/internal/domain"
)

func snap(date string, value, invested float64) domain.PortfolioSnapshot {
	d, _ := time.Parse("2006-01-02", date)
	return domain.PortfolioSnapshot{UserID: 1, Date: d, TotalValue: value, TotalInvested: invested}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input string
		want  Period
	}{
		{"1M", Period1M},
		{"3M", Period3M},
		{"6M", Period6M},
		{"1Y", Period1Y},
		{"ALL", PeriodAll},
		{"", Period1M},
		{"2W", Period1M},
		{"all", Period1M},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePeriod(tt.input))
		})
	}
}

func TestFilterByPeriod_AllIsIdentity(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2020-01-01", 100, 100),
		snap("2024-01-01", 1000, 900),
		snap("2024-05-30", 1200, 1000),
	}

	got := svc.FilterByPeriod(snapshots, PeriodAll, now)
	assert.Equal(t, snapshots, got)
}

func TestFilterByPeriod_Windows(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2023-01-01", 500, 500),   // over a year old
		snap("2024-01-15", 800, 750),   // inside 6M only
		snap("2024-04-01", 900, 800),   // inside 3M
		snap("2024-05-20", 1000, 850),  // inside 1M
		snap("2024-06-01", 1100, 900),  // today
	}

	tests := []struct {
		period    Period
		wantCount int
		wantFirst string
	}{
		{Period1M, 2, "2024-05-20"},
		{Period3M, 3, "2024-04-01"},
		{Period6M, 4, "2024-01-15"},
		{Period1Y, 4, "2024-01-15"},
		{PeriodAll, 5, "2023-01-01"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := svc.FilterByPeriod(snapshots, tt.period, now)
			assert.Len(t, got, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, got[0].Date.Format("2006-01-02"))
			}
		})
	}
}

func TestFilterByPeriod_Empty(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Now()

	assert.Empty(t, svc.FilterByPeriod(nil, Period1M, now))
	assert.Empty(t, svc.FilterByPeriod([]domain.PortfolioSnapshot{}, PeriodAll, now))
}

func TestPerformanceSummary_EmptyIsZero(t *testing.T) {
	svc := NewService(zerolog.Nop())

	got := svc.PerformanceSummary(nil, Period1M, time.Now())
	assert.Equal(t, Summary{}, got)

	got = svc.PerformanceSummary(nil, PeriodAll, time.Now())
	assert.Equal(t, Summary{}, got)
}

func TestPerformanceSummary_AllUsesLatestTotals(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2024-01-01", 1000, 1000),
		snap("2024-02-01", 1200, 1100),
	}

	got := svc.PerformanceSummary(snapshots, PeriodAll, now)
	// ALL reports the latest totals directly, not a delta.
	assert.Equal(t, Summary{Invested: 1100, Current: 1200}, got)
}

func TestPerformanceSummary_WindowedDelta(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2023-06-01", 400, 400), // outside 1M window
		snap("2024-02-01", 1000, 1000),
		snap("2024-02-10", 1200, 1100),
	}

	got := svc.PerformanceSummary(snapshots, Period1M, now)
	assert.Equal(t, Summary{Invested: 100, Current: 200}, got)
}

func TestPerformanceSummary_NegativeValueChangeAllowed(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2024-02-01", 1000, 1000),
		snap("2024-02-10", 900, 1000),
	}

	got := svc.PerformanceSummary(snapshots, Period1M, now)
	assert.Equal(t, 0.0, got.Invested)
	assert.Equal(t, -100.0, got.Current)
}

func TestPerformanceSummary_WithdrawalFlooredAtZero(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	// Cost basis dropped inside the window (realized withdrawal); the
	// invested figure must not go negative.
	snapshots := []domain.PortfolioSnapshot{
		snap("2024-02-01", 1000, 1000),
		snap("2024-02-10", 800, 700),
	}

	got := svc.PerformanceSummary(snapshots, Period1M, now)
	assert.Equal(t, 0.0, got.Invested)
	assert.Equal(t, -200.0, got.Current)
}

func TestPerformanceSummary_SingleSnapshot(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2024-02-10", 1200, 1100),
	}

	// Single snapshot acts as both endpoints of the window.
	got := svc.PerformanceSummary(snapshots, Period1M, now)
	assert.Equal(t, Summary{Invested: 0, Current: 0}, got)
}

func TestChartPoints(t *testing.T) {
	svc := NewService(zerolog.Nop())
	now := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	snapshots := []domain.PortfolioSnapshot{
		snap("2024-02-01", 1000, 1000),
		snap("2024-02-10", 1200, 1100),
	}

	points := svc.ChartPoints(snapshots, PeriodAll, now)
	assert.Len(t, points, 2)
	assert.Equal(t, Point{Date: "2024-02-01", TotalValue: 1000, TotalInvested: 1000}, points[0])
	assert.Equal(t, Point{Date: "2024-02-10", TotalValue: 1200, TotalInvested: 1100}, points[1])
}

func TestTrend(t *testing.T) {
	svc := NewService(zerolog.Nop())

	var snapshots []domain.PortfolioSnapshot
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		snapshots = append(snapshots, domain.PortfolioSnapshot{
			Date:       base.AddDate(0, 0, i),
			TotalValue: float64(100 + i*10),
		})
	}

	points := svc.Trend(snapshots, 5)
	assert.Len(t, points, 10)
	// Moving average of a linear series equals the value at the window midpoint.
	assert.InDelta(t, 120.0, points[4].SMA, 1e-9)
	assert.InDelta(t, 170.0, points[9].SMA, 1e-9)

	// Too-short series yields no trend.
	assert.Nil(t, svc.Trend(snapshots[:3], 5))
}

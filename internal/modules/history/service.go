package history

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/pkg/formulas"
)

// Service turns snapshot series into period-bucketed views. All
// computations are pure functions over the snapshots passed in; the
// reference time is always an explicit parameter.
type Service struct {
	log zerolog.Logger
}

// NewService creates a new history service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("service", "history").Logger(),
	}
}

// FilterByPeriod returns the snapshots whose date falls inside the period
// window ending at now. ALL returns the input unfiltered. Order is
// preserved; an empty result is valid.
func (s *Service) FilterByPeriod(snapshots []domain.PortfolioSnapshot, period Period, now time.Time) []domain.PortfolioSnapshot {
	if period == PeriodAll {
		return snapshots
	}

	days, ok := periodDays[period]
	if !ok {
		days = periodDays[Period1M]
	}
	cutoff := now.AddDate(0, 0, -days)

	filtered := make([]domain.PortfolioSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if !snap.Date.Before(cutoff) {
			filtered = append(filtered, snap)
		}
	}

	return filtered
}

// ChartPoints converts filtered snapshots into growth-chart points
func (s *Service) ChartPoints(snapshots []domain.PortfolioSnapshot, period Period, now time.Time) []Point {
	filtered := s.FilterByPeriod(snapshots, period, now)

	points := make([]Point, 0, len(filtered))
	for _, snap := range filtered {
		points = append(points, Point{
			Date:          snap.Date.Format("2006-01-02"),
			TotalValue:    snap.TotalValue,
			TotalInvested: snap.TotalInvested,
		})
	}

	return points
}

// PerformanceSummary computes the period-scoped invested/current pair.
//
// For ALL (or an empty series) the latest known totals are returned
// directly. For a bounded window, invested is the cost-basis delta between
// the first and last snapshots in range, floored at zero so a withdrawal
// never reports negative new capital; current is the raw value delta and
// may be negative.
func (s *Service) PerformanceSummary(snapshots []domain.PortfolioSnapshot, period Period, now time.Time) Summary {
	if len(snapshots) == 0 {
		return Summary{}
	}

	if period == PeriodAll {
		latest := snapshots[len(snapshots)-1]
		return Summary{
			Invested: latest.TotalInvested,
			Current:  latest.TotalValue,
		}
	}

	inRange := s.FilterByPeriod(snapshots, period, now)
	if len(inRange) == 0 {
		return Summary{}
	}

	first := inRange[0]
	last := inRange[len(inRange)-1]

	invested := last.TotalInvested - first.TotalInvested
	if invested < 0 {
		invested = 0
	}

	return Summary{
		Invested: invested,
		Current:  last.TotalValue - first.TotalValue,
	}
}

// Trend computes a simple-moving-average overlay of total value for the
// growth chart. Returns nil when the series is shorter than the window.
func (s *Service) Trend(snapshots []domain.PortfolioSnapshot, window int) []TrendPoint {
	if len(snapshots) < window || window < 2 {
		return nil
	}

	values := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		values[i] = snap.TotalValue
	}

	sma := formulas.CalculateSMA(values, window)
	if sma == nil {
		return nil
	}

	points := make([]TrendPoint, len(snapshots))
	for i, snap := range snapshots {
		points[i] = TrendPoint{
			Date:       snap.Date.Format("2006-01-02"),
			TotalValue: snap.TotalValue,
			SMA:        sma[i],
		}
	}

	return points
}

package analytics

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/modules/goals"
	"github.com/wealthlens/wealthlens/internal/modules/history"
	"github.com/wealthlens/wealthlens/internal/modules/investments"
	"github.com/wealthlens/wealthlens/internal/modules/recommendations"
	"github.com/wealthlens/wealthlens/pkg/formulas"
)

// Snapshots are taken once per calendar day.
const snapshotsPerYear = 365

// SnapshotSource provides the stored snapshot series
type SnapshotSource interface {
	ListByUser(userID int64) ([]domain.PortfolioSnapshot, error)
}

// HoldingSource provides live holdings
type HoldingSource interface {
	ListByUser(userID int64) ([]domain.Investment, error)
}

// GoalSource provides active goals and their linked holding values
type GoalSource interface {
	ListActiveByUser(userID int64) ([]domain.Goal, error)
	LinkedCurrentValues(userID int64) (map[int64]float64, error)
}

// Recommender provides rebalancing suggestions
type Recommender interface {
	ForUser(userID int64) (recommendations.Recommendation, error)
}

// Service is the read-side facade behind the dashboard. It composes the
// history, goals, investments and recommendation modules into single
// responses and never writes anything.
type Service struct {
	snapshots   SnapshotSource
	holdings    HoldingSource
	goals       GoalSource
	recommender Recommender
	hist        *history.Service
	log         zerolog.Logger
}

// NewService creates a new analytics service
func NewService(snapshots SnapshotSource, holdings HoldingSource, goalSource GoalSource,
	recommender Recommender, hist *history.Service, log zerolog.Logger) *Service {
	return &Service{
		snapshots:   snapshots,
		holdings:    holdings,
		goals:       goalSource,
		recommender: recommender,
		hist:        hist,
		log:         log.With().Str("service", "analytics").Logger(),
	}
}

// Snapshots returns the stored series, synthesizing a single point from
// live holdings when no snapshot has been written yet. A brand-new
// account sees today's totals instead of an empty chart.
func (s *Service) Snapshots(userID int64, now time.Time) ([]domain.PortfolioSnapshot, error) {
	series, err := s.snapshots.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(series) > 0 {
		return series, nil
	}

	holdings, err := s.holdings.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, nil
	}

	summary := investments.Summarize(holdings)
	return []domain.PortfolioSnapshot{{
		UserID:        userID,
		Date:          now,
		TotalValue:    summary.TotalValue,
		TotalInvested: summary.TotalInvested,
	}}, nil
}

// Chart returns growth-chart points for a period
func (s *Service) Chart(userID int64, period history.Period, now time.Time) ([]history.Point, error) {
	series, err := s.Snapshots(userID, now)
	if err != nil {
		return nil, err
	}
	return s.hist.ChartPoints(series, period, now), nil
}

// Trend returns the chart with a moving-average overlay
func (s *Service) Trend(userID int64, window int, now time.Time) ([]history.TrendPoint, error) {
	series, err := s.Snapshots(userID, now)
	if err != nil {
		return nil, err
	}
	return s.hist.Trend(series, window), nil
}

// Summary returns the period-scoped invested/current pair
func (s *Service) Summary(userID int64, period history.Period, now time.Time) (history.Summary, error) {
	series, err := s.Snapshots(userID, now)
	if err != nil {
		return history.Summary{}, err
	}
	return s.hist.PerformanceSummary(series, period, now), nil
}

// Allocation returns the current pie chart split, one slice per asset
// type. Coarse equity/debt/cash grouping belongs to the recommendation
// engine; the pie keeps stock, etf and mutual fund apart.
func (s *Service) Allocation(userID int64) ([]Slice, error) {
	holdings, err := s.holdings.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return allocate(holdings), nil
}

func allocate(holdings []domain.Investment) []Slice {
	values := map[domain.AssetType]float64{}
	total := 0.0

	for _, inv := range holdings {
		values[inv.AssetType] += inv.CurrentValue
		total += inv.CurrentValue
	}

	slices := make([]Slice, 0, len(values))
	for assetType, value := range values {
		percent := 0.0
		if total > 0 {
			percent = round2(value / total * 100)
		}
		slices = append(slices, Slice{
			Name:    displayName(assetType),
			Value:   round2(value),
			Percent: percent,
		})
	}

	sort.Slice(slices, func(i, j int) bool { return slices[i].Name < slices[j].Name })
	return slices
}

// displayName turns a stored asset type into its chart label,
// "mutual_fund" becoming "Mutual Fund".
func displayName(assetType domain.AssetType) string {
	words := strings.Split(string(assetType), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// GoalsProgress returns progress for every active goal. Goals with
// linked holdings use their summed live value; unlinked goals fall back
// to the notional amount their contribution schedule implies.
func (s *Service) GoalsProgress(userID int64, now time.Time) ([]goals.Progress, error) {
	active, err := s.goals.ListActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return []goals.Progress{}, nil
	}

	linked, err := s.goals.LinkedCurrentValues(userID)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("Linked values unavailable, using notional fallback")
		linked = map[int64]float64{}
	}

	result := make([]goals.Progress, 0, len(active))
	for _, goal := range active {
		current, ok := linked[goal.ID]
		if !ok {
			current = goals.NotionalAccumulated(goal, now)
		}
		result = append(result, goals.CalculateProgress(goal, current))
	}

	return result, nil
}

// Metrics computes risk and performance statistics from the snapshot
// series. Fewer than two points yields a zero-valued result.
func (s *Service) Metrics(userID int64, now time.Time) (Metrics, error) {
	series, err := s.Snapshots(userID, now)
	if err != nil {
		return Metrics{}, err
	}

	metrics := Metrics{DataPoints: len(series)}
	if len(series) < 2 {
		return metrics, nil
	}

	values := make([]float64, len(series))
	for i, snap := range series {
		values[i] = snap.TotalValue
	}

	if first := values[0]; first > 0 {
		metrics.TotalReturnPct = round2((values[len(values)-1] - first) / first * 100)
	}

	returns := formulas.CalculateReturns(values)
	metrics.Volatility = formulas.AnnualizedVolatility(returns, snapshotsPerYear)
	metrics.SharpeRatio = formulas.CalculateSharpeRatio(returns, 0, snapshotsPerYear)
	metrics.MaxDrawdown = formulas.CalculateMaxDrawdown(values)
	metrics.CurrentDrawdown = formulas.CalculateCurrentDrawdown(values)

	return metrics, nil
}

// Dashboard assembles the landing-view payload. The four sections are
// fetched concurrently; a section that fails is logged and returned
// zeroed so one slow or broken dependency never blanks the whole view.
func (s *Service) Dashboard(userID int64, period history.Period, now time.Time) Dashboard {
	var dashboard Dashboard
	var wg sync.WaitGroup

	wg.Add(4)

	go func() {
		defer wg.Done()
		series, err := s.Snapshots(userID, now)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("Dashboard history section failed")
			return
		}
		dashboard.Summary = s.hist.PerformanceSummary(series, period, now)
		dashboard.Chart = s.hist.ChartPoints(series, period, now)
	}()

	go func() {
		defer wg.Done()
		holdings, err := s.holdings.ListByUser(userID)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("Dashboard holdings section failed")
			return
		}
		dashboard.Allocation = allocate(holdings)
		dashboard.Investments = investments.Summarize(holdings)
	}()

	go func() {
		defer wg.Done()
		progress, err := s.GoalsProgress(userID, now)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("Dashboard goals section failed")
			return
		}
		dashboard.Goals = progress
	}()

	go func() {
		defer wg.Done()
		rec, err := s.recommender.ForUser(userID)
		if err != nil {
			s.log.Error().Err(err).Int64("user_id", userID).Msg("Dashboard recommendation section failed")
			return
		}
		dashboard.Recommendation = rec
	}()

	wg.Wait()

	if dashboard.Chart == nil {
		dashboard.Chart = []history.Point{}
	}
	if dashboard.Allocation == nil {
		dashboard.Allocation = []Slice{}
	}
	if dashboard.Goals == nil {
		dashboard.Goals = []goals.Progress{}
	}

	return dashboard
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package investments

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
)

// QuoteSource fetches last-traded prices per symbol. Symbols without a
// quote are absent from the returned map.
type QuoteSource interface {
	FetchPrices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// Service handles investment business logic
type Service struct {
	repo   *Repository
	quotes QuoteSource
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a new investment service
func NewService(repo *Repository, quotes QuoteSource, eventBus *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		quotes: quotes,
		events: eventBus,
		log:    log.With().Str("service", "investments").Logger(),
	}
}

// ListByUser returns all holdings for a user
func (s *Service) ListByUser(userID int64) ([]domain.Investment, error) {
	return s.repo.ListByUser(userID)
}

// Summarize aggregates a user's holdings into portfolio totals
func (s *Service) Summarize(userID int64) (Summary, error) {
	holdings, err := s.repo.ListByUser(userID)
	if err != nil {
		return Summary{}, err
	}

	return Summarize(holdings), nil
}

// Summarize folds holdings into totals and per-category values.
// Empty input yields a zero summary, never an error.
func Summarize(holdings []domain.Investment) Summary {
	summary := Summary{
		HoldingCount: len(holdings),
		ByCategory:   map[string]float64{},
	}

	for _, inv := range holdings {
		summary.TotalInvested += inv.CostBasis
		summary.TotalValue += inv.CurrentValue
		summary.ByCategory[string(domain.CategoryOf(inv.AssetType))] += inv.CurrentValue
	}

	summary.TotalGainLoss = summary.TotalValue - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.GainLossPct = math.Round(summary.TotalGainLoss/summary.TotalInvested*100*100) / 100
	}

	return summary
}

// RefreshPrices fetches fresh quotes for every non-cash holding and
// recomputes current values. Holdings whose symbol returns no quote are
// skipped, not failed; cash positions never change value.
func (s *Service) RefreshPrices(ctx context.Context, userID int64) (RefreshResult, error) {
	holdings, err := s.repo.ListByUser(userID)
	if err != nil {
		return RefreshResult{}, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, inv := range holdings {
		if inv.AssetType == domain.AssetCash {
			continue
		}
		symbols = append(symbols, inv.Symbol)
	}
	if len(symbols) == 0 {
		return RefreshResult{}, nil
	}

	prices, err := s.quotes.FetchPrices(ctx, symbols)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("failed to fetch quotes: %w", err)
	}

	var result RefreshResult
	for _, inv := range holdings {
		if inv.AssetType == domain.AssetCash {
			continue
		}

		price, ok := prices[inv.Symbol]
		if !ok || price <= 0 {
			result.Skipped = append(result.Skipped, inv.Symbol)
			continue
		}

		value := valueAt(inv.Units, price)
		if err := s.repo.UpdatePrice(userID, inv.ID, price, value); err != nil {
			s.log.Error().Err(err).Str("symbol", inv.Symbol).Msg("Failed to store refreshed price")
			result.Skipped = append(result.Skipped, inv.Symbol)
			continue
		}
		result.Updated++
	}

	s.log.Info().Int64("user_id", userID).Int("updated", result.Updated).
		Int("skipped", len(result.Skipped)).Msg("Price refresh complete")

	s.events.Emit(events.PricesRefreshed, "investments", map[string]interface{}{
		"user_id": userID,
		"updated": result.Updated,
		"skipped": len(result.Skipped),
	})

	return result, nil
}

// valueAt multiplies units by price in decimal space so fractional unit
// counts don't accumulate binary-float drift, then rounds to cents.
func valueAt(units, price float64) float64 {
	v := decimal.NewFromFloat(units).Mul(decimal.NewFromFloat(price))
	f, _ := v.Round(2).Float64()
	return f
}

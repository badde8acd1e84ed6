package transactions

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
)

// PositionStore is the slice of the investments repository the ledger
// needs to keep holdings in sync with recorded trades.
type PositionStore interface {
	GetBySymbol(userID int64, symbol string) (*domain.Investment, error)
	Create(inv *domain.Investment) error
	Update(inv *domain.Investment) error
	Delete(userID, investmentID int64) error
}

// Service records trades and folds them into the matching holding.
// All position arithmetic runs in decimal space; float64 only appears
// at the storage and JSON boundaries.
type Service struct {
	repo      *Repository
	positions PositionStore
	events    *events.Manager
	log       zerolog.Logger
}

// NewService creates a new transaction service
func NewService(repo *Repository, positions PositionStore, eventBus *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		positions: positions,
		events:    eventBus,
		log:       log.With().Str("service", "transactions").Logger(),
	}
}

// ListByUser returns one page of the user's ledger
func (s *Service) ListByUser(userID int64, limit, offset int) (Page, error) {
	return s.repo.ListByUser(userID, limit, offset)
}

// Apply records the trade and updates the position it affects
func (s *Service) Apply(userID int64, tx domain.Transaction) (ApplyResult, error) {
	tx.UserID = userID
	if tx.ExecutedAt.IsZero() {
		tx.ExecutedAt = time.Now().UTC()
	}

	var result ApplyResult
	var err error
	switch tx.Type {
	case domain.TxBuy:
		result, err = s.applyBuy(tx)
	case domain.TxSell:
		result, err = s.applySell(tx)
	default:
		return ApplyResult{}, domain.Invalid("type", "must be buy or sell")
	}
	if err != nil {
		return ApplyResult{}, err
	}

	s.events.Emit(events.TradeRecorded, "transactions", map[string]interface{}{
		"symbol":   tx.Symbol,
		"type":     string(tx.Type),
		"quantity": tx.Quantity,
		"price":    tx.Price,
	})

	return result, nil
}

// applyBuy increases the position, recomputing cost basis and the
// volume-weighted average price. Fees are capitalized into cost basis.
func (s *Service) applyBuy(tx domain.Transaction) (ApplyResult, error) {
	qty := decimal.NewFromFloat(tx.Quantity)
	cost := qty.Mul(decimal.NewFromFloat(tx.Price)).Add(decimal.NewFromFloat(tx.Fees))

	position, err := s.positions.GetBySymbol(tx.UserID, tx.Symbol)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ApplyResult{}, fmt.Errorf("failed to load position: %w", err)
	}

	if position == nil {
		position = &domain.Investment{
			UserID:    tx.UserID,
			Symbol:    tx.Symbol,
			AssetType: tx.AssetType,
			LastPrice: tx.Price,
		}
		applyDecimals(position, qty, cost, tx.Price)
		if err := s.positions.Create(position); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to create position: %w", err)
		}
	} else {
		newUnits := decimal.NewFromFloat(position.Units).Add(qty)
		newCost := decimal.NewFromFloat(position.CostBasis).Add(cost)
		position.LastPrice = tx.Price
		applyDecimals(position, newUnits, newCost, tx.Price)
		if err := s.positions.Update(position); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to update position: %w", err)
		}
	}

	if err := s.repo.Create(&tx); err != nil {
		return ApplyResult{}, err
	}

	s.log.Info().Str("symbol", tx.Symbol).Float64("quantity", tx.Quantity).Msg("Buy recorded")

	return ApplyResult{Transaction: tx, Position: position}, nil
}

// applySell reduces the position at its average cost, leaving the
// average buy price unchanged. Selling the full position removes it.
func (s *Service) applySell(tx domain.Transaction) (ApplyResult, error) {
	position, err := s.positions.GetBySymbol(tx.UserID, tx.Symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return ApplyResult{}, domain.Invalid("symbol", "no position held for this symbol")
	}
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to load position: %w", err)
	}

	qty := decimal.NewFromFloat(tx.Quantity)
	held := decimal.NewFromFloat(position.Units)
	if qty.GreaterThan(held) {
		return ApplyResult{}, domain.Invalid("quantity", "exceeds units held")
	}

	avgCost := decimal.Zero
	if !held.IsZero() {
		avgCost = decimal.NewFromFloat(position.CostBasis).Div(held)
	}
	costRemoved := avgCost.Mul(qty)
	proceeds := qty.Mul(decimal.NewFromFloat(tx.Price)).Sub(decimal.NewFromFloat(tx.Fees))
	realized, _ := proceeds.Sub(costRemoved).Round(2).Float64()

	result := ApplyResult{RealizedGain: realized}

	remaining := held.Sub(qty)
	if remaining.IsZero() {
		if err := s.positions.Delete(tx.UserID, position.ID); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to close position: %w", err)
		}
		result.Closed = true
	} else {
		newCost := decimal.NewFromFloat(position.CostBasis).Sub(costRemoved)
		position.LastPrice = tx.Price
		applyDecimals(position, remaining, newCost, tx.Price)
		if err := s.positions.Update(position); err != nil {
			return ApplyResult{}, fmt.Errorf("failed to update position: %w", err)
		}
		result.Position = position
	}

	if err := s.repo.Create(&tx); err != nil {
		return ApplyResult{}, err
	}
	result.Transaction = tx

	s.log.Info().Str("symbol", tx.Symbol).Float64("quantity", tx.Quantity).
		Float64("realized_gain", realized).Msg("Sell recorded")

	return result, nil
}

// applyDecimals writes units, cost basis, average price and marked value
// back onto the position, rounding money fields to cents.
func applyDecimals(position *domain.Investment, units, cost decimal.Decimal, lastPrice float64) {
	position.Units, _ = units.Float64()
	position.CostBasis, _ = cost.Round(2).Float64()
	if units.IsPositive() {
		position.AvgBuyPrice, _ = cost.Div(units).Round(4).Float64()
	} else {
		position.AvgBuyPrice = 0
	}
	position.CurrentValue, _ = units.Mul(decimal.NewFromFloat(lastPrice)).Round(2).Float64()
}

package investments

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// Repository handles investment persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new investment repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "investments").Logger(),
	}
}

const investmentColumns = `id, user_id, goal_id, symbol, asset_type, units, avg_buy_price, cost_basis, current_value, last_price, last_price_at`

func scanInvestment(scanner interface{ Scan(...interface{}) error }) (domain.Investment, error) {
	var inv domain.Investment
	var goalID sql.NullInt64
	var lastPriceAt string
	err := scanner.Scan(&inv.ID, &inv.UserID, &goalID, &inv.Symbol, &inv.AssetType,
		&inv.Units, &inv.AvgBuyPrice, &inv.CostBasis, &inv.CurrentValue,
		&inv.LastPrice, &lastPriceAt)
	if err != nil {
		return inv, err
	}

	if goalID.Valid {
		inv.GoalID = &goalID.Int64
	}
	inv.LastPriceAt, _ = time.Parse("2006-01-02 15:04:05", lastPriceAt)

	return inv, nil
}

// ListByUser returns all holdings for a user, ordered by symbol
func (r *Repository) ListByUser(userID int64) ([]domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = ? ORDER BY symbol ASC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	var result []domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		result = append(result, inv)
	}

	return result, rows.Err()
}

// GetByID returns one holding owned by the user
func (r *Repository) GetByID(userID, investmentID int64) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = ? AND user_id = ?`

	inv, err := scanInvestment(r.db.QueryRow(query, investmentID, userID))
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// GetBySymbol returns the user's holding for one symbol, if any
func (r *Repository) GetBySymbol(userID int64, symbol string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = ? AND symbol = ?`

	inv, err := scanInvestment(r.db.QueryRow(query, userID, symbol))
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// Create inserts a new holding and returns it with its assigned id
func (r *Repository) Create(inv *domain.Investment) error {
	query := `
		INSERT INTO investments (user_id, goal_id, symbol, asset_type, units, avg_buy_price, cost_basis, current_value, last_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, inv.UserID, inv.GoalID, inv.Symbol, inv.AssetType,
		inv.Units, inv.AvgBuyPrice, inv.CostBasis, inv.CurrentValue, inv.LastPrice)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get investment id: %w", err)
	}
	inv.ID = id

	return nil
}

// Update modifies an existing holding owned by the user
func (r *Repository) Update(inv *domain.Investment) error {
	query := `
		UPDATE investments
		SET goal_id = ?, symbol = ?, asset_type = ?, units = ?, avg_buy_price = ?, cost_basis = ?, current_value = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.Exec(query, inv.GoalID, inv.Symbol, inv.AssetType,
		inv.Units, inv.AvgBuyPrice, inv.CostBasis, inv.CurrentValue,
		inv.ID, inv.UserID)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// UpdatePrice stores a fresh quote and the value derived from it
func (r *Repository) UpdatePrice(userID, investmentID int64, price, currentValue float64) error {
	query := `
		UPDATE investments
		SET last_price = ?, current_value = ?, last_price_at = datetime('now')
		WHERE id = ? AND user_id = ?
	`

	_, err := r.db.Exec(query, price, currentValue, investmentID, userID)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}

	return nil
}

// Delete removes a holding owned by the user
func (r *Repository) Delete(userID, investmentID int64) error {
	result, err := r.db.Exec(`DELETE FROM investments WHERE id = ? AND user_id = ?`, investmentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}

package transactions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// Repository handles the append-only transaction ledger. Entries are
// inserted and read, never updated or deleted.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new transaction repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

const txColumns = `id, user_id, symbol, asset_type, type, quantity, price, fees, executed_at`

func scanTransaction(scanner interface{ Scan(...interface{}) error }) (domain.Transaction, error) {
	var tx domain.Transaction
	var executedAt string
	err := scanner.Scan(&tx.ID, &tx.UserID, &tx.Symbol, &tx.AssetType, &tx.Type,
		&tx.Quantity, &tx.Price, &tx.Fees, &executedAt)
	if err != nil {
		return tx, err
	}

	tx.ExecutedAt, _ = time.Parse("2006-01-02 15:04:05", executedAt)

	return tx, nil
}

// Create appends a ledger entry and returns it with its assigned id
func (r *Repository) Create(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, symbol, asset_type, type, quantity, price, fees, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, tx.UserID, tx.Symbol, tx.AssetType, tx.Type,
		tx.Quantity, tx.Price, tx.Fees, tx.ExecutedAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction id: %w", err)
	}
	tx.ID = id

	return nil
}

// ListByUser returns one page of the user's ledger, newest first
func (r *Repository) ListByUser(userID int64, limit, offset int) (Page, error) {
	page := Page{Transactions: []domain.Transaction{}, Limit: limit, Offset: offset}

	err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE user_id = ?`, userID).Scan(&page.Total)
	if err != nil {
		return page, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + txColumns + ` FROM transactions
		WHERE user_id = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return page, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return page, fmt.Errorf("failed to scan transaction: %w", err)
		}
		page.Transactions = append(page.Transactions, tx)
	}

	return page, rows.Err()
}

// ListBySymbol returns the full ledger of one symbol, oldest first, the
// order cost-basis replay needs.
func (r *Repository) ListBySymbol(userID int64, symbol string) ([]domain.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions
		WHERE user_id = ? AND symbol = ?
		ORDER BY executed_at ASC, id ASC`

	rows, err := r.db.Query(query, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, tx)
	}

	return result, rows.Err()
}

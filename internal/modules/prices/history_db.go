package prices

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"
)

// HistoryDB stores daily closing prices per symbol in a dedicated
// SQLite file, kept apart from the application database so the quote
// archive can grow and be rebuilt independently.
type HistoryDB struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryDB opens (or creates) the price history database
func NewHistoryDB(path string, log zerolog.Logger) (*HistoryDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping price history database: %w", err)
	}

	h := &HistoryDB{
		db:  db,
		log: log.With().Str("component", "history_db").Logger(),
	}

	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return h, nil
}

func (h *HistoryDB) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS price_history (
			id INTEGER PRIMARY KEY,
			symbol TEXT NOT NULL,
			date TEXT NOT NULL,
			close_price REAL NOT NULL,
			UNIQUE(symbol, date)
		);
		CREATE INDEX IF NOT EXISTS idx_price_history_symbol ON price_history(symbol, date);
	`

	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create price history schema: %w", err)
	}

	return nil
}

// Close closes the underlying database
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// DailyClose is one archived closing price
type DailyClose struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Record stores one close for a symbol and day. A second write for the
// same day overwrites the earlier close.
func (h *HistoryDB) Record(symbol, date string, close float64) error {
	symbol = strings.ToUpper(symbol)

	query := `
		INSERT INTO price_history (symbol, date, close_price)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET close_price = excluded.close_price
	`

	if _, err := h.db.Exec(query, symbol, date, close); err != nil {
		return fmt.Errorf("failed to record price for %s: %w", symbol, err)
	}

	return nil
}

// GetCloses returns the most recent closes for a symbol, newest first
func (h *HistoryDB) GetCloses(symbol string, limit int) ([]DailyClose, error) {
	query := `
		SELECT date, close_price
		FROM price_history
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := h.db.Query(query, strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var closes []DailyClose
	for rows.Next() {
		var c DailyClose
		if err := rows.Scan(&c.Date, &c.Close); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		closes = append(closes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return closes, nil
}

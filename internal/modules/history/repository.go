package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// Repository handles portfolio snapshot persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "history").Logger(),
	}
}

// ListByUser returns all snapshots for a user ordered by date ascending
func (r *Repository) ListByUser(userID int64) ([]domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, user_id, date, total_value, total_invested
		FROM portfolio_history
		WHERE user_id = ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio history: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.PortfolioSnapshot
	for rows.Next() {
		var snap domain.PortfolioSnapshot
		var date string
		if err := rows.Scan(&snap.ID, &snap.UserID, &date, &snap.TotalValue, &snap.TotalInvested); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot date %q: %w", date, err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Upsert writes the snapshot for a calendar day, replacing any earlier
// write for the same (user, date) pair.
func (r *Repository) Upsert(userID int64, date time.Time, totalValue, totalInvested float64) error {
	query := `
		INSERT INTO portfolio_history (user_id, date, total_value, total_invested)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			total_value = excluded.total_value,
			total_invested = excluded.total_invested
	`

	if _, err := r.db.Exec(query, userID, date.Format("2006-01-02"), totalValue, totalInvested); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// UserIDs returns the ids of all users with at least one investment,
// used by the daily valuation job.
func (r *Repository) UserIDs() ([]int64, error) {
	rows, err := r.db.Query(`SELECT DISTINCT user_id FROM investments`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

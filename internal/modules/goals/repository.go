package goals

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// Repository handles goal persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new goal repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "goals").Logger(),
	}
}

const goalColumns = `id, user_id, goal_type, target_amount, target_date, monthly_contribution, status, created_at`

func scanGoal(scanner interface{ Scan(...interface{}) error }) (domain.Goal, error) {
	var g domain.Goal
	var targetDate, createdAt string
	err := scanner.Scan(&g.ID, &g.UserID, &g.GoalType, &g.TargetAmount, &targetDate,
		&g.MonthlyContribution, &g.Status, &createdAt)
	if err != nil {
		return g, err
	}

	g.TargetDate, _ = time.Parse("2006-01-02", targetDate)
	g.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)

	return g, nil
}

// ListByUser returns all goals for a user, newest first
func (r *Repository) ListByUser(userID int64) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var result []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		result = append(result, g)
	}

	return result, rows.Err()
}

// ListActiveByUser returns active goals ordered by target date, the set
// shown on the live dashboard.
func (r *Repository) ListActiveByUser(userID int64) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
		WHERE user_id = ? AND status = 'active'
		ORDER BY target_date ASC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active goals: %w", err)
	}
	defer rows.Close()

	var result []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		result = append(result, g)
	}

	return result, rows.Err()
}

// GetByID returns one goal owned by the user
func (r *Repository) GetByID(userID, goalID int64) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = ? AND user_id = ?`

	g, err := scanGoal(r.db.QueryRow(query, goalID, userID))
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// Create inserts a new goal and returns it with its assigned id
func (r *Repository) Create(goal *domain.Goal) error {
	query := `
		INSERT INTO goals (user_id, goal_type, target_amount, target_date, monthly_contribution, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, goal.UserID, goal.GoalType, goal.TargetAmount,
		goal.TargetDate.Format("2006-01-02"), goal.MonthlyContribution, goal.Status)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get goal id: %w", err)
	}
	goal.ID = id
	goal.CreatedAt = time.Now().UTC()

	return nil
}

// Update modifies an existing goal owned by the user
func (r *Repository) Update(goal *domain.Goal) error {
	query := `
		UPDATE goals
		SET goal_type = ?, target_amount = ?, target_date = ?, monthly_contribution = ?, status = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.Exec(query, goal.GoalType, goal.TargetAmount,
		goal.TargetDate.Format("2006-01-02"), goal.MonthlyContribution, goal.Status,
		goal.ID, goal.UserID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
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

// Delete removes a goal owned by the user
func (r *Repository) Delete(userID, goalID int64) error {
	result, err := r.db.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
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

// LinkedCurrentValues returns, per goal id, the summed current value of
// the investments linked to that goal.
func (r *Repository) LinkedCurrentValues(userID int64) (map[int64]float64, error) {
	query := `
		SELECT goal_id, SUM(current_value)
		FROM investments
		WHERE user_id = ? AND goal_id IS NOT NULL
		GROUP BY goal_id
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked values: %w", err)
	}
	defer rows.Close()

	values := make(map[int64]float64)
	for rows.Next() {
		var goalID int64
		var total float64
		if err := rows.Scan(&goalID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan linked value: %w", err)
		}
		values[goalID] = total
	}

	return values, rows.Err()
}

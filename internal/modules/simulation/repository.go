package simulation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles scenario persistence. Results are written once at
// creation and never updated.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new simulation repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "simulations").Logger(),
	}
}

// Create stores a computed scenario and assigns its id
func (r *Repository) Create(s *Scenario) error {
	resultsJSON, err := json.Marshal(s.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	query := `
		INSERT INTO simulations
			(user_id, scenario_name, initial_amount, monthly_contribution,
			 time_horizon_years, expected_return_rate, inflation_rate, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		s.UserID, s.ScenarioName,
		s.Assumptions.InitialAmount, s.Assumptions.MonthlyContribution,
		s.Assumptions.TimeHorizonYears, s.Assumptions.ExpectedReturnRate,
		s.Assumptions.InflationRate, string(resultsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get simulation id: %w", err)
	}
	s.ID = id
	s.CreatedAt = time.Now().UTC()

	return nil
}

const scenarioColumns = `id, user_id, scenario_name, initial_amount, monthly_contribution,
	time_horizon_years, expected_return_rate, inflation_rate, results, created_at`

func scanScenario(scanner interface{ Scan(...interface{}) error }) (*Scenario, error) {
	var s Scenario
	var resultsJSON, createdAt string
	err := scanner.Scan(&s.ID, &s.UserID, &s.ScenarioName,
		&s.Assumptions.InitialAmount, &s.Assumptions.MonthlyContribution,
		&s.Assumptions.TimeHorizonYears, &s.Assumptions.ExpectedReturnRate,
		&s.Assumptions.InflationRate, &resultsJSON, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(resultsJSON), &s.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	s.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)

	return &s, nil
}

// ListByUser returns a user's scenarios, newest first
func (r *Repository) ListByUser(userID int64) ([]*Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM simulations
		WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	var scenarios []*Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		scenarios = append(scenarios, s)
	}

	return scenarios, rows.Err()
}

// GetByID returns one scenario owned by the user
func (r *Repository) GetByID(userID, id int64) (*Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM simulations WHERE id = ? AND user_id = ?`
	return scanScenario(r.db.QueryRow(query, id, userID))
}

// Delete removes a scenario owned by the user
func (r *Repository) Delete(userID, id int64) error {
	result, err := r.db.Exec(`DELETE FROM simulations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
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

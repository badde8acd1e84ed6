package risk

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// Repository handles questionnaire storage and the stored risk profile
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new risk repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "risk").Logger(),
	}
}

// seed is the default questionnaire, loaded once on an empty table.
// Option scores run 1 (cautious) to 3 (risk-seeking).
var seed = []struct {
	question string
	options  [3]string
	scores   [3]int
}{
	{
		"How would you react if your portfolio lost 20% of its value in a month?",
		[3]string{"Sell everything to prevent further losses", "Hold and wait for recovery", "Buy more at the lower prices"},
		[3]int{1, 2, 3},
	},
	{
		"How long until you expect to need most of this money?",
		[3]string{"Within 3 years", "3 to 10 years", "More than 10 years"},
		[3]int{1, 2, 3},
	},
	{
		"Which outcome range would you prefer for a year?",
		[3]string{"Between -1% and +5%", "Between -10% and +15%", "Between -25% and +35%"},
		[3]int{1, 2, 3},
	},
	{
		"How stable is your current income?",
		[3]string{"Unstable or irregular", "Mostly stable", "Very stable with savings buffer"},
		[3]int{1, 2, 3},
	},
	{
		"How much investing experience do you have?",
		[3]string{"None, this is my first portfolio", "A few years of funds or stocks", "Many years across asset classes"},
		[3]int{1, 2, 3},
	},
	{
		"What share of your savings does this portfolio represent?",
		[3]string{"Nearly all of it", "About half", "A small part"},
		[3]int{1, 2, 3},
	},
	{
		"What matters more to you?",
		[3]string{"Protecting what I have", "Balanced growth with some protection", "Maximizing long-term growth"},
		[3]int{1, 2, 3},
	},
}

// SeedQuestions inserts the default questionnaire if the table is empty
func (r *Repository) SeedQuestions() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM risk_questions`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count risk questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := `
		INSERT INTO risk_questions (question, option1, option2, option3, option1_score, option2_score, option3_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, q := range seed {
		_, err := r.db.Exec(query, q.question, q.options[0], q.options[1], q.options[2],
			q.scores[0], q.scores[1], q.scores[2])
		if err != nil {
			return fmt.Errorf("failed to seed risk question: %w", err)
		}
	}

	r.log.Info().Int("count", len(seed)).Msg("Seeded risk questionnaire")

	return nil
}

// ListQuestions returns all questionnaire items in stored order
func (r *Repository) ListQuestions() ([]Question, error) {
	query := `
		SELECT id, question, option1, option2, option3, option1_score, option2_score, option3_score
		FROM risk_questions ORDER BY id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk questions: %w", err)
	}
	defer rows.Close()

	var result []Question
	for rows.Next() {
		var q Question
		var o1, o2, o3 string
		var s1, s2, s3 int
		if err := rows.Scan(&q.ID, &q.Text, &o1, &o2, &o3, &s1, &s2, &s3); err != nil {
			return nil, fmt.Errorf("failed to scan risk question: %w", err)
		}
		q.Options = []Option{{o1, s1}, {o2, s2}, {o3, s3}}
		result = append(result, q)
	}

	return result, rows.Err()
}

// SaveProfile stores the scored outcome on the user row
func (r *Repository) SaveProfile(userID int64, score int, profile domain.RiskProfile) error {
	query := `
		UPDATE users
		SET risk_score = ?, risk_profile = ?, profile_completed = 1
		WHERE id = ?
	`

	result, err := r.db.Exec(query, score, string(profile), userID)
	if err != nil {
		return fmt.Errorf("failed to save risk profile: %w", err)
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

// GetRiskProfile returns the user's stored risk tier. A user who never
// completed the questionnaire yields an error, which callers treat as
// "use the moderate default".
func (r *Repository) GetRiskProfile(userID int64) (domain.RiskProfile, error) {
	var profile sql.NullString
	err := r.db.QueryRow(`SELECT risk_profile FROM users WHERE id = ?`, userID).Scan(&profile)
	if err != nil {
		return "", err
	}
	if !profile.Valid || profile.String == "" {
		return "", fmt.Errorf("user %d has no risk profile", userID)
	}

	return domain.RiskProfile(profile.String), nil
}

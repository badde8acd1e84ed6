package goals

// Progress is the derived progress view of a single goal
type Progress struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Current             float64 `json:"current"`
	Target              float64 `json:"target"`
	Percent             float64 `json:"percent"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	MonthsRemaining     int     `json:"months_remaining"`
	TargetDate          string  `json:"target_date,omitempty"`
	Status              string  `json:"status"`
}

// UpsertRequest is the create/update payload for a goal
type UpsertRequest struct {
	GoalType            string  `json:"goal_type"`
	TargetAmount        float64 `json:"target_amount"`
	TargetDate          string  `json:"target_date"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	Status              string  `json:"status"`
}

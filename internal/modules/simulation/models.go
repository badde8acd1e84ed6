package simulation

import "time"

// Assumptions are the five inputs a scenario is a pure function of
type Assumptions struct {
	InitialAmount       float64 `json:"initial_amount"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	TimeHorizonYears    int     `json:"time_horizon_years"`
	ExpectedReturnRate  float64 `json:"expected_return_rate"` // annual %, may be negative
	InflationRate       float64 `json:"inflation_rate"`       // annual %, may be negative
}

// ChartPoint is one month of the projected trajectory
type ChartPoint struct {
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	Invested     float64 `json:"invested"`
	NominalValue float64 `json:"nominal_value"`
	RealValue    float64 `json:"real_value"`
}

// Summary aggregates the end state of a projection
type Summary struct {
	Years               int     `json:"years"`
	TotalInvested       float64 `json:"total_invested"`
	FutureValueNominal  float64 `json:"future_value_nominal"`
	FutureValueReal     float64 `json:"future_value_real"`
	NominalGain         float64 `json:"nominal_gain"`
	RealGain            float64 `json:"real_gain"`
	PurchasingPowerLoss float64 `json:"purchasing_power_loss"`
}

// Results holds a complete simulation outcome. Identical assumptions
// always reproduce identical results.
type Results struct {
	Summary   Summary      `json:"summary"`
	ChartData []ChartPoint `json:"chart_data"`
}

// Scenario is a stored simulation
type Scenario struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"-"`
	ScenarioName string      `json:"scenario_name"`
	Assumptions  Assumptions `json:"assumptions"`
	Results      Results     `json:"results"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CreateRequest is the POST payload
type CreateRequest struct {
	ScenarioName        string  `json:"scenario_name"`
	InitialAmount       float64 `json:"initial_amount"`
	MonthlyContribution float64 `json:"monthly_contribution"`
	TimeHorizonYears    int     `json:"time_horizon_years"`
	ExpectedReturnRate  float64 `json:"expected_return_rate"`
	InflationRate       float64 `json:"inflation_rate"`
}

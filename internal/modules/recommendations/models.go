package recommendations

import "github.com/wealthlens/wealthlens/internal/domain"

// AllocationModel maps asset categories to target weight percentages.
// Weights sum to 100 for every risk tier.
type AllocationModel map[domain.AssetCategory]float64

// Strategies is the reference allocation model per risk tier
var Strategies = map[domain.RiskProfile]AllocationModel{
	domain.RiskConservative: {
		domain.CategoryEquity: 20,
		domain.CategoryDebt:   60,
		domain.CategoryCash:   20,
	},
	domain.RiskModerate: {
		domain.CategoryEquity: 50,
		domain.CategoryDebt:   40,
		domain.CategoryCash:   10,
	},
	domain.RiskAggressive: {
		domain.CategoryEquity: 80,
		domain.CategoryDebt:   15,
		domain.CategoryCash:   5,
	},
}

// ModelFor returns the allocation model for a risk tier, falling back to
// moderate for unknown or unset tiers.
func ModelFor(profile domain.RiskProfile) (domain.RiskProfile, AllocationModel) {
	if model, ok := Strategies[profile]; ok {
		return profile, model
	}
	return domain.RiskModerate, Strategies[domain.RiskModerate]
}

// Suggestion is one ranked rebalancing action
type Suggestion struct {
	Category  string  `json:"category"`
	Action    string  `json:"action"` // "Increase", "Decrease" or "Invest"
	Delta     float64 `json:"delta"`  // current minus target, percent points
	Message   string  `json:"message"`
	Reasoning string  `json:"reasoning"`
}

// Recommendation is the full engine output
type Recommendation struct {
	RiskProfile         string             `json:"risk_profile"`
	TargetAllocation    map[string]float64 `json:"target_allocation"`
	CurrentAllocation   map[string]float64 `json:"current_allocation"`
	TotalPortfolioValue float64            `json:"total_portfolio_value"`
	Suggestions         []Suggestion       `json:"suggestions"`
}

package investments

// UpsertRequest is the payload for creating or updating a holding
type UpsertRequest struct {
	GoalID       *int64  `json:"goal_id"`
	Symbol       string  `json:"symbol"`
	AssetType    string  `json:"asset_type"`
	Units        float64 `json:"units"`
	AvgBuyPrice  float64 `json:"avg_buy_price"`
	CurrentValue float64 `json:"current_value"`
}

// Summary aggregates all holdings of one user
type Summary struct {
	TotalInvested float64            `json:"total_invested"`
	TotalValue    float64            `json:"total_value"`
	TotalGainLoss float64            `json:"total_gain_loss"`
	GainLossPct   float64            `json:"gain_loss_pct"`
	HoldingCount  int                `json:"holding_count"`
	ByCategory    map[string]float64 `json:"by_category"`
}

// RefreshResult reports the outcome of a price refresh run
type RefreshResult struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}
